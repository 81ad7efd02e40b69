package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

const ruleColumns = `id, role_id, element_id,
	read_permission, read_all_permission, create_permission,
	update_permission, update_all_permission,
	delete_permission, delete_all_permission,
	created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all rules.
func (r *Repository) List(ctx context.Context) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM access_role_rules ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rules []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Get fetches a rule by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Rule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM access_role_rules WHERE id = $1`, id)
	return scanRuleRow(row)
}

// FindByRoleAndElement fetches the single rule for a (role, element) pair.
// Absence is reported as httpx.ErrNotFound; for the decision engine that
// simply means "no explicit grant".
func (r *Repository) FindByRoleAndElement(ctx context.Context, roleID, elementID uuid.UUID) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM access_role_rules WHERE role_id = $1 AND element_id = $2`,
		roleID, elementID)
	return scanRuleRow(row)
}

// Create inserts the rule for a (role, element) pair. A second rule for an
// existing pair violates the storage uniqueness constraint and surfaces as
// a conflict.
func (r *Repository) Create(ctx context.Context, roleID, elementID uuid.UUID, f PermissionFlags) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO access_role_rules (role_id, element_id,
			read_permission, read_all_permission, create_permission,
			update_permission, update_all_permission,
			delete_permission, delete_all_permission)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+ruleColumns,
		roleID, elementID,
		f.Read, f.ReadAll, f.Create, f.Update, f.UpdateAll, f.Delete, f.DeleteAll)
	rule, err := scanRuleRow(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Rule{}, fmt.Errorf("rules: rule for (role, element) pair already exists: %w", httpx.ErrConflict)
		}
		return Rule{}, err
	}
	return rule, nil
}

// Update replaces the flags on an existing rule.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, f PermissionFlags) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE access_role_rules SET
			read_permission = $2, read_all_permission = $3, create_permission = $4,
			update_permission = $5, update_all_permission = $6,
			delete_permission = $7, delete_all_permission = $8,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+ruleColumns,
		id, f.Read, f.ReadAll, f.Create, f.Update, f.UpdateAll, f.Delete, f.DeleteAll)
	return scanRuleRow(row)
}

// Delete removes a rule by id with no further side effects.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_role_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rules: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanRule(row pgx.Row) (Rule, error) {
	var rule Rule
	err := row.Scan(&rule.ID, &rule.RoleID, &rule.ElementID,
		&rule.Flags.Read, &rule.Flags.ReadAll, &rule.Flags.Create,
		&rule.Flags.Update, &rule.Flags.UpdateAll,
		&rule.Flags.Delete, &rule.Flags.DeleteAll,
		&rule.CreatedAt, &rule.UpdatedAt)
	return rule, err
}

func scanRuleRow(row pgx.Row) (Rule, error) {
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, fmt.Errorf("rules: %w", httpx.ErrNotFound)
		}
		return Rule{}, err
	}
	return rule, nil
}
