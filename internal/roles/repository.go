package roles

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

const roleColumns = `id, name, description, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all roles ordered by name.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Get fetches a role by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

// Create inserts a new role. Duplicate names surface as a conflict.
func (r *Repository) Create(ctx context.Context, name, description string) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING `+roleColumns,
		name, description)
	role, err := scanRole(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Role{}, fmt.Errorf("roles: name %q already exists: %w", name, httpx.ErrConflict)
		}
		return Role{}, err
	}
	return role, nil
}

// Update renames or re-describes an existing role.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description string) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING `+roleColumns,
		id, name, description)
	role, err := scanRole(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Role{}, fmt.Errorf("roles: name %q already exists: %w", name, httpx.ErrConflict)
		}
		return Role{}, err
	}
	return role, nil
}

// Delete removes a role. Dependent rules and assignments are removed by the
// storage layer's cascade constraints.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roles: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, fmt.Errorf("roles: %w", httpx.ErrNotFound)
		}
		return Role{}, err
	}
	return role, nil
}
