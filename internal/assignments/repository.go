package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Assign creates the (user, role) membership. An existing pair is a
// conflict; a missing user or role is reported as not found.
func (r *Repository) Assign(ctx context.Context, userID, roleID uuid.UUID) (UserRole, error) {
	var ur UserRole
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		 RETURNING id, user_id, role_id, created_at`,
		userID, roleID).Scan(&ur.ID, &ur.UserID, &ur.RoleID, &ur.CreatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return UserRole{}, fmt.Errorf("assignments: user already holds role: %w", httpx.ErrConflict)
		}
		if shared.IsForeignKeyViolation(err) {
			return UserRole{}, fmt.Errorf("assignments: user or role does not exist: %w", httpx.ErrNotFound)
		}
		return UserRole{}, err
	}
	return ur, nil
}

// Unassign removes the (user, role) membership. Removing an absent pair is
// not an error at the store layer; the boolean reports whether a row was
// actually deleted so the admin API can decide to surface 404.
func (r *Repository) Unassign(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RolesForUser returns the ids of every role the user holds. The slice is
// finite, safe to re-enumerate, and carries no ordering guarantee.
func (r *Repository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListForUser returns the full membership rows for a user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]UserRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, role_id, created_at FROM user_roles WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []UserRole
	for rows.Next() {
		var ur UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.RoleID, &ur.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, ur)
	}
	return list, rows.Err()
}
