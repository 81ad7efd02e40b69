package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewarden/gatewarden/internal/platform/db"
	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

const userColumns = `id, email, first_name, middle_name, last_name, password_hash, is_active, is_superuser, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users ordered by email.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindByID fetches a user by id regardless of the active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserRow(row)
}

// FindActiveByID fetches a user that exists and is active. This is the only
// read the decision engine performs against the user directory.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id)
	return scanUserRow(row)
}

// FindByEmail fetches a user by unique email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUserRow(row)
}

// Create inserts a new account. Duplicate emails surface as a conflict.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, first_name, middle_name, last_name, password_hash, is_active, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.Email, u.FirstName, u.MiddleName, u.LastName, u.PasswordHash, u.IsActive, u.IsSuperuser)
	created, err := scanUserRow(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("users: email already registered: %w", httpx.ErrConflict)
		}
		return User{}, err
	}
	return created, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, middleName, lastName string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET first_name = $2, middle_name = $3, last_name = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, firstName, middleName, lastName)
	return scanUserRow(row)
}

// Deactivate soft-deletes the account by clearing the active flag and
// purges its token issuance records in the same transaction.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("users: %w", httpx.ErrNotFound)
		}
		_, err = tx.Exec(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, id)
		return err
	})
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func scanUserRow(row pgx.Row) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("users: %w", httpx.ErrNotFound)
		}
		return User{}, err
	}
	return u, nil
}
