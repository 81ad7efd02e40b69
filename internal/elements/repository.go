package elements

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

const elementColumns = `id, name, description, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all elements ordered by name.
func (r *Repository) List(ctx context.Context) ([]Element, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+elementColumns+` FROM business_elements ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var elems []Element
	for rows.Next() {
		var e Element
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return elems, rows.Err()
}

// Get fetches an element by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Element, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+elementColumns+` FROM business_elements WHERE id = $1`, id)
	return scanElement(row)
}

// FindByName fetches an element by exact name. This is the lookup the
// decision engine performs; absence maps to httpx.ErrNotFound and the
// engine decides how much of that to reveal.
func (r *Repository) FindByName(ctx context.Context, name string) (Element, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+elementColumns+` FROM business_elements WHERE name = $1`, name)
	return scanElement(row)
}

// Create inserts a new element. Duplicate names surface as a conflict.
func (r *Repository) Create(ctx context.Context, name, description string) (Element, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO business_elements (name, description) VALUES ($1, $2) RETURNING `+elementColumns,
		name, description)
	elem, err := scanElement(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Element{}, fmt.Errorf("elements: name %q already exists: %w", name, httpx.ErrConflict)
		}
		return Element{}, err
	}
	return elem, nil
}

// Update renames or re-describes an existing element.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description string) (Element, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE business_elements SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING `+elementColumns,
		id, name, description)
	elem, err := scanElement(row)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Element{}, fmt.Errorf("elements: name %q already exists: %w", name, httpx.ErrConflict)
		}
		return Element{}, err
	}
	return elem, nil
}

// Delete removes an element; dependent rules go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM business_elements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("elements: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanElement(row pgx.Row) (Element, error) {
	var e Element
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Element{}, fmt.Errorf("elements: %w", httpx.ErrNotFound)
		}
		return Element{}, err
	}
	return e, nil
}
