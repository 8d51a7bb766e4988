// Package category manages product categories and their persistence.
package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Category groups products on the public site.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a category does not exist.
var ErrNotFound = errors.New("category not found")

// Repository handles all category database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns all categories ordered by name ascending.
func (r *Repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug, description, created_at
		 FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetBySlug fetches a category by its unique slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, slug, description, created_at
		 FROM categories WHERE slug = $1`,
		slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns the created record.
func (r *Repository) Create(ctx context.Context, name, slug, description string) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name, slug, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, slug, description, created_at`,
		name, slug, description,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Count returns the number of category records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
