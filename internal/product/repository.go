// Package product manages catalog products: persistence, the admin mutation
// pipeline, and the public browsing endpoints.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Product is a catalog entry. Images is the ordered list of public blob URLs
// owned exclusively by this record. Price is a decimal string; it is nil
// whenever PriceOnRequest is set.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    *string        `json:"description,omitempty"`
	CategoryID     string         `json:"categoryId"`
	Images         []string       `json:"images"`
	Specifications Specifications `json:"specifications"`
	Price          *string        `json:"price,omitempty"`
	PriceOnRequest bool           `json:"priceOnRequest"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrSlugTaken is returned when the slug is already used by another product.
var ErrSlugTaken = errors.New("product slug already exists")

// ErrUnknownCategory is returned when the referenced category does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// Filter narrows public product listings.
type Filter struct {
	CategoryID string
	Search     string
}

// Repository handles all product database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const productColumns = `id, name, slug, description, category_id, images,
	specifications, price::text, price_on_request, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.CategoryID,
		&p.Images, &p.Specifications, &p.Price, &p.PriceOnRequest, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns active products, newest first, optionally filtered by
// category and a case-insensitive name substring.
func (r *Repository) List(ctx context.Context, f Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = true`
	args := []any{}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetByID fetches a product by its UUID, active or not.
func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// GetBySlug fetches a product by its unique slug, active or not.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new product and returns the created record.
func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	created, err := scanProduct(r.db.QueryRow(ctx,
		`INSERT INTO products
		   (name, slug, description, category_id, images, specifications,
		    price, price_on_request, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
		 RETURNING `+productColumns,
		p.Name, p.Slug, p.Description, p.CategoryID, p.Images, p.Specifications,
		p.Price, p.PriceOnRequest, p.IsActive))
	if err != nil {
		return nil, mapWriteError(err, "create product")
	}
	return created, nil
}

// Update overwrites the mutable fields of the product and returns the
// updated record. Last writer wins.
func (r *Repository) Update(ctx context.Context, id string, p *Product) (*Product, error) {
	updated, err := scanProduct(r.db.QueryRow(ctx,
		`UPDATE products SET
		   name = $2, slug = $3, description = $4, category_id = $5,
		   images = $6, specifications = $7, price = $8::numeric,
		   price_on_request = $9, is_active = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, p.Name, p.Slug, p.Description, p.CategoryID, p.Images,
		p.Specifications, p.Price, p.PriceOnRequest, p.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapWriteError(err, "update product")
	}
	return updated, nil
}

// Delete removes the product record.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapWriteError converts Postgres constraint violations into package errors.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation (slug)
			return ErrSlugTaken
		case "23503": // foreign_key_violation (category_id)
			return ErrUnknownCategory
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
