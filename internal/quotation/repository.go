// Package quotation manages quotation requests submitted from the public
// site and their admin-side triage.
package quotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status values a quotation moves through. Transitions are admin-driven and
// unordered.
const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is a recognized quotation status.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusProcessing || s == StatusCompleted
}

// UserType values accepted on submission.
const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
)

// Quotation is a request-for-quote message. Category and Product are free
// text references, not foreign keys.
type Quotation struct {
	ID         string    `json:"id"`
	UserType   string    `json:"userType"`
	Name       string    `json:"name"`
	Company    *string   `json:"company,omitempty"`
	Email      string    `json:"email"`
	Mobile     *string   `json:"mobile,omitempty"`
	Country    *string   `json:"country,omitempty"`
	Profession *string   `json:"profession,omitempty"`
	Category   *string   `json:"category,omitempty"`
	Product    *string   `json:"product,omitempty"`
	Message    *string   `json:"message,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a quotation does not exist.
var ErrNotFound = errors.New("quotation not found")

// Repository handles all quotation database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const quotationColumns = `id, user_type, name, company, email, mobile, country,
	profession, category, product, message, status, created_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	q := &Quotation{}
	err := row.Scan(&q.ID, &q.UserType, &q.Name, &q.Company, &q.Email, &q.Mobile,
		&q.Country, &q.Profession, &q.Category, &q.Product, &q.Message,
		&q.Status, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new quotation with status "new" and returns the record.
func (r *Repository) Create(ctx context.Context, q *Quotation) (*Quotation, error) {
	created, err := scanQuotation(r.db.QueryRow(ctx,
		`INSERT INTO quotations
		   (user_type, name, company, email, mobile, country, profession,
		    category, product, message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+quotationColumns,
		q.UserType, q.Name, q.Company, q.Email, q.Mobile, q.Country,
		q.Profession, q.Category, q.Product, q.Message))
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return created, nil
}

// List returns quotations newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	quotations := []Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		quotations = append(quotations, *q)
	}
	return quotations, rows.Err()
}

// UpdateStatus sets the quotation status and returns the updated record.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (*Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx,
		`UPDATE quotations SET status = $2 WHERE id = $1 RETURNING `+quotationColumns,
		id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	return q, nil
}
