package quotation

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/mailer"
)

// Repo is the persistence surface the service needs.
type Repo interface {
	Create(ctx context.Context, q *Quotation) (*Quotation, error)
	List(ctx context.Context, status string) ([]Quotation, error)
	UpdateStatus(ctx context.Context, id, status string) (*Quotation, error)
}

// Service contains business logic for quotation intake and triage.
type Service struct {
	repo       Repo
	mail       mailer.Mailer
	adminEmail string
	log        *zap.Logger
}

// NewService creates a new quotation Service.
func NewService(repo Repo, mail mailer.Mailer, adminEmail string, log *zap.Logger) *Service {
	return &Service{repo: repo, mail: mail, adminEmail: adminEmail, log: log}
}

// Create persists a new quotation and notifies the admin mailbox.
// The notification is best-effort: a send failure is logged and never
// surfaced to the submitter.
func (s *Service) Create(ctx context.Context, q *Quotation) (*Quotation, error) {
	created, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	subject := fmt.Sprintf("New Quotation Request from %s", created.Name)
	if err := s.mail.Send(s.adminEmail, subject, notificationBody(created)); err != nil {
		s.log.Warn("quotation notification not sent",
			zap.String("quotation_id", created.ID), zap.Error(err))
	}

	return created, nil
}

// List returns quotations, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Quotation, error) {
	return s.repo.List(ctx, status)
}

// UpdateStatus sets the status of a quotation.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Quotation, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

// notificationBody renders the admin notification email for a quotation.
func notificationBody(q *Quotation) string {
	var b strings.Builder
	b.WriteString("<h2>New Quotation Request</h2>\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>\n", label, html.EscapeString(value))
	}
	opt := func(label string, value *string) {
		if value != nil && *value != "" {
			row(label, *value)
		} else {
			row(label, "N/A")
		}
	}

	row("Name", q.Name)
	opt("Company", q.Company)
	row("Email", q.Email)
	opt("Mobile", q.Mobile)
	opt("Country", q.Country)
	row("User Type", q.UserType)
	opt("Category", q.Category)
	opt("Product", q.Product)
	if q.Message != nil && *q.Message != "" {
		b.WriteString("<p><strong>Message:</strong></p>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(*q.Message))
	} else {
		b.WriteString("<p><strong>Message:</strong></p>\n<p>No additional message</p>\n")
	}
	return b.String()
}
