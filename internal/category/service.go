package category

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Repo is the persistence surface the service needs.
type Repo interface {
	List(ctx context.Context) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, name, slug, description string) (*Category, error)
	Count(ctx context.Context) (int, error)
}

// defaultCategories is seeded on first start so the public site is never empty.
var defaultCategories = []struct {
	Name, Slug, Description string
}{
	{"Garment", "garment", "Premium ready-to-wear garments"},
	{"Fabric", "fabric", "High-quality fabrics for various applications"},
	{"Yarn", "yarn", "Premium yarns in various counts and materials"},
	{"Home Textiles", "home-textiles", "Elegant home textiles and furnishings"},
	{"Fiber & Feedstock", "fiber-feedstock", "Raw materials and feedstock"},
}

// Service contains business logic for category browsing.
type Service struct {
	repo Repo
	log  *zap.Logger
}

// NewService creates a new category Service.
func NewService(repo Repo, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// GetBySlug returns the category with the given slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// EnsureDefaults lazily creates the default category set when none exist.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, c := range defaultCategories {
		if _, err := s.repo.Create(ctx, c.Name, c.Slug, c.Description); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Slug, err)
		}
	}
	s.log.Info("seeded default categories", zap.Int("count", len(defaultCategories)))
	return nil
}
