package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory Repo.
type fakeRepo struct {
	categories []Category
}

func (f *fakeRepo) List(ctx context.Context) ([]Category, error) {
	return f.categories, nil
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, name, slug, description string) (*Category, error) {
	c := Category{ID: slug, Name: name, Slug: slug, Description: &description}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	return len(f.categories), nil
}

func TestEnsureDefaultsSeedsEmptyTable(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	require.NoError(t, svc.EnsureDefaults(context.Background()))
	require.Len(t, repo.categories, 5)

	c, err := svc.GetBySlug(context.Background(), "garment")
	require.NoError(t, err)
	require.Equal(t, "Garment", c.Name)
}

func TestEnsureDefaultsSkipsPopulatedTable(t *testing.T) {
	repo := &fakeRepo{categories: []Category{{ID: "c-1", Name: "Existing", Slug: "existing"}}}
	svc := NewService(repo, zap.NewNop())

	require.NoError(t, svc.EnsureDefaults(context.Background()))
	require.Len(t, repo.categories, 1)
}
