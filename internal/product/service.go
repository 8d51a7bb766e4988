package product

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/imaging"
	"github.com/karmic/catalog/internal/storage"
)

// ErrValidation marks a rejected mutation caused by bad input. Handlers map
// it to a 400 with the wrapped message.
var ErrValidation = errors.New("validation")

// Repo is the persistence surface the service needs.
type Repo interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id string, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// Input carries the form fields of a create/update request, as submitted.
type Input struct {
	Name               string
	Slug               string
	Description        string
	CategoryID         string
	SpecificationsJSON string
	Price              string
	PriceOnRequest     bool
	IsActive           bool
}

// File is one uploaded image file.
type File struct {
	Name   string
	Reader io.Reader
}

// Service orchestrates product mutations: transcode and store uploaded
// images, persist the record, and clean up stale blobs.
type Service struct {
	repo  Repo
	store storage.Storage
	log   *zap.Logger
}

// NewService creates a new product Service.
func NewService(repo Repo, store storage.Storage, log *zap.Logger) *Service {
	return &Service{repo: repo, store: store, log: log}
}

// List returns active products matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

// GetBySlug returns the product with the given slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create validates the input, runs every uploaded file through the image
// pipeline, and persists the record with the resulting URL list. Any
// transcode or upload failure aborts the whole mutation; blobs uploaded
// before the failure are removed best-effort.
func (s *Service) Create(ctx context.Context, input Input, files []File) (*Product, error) {
	p, err := s.buildRecord(input)
	if err != nil {
		return nil, err
	}

	urls, keys, err := s.processImages(ctx, files)
	if err != nil {
		return nil, err
	}
	p.Images = urls

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.removeBlobs(ctx, keys)
		return nil, err
	}
	return created, nil
}

// Update loads the existing record and replaces its fields. When new files
// are uploaded it also replaces the image list and deletes the previously
// stored blobs after the record persists. Cleanup failures are logged and
// never fail the request. An update without files leaves images untouched.
func (s *Service) Update(ctx context.Context, id string, input Input, files []File) (*Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.buildRecord(input)
	if err != nil {
		return nil, err
	}
	p.Images = existing.Images

	var newKeys []string
	if len(files) > 0 {
		urls, keys, err := s.processImages(ctx, files)
		if err != nil {
			return nil, err
		}
		p.Images = urls
		newKeys = keys
	}

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		s.removeBlobs(ctx, newKeys)
		return nil, err
	}

	if len(files) > 0 {
		s.removeBlobs(ctx, blobKeys(existing.Images))
	}
	return updated, nil
}

// Delete removes the product's blobs (best-effort) and then its record.
// Blob removal precedes the record delete so the reference list is not lost
// before cleanup; removal failures never block the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeBlobs(ctx, blobKeys(existing.Images))
	return s.repo.Delete(ctx, id)
}

// buildRecord validates the form fields and assembles an unsaved record.
func (s *Service) buildRecord(input Input) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Slug) == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrValidation)
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return nil, fmt.Errorf("%w: categoryId is required", ErrValidation)
	}

	specs, err := ParseSpecifications(input.SpecificationsJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	p := &Product{
		Name:           strings.TrimSpace(input.Name),
		Slug:           strings.TrimSpace(input.Slug),
		CategoryID:     input.CategoryID,
		Images:         []string{},
		Specifications: specs,
		PriceOnRequest: input.PriceOnRequest,
		IsActive:       input.IsActive,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		p.Description = &desc
	}

	// Price is absent whenever the product is priced on request or the
	// field came in empty.
	if price := strings.TrimSpace(input.Price); price != "" && !input.PriceOnRequest {
		p.Price = &price
	}
	return p, nil
}

// processImages transcodes and uploads each file in order, returning the
// public URLs and object keys. The first failure aborts the pipeline;
// already-uploaded blobs are removed best-effort.
func (s *Service) processImages(ctx context.Context, files []File) (urls, keys []string, err error) {
	urls = []string{}
	for _, f := range files {
		res, err := imaging.Process(f.Reader)
		if err != nil {
			s.removeBlobs(ctx, keys)
			return nil, nil, fmt.Errorf("%w: image %q: %v", ErrValidation, f.Name, err)
		}

		key := storage.NewObjectKey(imaging.Ext)
		if err := s.store.Upload(ctx, key, bytes.NewReader(res.Data), int64(len(res.Data)), res.MIME); err != nil {
			s.removeBlobs(ctx, keys)
			return nil, nil, fmt.Errorf("upload image %q: %w", f.Name, err)
		}

		keys = append(keys, key)
		urls = append(urls, s.store.PublicURL(key))
	}
	return urls, keys, nil
}

// removeBlobs deletes the named objects, logging failures. Stale blobs are
// tolerated; a missed delete never fails the surrounding request.
func (s *Service) removeBlobs(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	for key, err := range s.store.Remove(ctx, keys) {
		if err != nil {
			s.log.Warn("stale blob not removed", zap.String("key", key), zap.Error(err))
		}
	}
}

// blobKeys recovers object keys from stored public URLs (final path segment).
func blobKeys(urls []string) []string {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if i := strings.LastIndex(u, "/"); i >= 0 && i+1 < len(u) {
			keys = append(keys, u[i+1:])
		}
	}
	return keys
}
