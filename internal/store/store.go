// Package store persists categories and products. Every list read returns
// live records only; lookups by id return a record in any lifecycle state so
// soft-deleted rows stay reachable for audit.
package store

import (
	"context"
	"errors"

	"catalog/internal/models"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record, or is
	// malformed for the backend.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a save violates the unique name or slug
	// of live records.
	ErrDuplicate = errors.New("duplicate key")
	// ErrStale is returned when a live record changed between the read the
	// caller based its update on and the write.
	ErrStale = errors.New("record changed concurrently")
)

// CategoryOrder selects one of the two category listings.
type CategoryOrder int

const (
	// ByName is the storefront and form ordering.
	ByName CategoryOrder = iota
	// ByNewest is the admin list ordering.
	ByNewest
)

func (o CategoryOrder) String() string {
	if o == ByNewest {
		return "newest"
	}
	return "name"
}

// ProductFilter narrows ListProducts. Empty fields do not filter. Both
// fields combine with AND.
type ProductFilter struct {
	CategoryID string
	// Search matches a case-insensitive substring of name or description.
	Search string
}

// Store is implemented by MongoStore, SQLStore and CachedStore.
type Store interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	SoftDeleteCategory(ctx context.Context, id string) error
	FindCategory(ctx context.Context, id string) (models.Category, error)
	FindCategories(ctx context.Context, ids []string) (map[string]models.Category, error)
	ListCategories(ctx context.Context, order CategoryOrder) ([]models.Category, error)
	CountCategories(ctx context.Context) (int64, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	// UpdateProduct saves p only while its stored image is still
	// expectedImage, so two racing edits cannot both replace one image.
	UpdateProduct(ctx context.Context, p *models.Product, expectedImage string) error
	SoftDeleteProduct(ctx context.Context, id string) error
	FindProduct(ctx context.Context, id string) (models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}
