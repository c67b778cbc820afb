// Package query is the read side of the catalog. It only returns live
// records and never touches stored images.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"
	"catalog/internal/store"
)

// ErrNotFound is returned when a lookup key matches no live product.
var ErrNotFound = errors.New("product not found")

// Uncategorized is shown for products whose category is missing or deleted.
const Uncategorized = "Uncategorized"

// ProductView is a product joined to the name of its category.
type ProductView struct {
	models.Product
	CategoryName string `json:"categoryName"`
	// CategoryLive is false when the product points at a deleted or
	// missing category.
	CategoryLive bool `json:"categoryLive"`
}

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// Filter is the storefront filter. Both fields are optional.
type Filter struct {
	Category string
	Search   string
}

// ListProducts returns live products, newest first.
func (s *Service) ListProducts(ctx context.Context, f Filter) ([]ProductView, error) {
	products, err := s.store.ListProducts(ctx, store.ProductFilter{
		CategoryID: strings.TrimSpace(f.Category),
		Search:     strings.TrimSpace(f.Search),
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.join(ctx, products)
}

// ListCategories returns live categories by name, for the storefront and
// the product forms.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx, store.ByName)
}

// AdminCategories returns live categories, newest first.
func (s *Service) AdminCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx, store.ByNewest)
}

// FindProductBySlugOrID tries key as a slug first, then as an id.
func (s *Service) FindProductBySlugOrID(ctx context.Context, key string) (ProductView, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return ProductView{}, ErrNotFound
	}

	p, err := s.store.FindProductBySlug(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return s.FindProductByID(ctx, key)
	}
	if err != nil {
		return ProductView{}, err
	}
	return s.view(ctx, p)
}

// FindProductBySlug looks up a live product by slug only.
func (s *Service) FindProductBySlug(ctx context.Context, slug string) (ProductView, error) {
	p, err := s.store.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if errors.Is(err, store.ErrNotFound) {
		return ProductView{}, ErrNotFound
	}
	if err != nil {
		return ProductView{}, err
	}
	return s.view(ctx, p)
}

// FindProductByID looks up a live product by id only.
func (s *Service) FindProductByID(ctx context.Context, id string) (ProductView, error) {
	p, err := s.store.FindProduct(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) || (err == nil && !p.IsLive()) {
		return ProductView{}, ErrNotFound
	}
	if err != nil {
		return ProductView{}, err
	}
	return s.view(ctx, p)
}

// EditableCategory returns a live category for the edit form.
func (s *Service) EditableCategory(ctx context.Context, id string) (models.Category, error) {
	c, err := s.store.FindCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !c.IsLive()) {
		return models.Category{}, store.ErrNotFound
	}
	return c, err
}

func (s *Service) view(ctx context.Context, p models.Product) (ProductView, error) {
	views, err := s.join(ctx, []models.Product{p})
	if err != nil {
		return ProductView{}, err
	}
	return views[0], nil
}

// join resolves every category in one lookup.
func (s *Service) join(ctx context.Context, products []models.Product) ([]ProductView, error) {
	ids := make([]string, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.CategoryID]; ok || p.CategoryID == "" {
			continue
		}
		seen[p.CategoryID] = struct{}{}
		ids = append(ids, p.CategoryID)
	}

	categories := map[string]models.Category{}
	if len(ids) > 0 {
		var err error
		categories, err = s.store.FindCategories(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("join categories: %w", err)
		}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		v := ProductView{Product: p, CategoryName: Uncategorized}
		if c, ok := categories[p.CategoryID]; ok && c.IsLive() {
			v.CategoryName = c.Name
			v.CategoryLive = true
		}
		views = append(views, v)
	}
	return views, nil
}
