package query

import (
	"context"
	"fmt"

	"catalog/internal/models"
)

// Dashboard holds the admin landing page counts.
type Dashboard struct {
	TotalProducts   int64 `json:"totalProducts"`
	TotalCategories int64 `json:"totalCategories"`
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	products, err := s.store.CountProducts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count products: %w", err)
	}
	categories, err := s.store.CountCategories(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count categories: %w", err)
	}
	return Dashboard{TotalProducts: products, TotalCategories: categories}, nil
}

// Homepage is the storefront listing with the active filter echoed back.
type Homepage struct {
	Products         []ProductView     `json:"products"`
	Categories       []models.Category `json:"categories"`
	SelectedCategory string            `json:"selectedCategory"`
	SearchQuery      string            `json:"searchQuery"`
}

func (s *Service) Homepage(ctx context.Context, f Filter) (Homepage, error) {
	products, err := s.ListProducts(ctx, f)
	if err != nil {
		return Homepage{}, err
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return Homepage{}, fmt.Errorf("list categories: %w", err)
	}
	return Homepage{
		Products:         products,
		Categories:       categories,
		SelectedCategory: f.Category,
		SearchQuery:      f.Search,
	}, nil
}

// ProductForm is what the add and edit product forms need.
type ProductForm struct {
	Product    *ProductView      `json:"product,omitempty"`
	Categories []models.Category `json:"categories"`
}

// ProductForm loads the category choices, plus the live product when id is
// not empty.
func (s *Service) ProductForm(ctx context.Context, id string) (ProductForm, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return ProductForm{}, fmt.Errorf("list categories: %w", err)
	}
	form := ProductForm{Categories: categories}
	if id == "" {
		return form, nil
	}
	p, err := s.FindProductByID(ctx, id)
	if err != nil {
		return ProductForm{}, err
	}
	form.Product = &p
	return form, nil
}
