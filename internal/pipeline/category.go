package pipeline

import (
	"context"
	"errors"
	"log"

	"catalog/internal/models"
	"catalog/internal/slug"
	"catalog/internal/store"
	"catalog/internal/validation"
)

const (
	categoryConflict = "Category with this name already exists"
	categoryNotFound = "Category not found"
)

func (p *Pipeline) AddCategory(ctx context.Context, in validation.CategoryInput) Outcome {
	if errs := validation.Category(&in); errs != nil {
		return p.finish(ctx, AddCategory, failed(Validation, errs.First(), AddCategoryPath))
	}

	c := models.Category{Name: in.Name, Slug: slug.Slugify(in.Name)}
	if err := p.store.CreateCategory(ctx, &c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return p.finish(ctx, AddCategory, failed(Conflict, categoryConflict, AddCategoryPath))
		}
		log.Printf("[PIPELINE] %s: %v", AddCategory, err)
		return p.finish(ctx, AddCategory, failed(Internal, errorMessage(AddCategory), AddCategoryPath))
	}

	log.Printf("[PIPELINE] %s: created %s (%s)", AddCategory, c.ID, c.Slug)
	return p.finish(ctx, AddCategory, succeeded(c.ID, "Category added successfully", CategoriesPath))
}

func (p *Pipeline) EditCategory(ctx context.Context, id string, in validation.CategoryInput) Outcome {
	form := EditCategoryPath(id)
	if errs := validation.Category(&in); errs != nil {
		return p.finish(ctx, EditCategory, failed(Validation, errs.First(), form))
	}

	c, out, ok := p.liveCategory(ctx, EditCategory, id, form)
	if !ok {
		return out
	}

	c.Name = in.Name
	c.Slug = slug.Slugify(in.Name)
	if err := p.store.UpdateCategory(ctx, &c); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return p.finish(ctx, EditCategory, failed(Conflict, categoryConflict, form))
		case errors.Is(err, store.ErrNotFound):
			return p.finish(ctx, EditCategory, failed(NotFound, categoryNotFound, CategoriesPath))
		}
		log.Printf("[PIPELINE] %s %s: %v", EditCategory, id, err)
		return p.finish(ctx, EditCategory, failed(Internal, errorMessage(EditCategory), form))
	}

	return p.finish(ctx, EditCategory, succeeded(c.ID, "Category updated successfully", CategoriesPath))
}

// DeleteCategory leaves the category's products pointing at it.
func (p *Pipeline) DeleteCategory(ctx context.Context, id string) Outcome {
	if _, out, ok := p.liveCategory(ctx, DeleteCategory, id, CategoriesPath); !ok {
		return out
	}

	if err := p.store.SoftDeleteCategory(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return p.finish(ctx, DeleteCategory, failed(NotFound, categoryNotFound, CategoriesPath))
		}
		log.Printf("[PIPELINE] %s %s: %v", DeleteCategory, id, err)
		return p.finish(ctx, DeleteCategory, failed(Internal, errorMessage(DeleteCategory), CategoriesPath))
	}

	log.Printf("[PIPELINE] %s: soft-deleted %s", DeleteCategory, id)
	return p.finish(ctx, DeleteCategory, succeeded(id, "Category deleted successfully", CategoriesPath))
}

// liveCategory resolves the target of an edit or delete. When ok is false
// the returned Outcome is final.
func (p *Pipeline) liveCategory(ctx context.Context, op Operation, id, errRedirect string) (models.Category, Outcome, bool) {
	c, err := p.store.FindCategory(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, p.finish(ctx, op, failed(NotFound, categoryNotFound, CategoriesPath)), false
	case err != nil:
		log.Printf("[PIPELINE] %s %s: lookup failed: %v", op, id, err)
		return c, p.finish(ctx, op, failed(Internal, errorMessage(op), errRedirect)), false
	case !c.IsLive():
		return c, p.finish(ctx, op, failed(NotFound, categoryNotFound, CategoriesPath)), false
	}
	return c, Outcome{}, true
}
