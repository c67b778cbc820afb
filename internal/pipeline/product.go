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
	productConflict = "Product with this name already exists"
	productNotFound = "Product not found"
	missingCategory = "Selected category does not exist"
	productChanged  = "Product was changed by another request, please try again"
)

// AddProduct creates a product around an image the transport already
// stored. Every failure discards that image.
func (p *Pipeline) AddProduct(ctx context.Context, in validation.ProductInput, upload string) Outcome {
	fail := func(kind Kind, msg string) Outcome {
		p.assets.Discard(ctx, upload)
		return p.finish(ctx, AddProduct, failed(kind, msg, AddProductPath))
	}

	if errs := validation.Product(&in); errs != nil {
		return fail(Validation, errs.First())
	}
	if errs := validation.ProductImage(true, upload != ""); errs != nil {
		return fail(Validation, errs.First())
	}
	if kind, msg, ok := p.checkCategory(ctx, AddProduct, in.Category); !ok {
		return fail(kind, msg)
	}

	product := models.Product{
		Name:        in.Name,
		Slug:        slug.Slugify(in.Name),
		CategoryID:  in.Category,
		Description: in.Description,
		Image:       upload,
	}
	if err := p.store.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fail(Conflict, productConflict)
		}
		log.Printf("[PIPELINE] %s: %v", AddProduct, err)
		return fail(Internal, errorMessage(AddProduct))
	}

	log.Printf("[PIPELINE] %s: created %s (%s) with image %s", AddProduct, product.ID, product.Slug, product.Image)
	return p.finish(ctx, AddProduct, succeeded(product.ID, "Product added successfully", ProductsPath))
}

// EditProduct updates a live product. With an upload, the previous image is
// removed only after the new state is saved; without one the image is kept.
func (p *Pipeline) EditProduct(ctx context.Context, id string, in validation.ProductInput, upload string) Outcome {
	form := EditProductPath(id)
	fail := func(kind Kind, msg, redirect string) Outcome {
		p.assets.Discard(ctx, upload)
		return p.finish(ctx, EditProduct, failed(kind, msg, redirect))
	}

	if errs := validation.Product(&in); errs != nil {
		return fail(Validation, errs.First(), form)
	}

	product, err := p.store.FindProduct(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound), err == nil && !product.IsLive():
		return fail(NotFound, productNotFound, ProductsPath)
	case err != nil:
		log.Printf("[PIPELINE] %s %s: lookup failed: %v", EditProduct, id, err)
		return fail(Internal, errorMessage(EditProduct), form)
	}

	if kind, msg, ok := p.checkCategory(ctx, EditProduct, in.Category); !ok {
		return fail(kind, msg, form)
	}

	previous := product.Image
	product.Name = in.Name
	product.Slug = slug.Slugify(in.Name)
	product.CategoryID = in.Category
	product.Description = in.Description
	if upload != "" {
		product.Image = upload
	}

	if err := p.store.UpdateProduct(ctx, &product, previous); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return fail(Conflict, productConflict, form)
		case errors.Is(err, store.ErrStale):
			return fail(Conflict, productChanged, form)
		case errors.Is(err, store.ErrNotFound):
			return fail(NotFound, productNotFound, ProductsPath)
		}
		log.Printf("[PIPELINE] %s %s: %v", EditProduct, id, err)
		return fail(Internal, errorMessage(EditProduct), form)
	}

	if upload != "" {
		p.assets.ReplaceCommitted(ctx, previous, upload)
	}
	return p.finish(ctx, EditProduct, succeeded(product.ID, "Product updated successfully", ProductsPath))
}

// DeleteProduct soft-deletes a live product and then releases its image.
func (p *Pipeline) DeleteProduct(ctx context.Context, id string) Outcome {
	product, err := p.store.FindProduct(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound), err == nil && !product.IsLive():
		return p.finish(ctx, DeleteProduct, failed(NotFound, productNotFound, ProductsPath))
	case err != nil:
		log.Printf("[PIPELINE] %s %s: lookup failed: %v", DeleteProduct, id, err)
		return p.finish(ctx, DeleteProduct, failed(Internal, errorMessage(DeleteProduct), ProductsPath))
	}

	if err := p.store.SoftDeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return p.finish(ctx, DeleteProduct, failed(NotFound, productNotFound, ProductsPath))
		}
		log.Printf("[PIPELINE] %s %s: %v", DeleteProduct, id, err)
		return p.finish(ctx, DeleteProduct, failed(Internal, errorMessage(DeleteProduct), ProductsPath))
	}

	p.assets.Release(ctx, product.Image)
	log.Printf("[PIPELINE] %s: soft-deleted %s", DeleteProduct, id)
	return p.finish(ctx, DeleteProduct, succeeded(id, "Product deleted successfully", ProductsPath))
}

// checkCategory requires the referenced category to be live at save time.
func (p *Pipeline) checkCategory(ctx context.Context, op Operation, id string) (Kind, string, bool) {
	c, err := p.store.FindCategory(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Validation, missingCategory, false
	case err != nil:
		log.Printf("[PIPELINE] %s: category %s lookup failed: %v", op, id, err)
		return Internal, errorMessage(op), false
	case !c.IsLive():
		return Validation, missingCategory, false
	}
	return Success, "", true
}
