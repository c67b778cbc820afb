package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"catalog/internal/pipeline"
	"catalog/internal/store"
	"catalog/internal/validation"
)

/*
GET /admin/categories
- live categories, newest first
*/
func (h *Handler) ListCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/categories"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		categories, err := h.query.AdminCategories(ctx)
		if err != nil {
			log.Printf("[%s] %v", route, err)
			redirectWithFlash(c, "error", "Error loading categories", "/admin")
			return
		}

		render(c, "Categories", gin.H{"categories": categories})
	}
}

func (h *Handler) AddCategoryForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, "Add Category", nil)
	}
}

// POST /admin/categories/add
func (h *Handler) AddCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/categories/add"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		in := bindCategory(c, route)
		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.AddCategory,
			Category:  in,
		}))
	}
}

/*
GET /admin/categories/edit/:id
- deleted categories cannot be edited
*/
func (h *Handler) EditCategoryForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/categories/edit/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		category, err := h.query.EditableCategory(ctx, c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			redirectWithFlash(c, "error", "Category not found", pipeline.CategoriesPath)
			return
		}
		if err != nil {
			log.Printf("[%s] %v", route, err)
			redirectWithFlash(c, "error", "Error loading category", pipeline.CategoriesPath)
			return
		}

		render(c, "Edit Category", gin.H{"category": category})
	}
}

// POST /admin/categories/edit/:id
func (h *Handler) EditCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/categories/edit/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		in := bindCategory(c, route)
		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.EditCategory,
			TargetID:  c.Param("id"),
			Category:  in,
		}))
	}
}

/*
POST /admin/categories/delete/:id
- soft delete, products keep their reference
*/
func (h *Handler) DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/categories/delete/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.DeleteCategory,
			TargetID:  c.Param("id"),
		}))
	}
}

// bindCategory reads the form or JSON body. An unreadable body leaves the
// fields empty so validation reports them.
func bindCategory(c *gin.Context, route string) validation.CategoryInput {
	var in validation.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		log.Printf("[%s] bind failed: %v", route, err)
	}
	return in
}
