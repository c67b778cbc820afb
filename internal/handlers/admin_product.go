package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"catalog/internal/pipeline"
	"catalog/internal/query"
)

/*
GET /admin/products
- live products, newest first, joined to their category
*/
func (h *Handler) ListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		products, err := h.query.ListProducts(ctx, query.Filter{})
		if err != nil {
			log.Printf("[%s] %v", route, err)
			redirectWithFlash(c, "error", "Error loading products", "/admin")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		render(c, "Products", gin.H{"products": products})
	}
}

func (h *Handler) AddProductForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products/add"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		form, err := h.query.ProductForm(ctx, "")
		if err != nil {
			log.Printf("[%s] %v", route, err)
			redirectWithFlash(c, "error", "Error loading form", pipeline.ProductsPath)
			return
		}

		render(c, "Add Product", gin.H{"categories": form.Categories})
	}
}

/*
POST /admin/products/add
- multipart, "image" required
*/
func (h *Handler) AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products/add"
		defer handlePanic(c, route)

		form, err := h.parseProductForm(c)
		if err != nil {
			log.Printf("[%s] upload rejected: %v", route, err)
			redirectWithOutcome(c, h.pipeline.UploadRejected(c.Request.Context(), pipeline.AddProduct, "", err))
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.AddProduct,
			Product:   form.Input,
			Upload:    form.Upload,
		}))
	}
}

func (h *Handler) EditProductForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products/edit/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		form, err := h.query.ProductForm(ctx, c.Param("id"))
		if errors.Is(err, query.ErrNotFound) {
			redirectWithFlash(c, "error", "Product not found", pipeline.ProductsPath)
			return
		}
		if err != nil {
			log.Printf("[%s] %v", route, err)
			redirectWithFlash(c, "error", "Error loading product", pipeline.ProductsPath)
			return
		}

		render(c, "Edit Product", gin.H{"product": form.Product, "categories": form.Categories})
	}
}

/*
POST /admin/products/edit/:id
- multipart, "image" optional
- the old image is removed only once the update is saved
*/
func (h *Handler) EditProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products/edit/:id"
		defer handlePanic(c, route)

		id := c.Param("id")
		form, err := h.parseProductForm(c)
		if err != nil {
			log.Printf("[%s] upload rejected: %v", route, err)
			redirectWithOutcome(c, h.pipeline.UploadRejected(c.Request.Context(), pipeline.EditProduct, id, err))
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.EditProduct,
			TargetID:  id,
			Product:   form.Input,
			Upload:    form.Upload,
		}))
	}
}

// POST /admin/products/delete/:id
func (h *Handler) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products/delete/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		redirectWithOutcome(c, h.pipeline.Run(ctx, pipeline.Mutation{
			Operation: pipeline.DeleteProduct,
			TargetID:  c.Param("id"),
		}))
	}
}
