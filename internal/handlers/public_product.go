package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog/internal/query"
)

/*
GET /?category=&search=
- live products, newest first
- category and search combine
*/
func (h *Handler) Homepage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /"
		defer handlePanic(c, route)

		filter := query.Filter{
			Category: strings.TrimSpace(c.Query("category")),
			Search:   strings.TrimSpace(c.Query("search")),
		}
		log.Printf("[%s] hit category=%s search=%s", route, filter.Category, filter.Search)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		page, err := h.query.Homepage(ctx, filter)
		if err != nil {
			log.Printf("[%s] %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Error loading products")
			return
		}

		render(c, "Products", gin.H{
			"products":         page.Products,
			"categories":       page.Categories,
			"selectedCategory": page.SelectedCategory,
			"searchQuery":      page.SearchQuery,
		})
	}
}

// GET /product/:slug
func (h *Handler) ProductDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/:slug"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		product, err := h.query.FindProductBySlug(ctx, c.Param("slug"))
		h.renderProduct(c, route, product, err)
	}
}

// GET /product/id/:id
func (h *Handler) ProductDetailByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/id/:id"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		product, err := h.query.FindProductByID(ctx, c.Param("id"))
		h.renderProduct(c, route, product, err)
	}
}

func (h *Handler) renderProduct(c *gin.Context, route string, product query.ProductView, err error) {
	if errors.Is(err, query.ErrNotFound) {
		redirectWithFlash(c, "error", "Product not found", "/")
		return
	}
	if err != nil {
		log.Printf("[%s] %v", route, err)
		redirectWithFlash(c, "error", "Error loading product", "/")
		return
	}
	render(c, product.Name, gin.H{"product": product})
}
