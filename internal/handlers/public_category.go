package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /categories lists live categories by name for storefront menus.
func (h *Handler) PublicCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		if err := ensureDBConnection(c.Request.Context(), h.db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		categories, err := h.query.ListCategories(ctx)
		if err != nil {
			log.Printf("[%s] %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}
