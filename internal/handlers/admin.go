package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /admin
func (h *Handler) Dashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin"
		defer handlePanic(c, route)

		ctx, cancel := h.requestContext(c)
		defer cancel()

		d, err := h.query.Dashboard(ctx)
		if err != nil {
			log.Printf("[%s] %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Error loading dashboard")
			return
		}

		render(c, "Admin Dashboard", gin.H{
			"totalProducts":   d.TotalProducts,
			"totalCategories": d.TotalCategories,
		})
	}
}
