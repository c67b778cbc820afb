// Package handlers is the HTTP surface of the catalog: the admin pages that
// drive the mutation pipeline and the read-only storefront.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"catalog/internal/assets"
	"catalog/internal/pipeline"
	"catalog/internal/query"
)

const defaultTimeout = 5 * time.Second

// Handler carries the collaborators shared by every route.
type Handler struct {
	pipeline *pipeline.Pipeline
	query    *query.Service
	assets   *assets.Manager
	sessions sessions.Store
	db       Pinger
	timeout  time.Duration
}

type Deps struct {
	Pipeline *pipeline.Pipeline
	Query    *query.Service
	Assets   *assets.Manager
	Sessions sessions.Store
	// DB is optional; when set, /healthz pings it.
	DB      Pinger
	Timeout time.Duration
}

func New(d Deps) *Handler {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{
		pipeline: d.Pipeline,
		query:    d.Query,
		assets:   d.Assets,
		sessions: d.Sessions,
		db:       d.DB,
		timeout:  timeout,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(Flash(h.sessions))

	r.GET("/healthz", h.Health())
	r.GET("/uploads/:name", h.ServeUpload())

	r.GET("/", h.Homepage())
	r.GET("/categories", h.PublicCategories())
	r.GET("/product/:slug", h.ProductDetail())
	r.GET("/product/id/:id", h.ProductDetailByID())

	admin := r.Group("/admin")
	{
		admin.GET("", h.Dashboard())

		admin.GET("/categories", h.ListCategories())
		admin.GET("/categories/add", h.AddCategoryForm())
		admin.POST("/categories/add", h.AddCategory())
		admin.GET("/categories/edit/:id", h.EditCategoryForm())
		admin.POST("/categories/edit/:id", h.EditCategory())
		admin.POST("/categories/delete/:id", h.DeleteCategory())

		admin.GET("/products", h.ListProducts())
		admin.GET("/products/add", h.AddProductForm())
		admin.POST("/products/add", h.AddProduct())
		admin.GET("/products/edit/:id", h.EditProductForm())
		admin.POST("/products/edit/:id", h.EditProduct())
		admin.POST("/products/delete/:id", h.DeleteProduct())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"title": "Page Not Found", "error": "page not found"})
	})
}

// NewRouter is a gin engine with the default logger and recovery
// middleware and every catalog route.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()
	h.Register(r)
	return r
}

func (h *Handler) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"
		if err := ensureDBConnection(c.Request.Context(), h.db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
