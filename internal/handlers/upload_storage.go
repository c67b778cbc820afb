package handlers

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"catalog/internal/assets"
)

// GET /uploads/:name streams a stored image from whichever backend holds it.
func (h *Handler) ServeUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /uploads/:name"
		defer handlePanic(c, route)

		name := c.Param("name")
		ctx, cancel := h.requestContext(c)
		defer cancel()

		rc, err := h.assets.Storage().Open(ctx, name)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, assets.ErrInvalidName) {
			respondWithError(c, http.StatusNotFound, route, "file not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "storage error")
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Cache-Control", "public, max-age=86400")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			c.Error(err)
		}
	}
}
