package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog/internal/validation"
)

const maxMultipartMemory = 32 << 20

// productForm is a parsed add/edit product request.
type productForm struct {
	Input validation.ProductInput
	// Upload is the stored name of the accepted image, empty when the
	// request carried none.
	Upload string
}

// parseProductForm reads the product fields and, when present, stores the
// "image" file. Plain urlencoded bodies are accepted without an image.
func (h *Handler) parseProductForm(c *gin.Context) (productForm, error) {
	err := c.Request.ParseMultipartForm(maxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err != nil {
		log.Println("PARSE ERROR:", err)
		return productForm{}, err
	}

	form := productForm{
		Input: validation.ProductInput{
			Name:        strings.TrimSpace(c.PostForm("name")),
			Category:    strings.TrimSpace(c.PostForm("category")),
			Description: strings.TrimSpace(c.PostForm("description")),
		},
	}

	file, err := c.FormFile("image")
	if err != nil {
		// no file part is the normal "keep current image" edit
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) ||
			strings.Contains(err.Error(), "no such file") {
			return form, nil
		}
		return productForm{}, err
	}
	if file.Filename == "" || file.Size == 0 {
		return form, nil
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	form.Upload, err = h.assets.Attach(ctx, file)
	if err != nil {
		return productForm{}, err
	}
	return form, nil
}
