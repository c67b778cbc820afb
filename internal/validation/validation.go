// Package validation schema-checks admin mutation payloads before anything
// is written to the store or the uploads root.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CategoryInput is the payload of the add/edit category forms.
type CategoryInput struct {
	Name string `form:"name" validate:"required,min=2,max=100"`
}

// ProductInput is the payload of the add/edit product forms. The image is
// checked separately with [ProductImage].
type ProductInput struct {
	Name        string `form:"name" validate:"required,min=2,max=200"`
	Category    string `form:"category" validate:"required"`
	Description string `form:"description" validate:"required,min=10,max=2000"`
}

// FieldError is a single violated rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Errors is the ordered set of violations, one per field at most, in field
// declaration order.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// First is the message shown to the admin.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

var messages = map[string]map[string]string{
	"CategoryInput.Name": {
		"required": "Category name is required",
		"min":      "Category name must be at least 2 characters",
		"max":      "Category name must not exceed 100 characters",
	},
	"ProductInput.Name": {
		"required": "Product name is required",
		"min":      "Product name must be at least 2 characters",
		"max":      "Product name must not exceed 200 characters",
	},
	"ProductInput.Category": {
		"required": "Category is required",
	},
	"ProductInput.Description": {
		"required": "Description is required",
		"min":      "Description must be at least 10 characters",
		"max":      "Description must not exceed 2000 characters",
	},
}

// Category trims the input in place and checks it. A nil result means valid.
func Category(in *CategoryInput) Errors {
	in.Name = strings.TrimSpace(in.Name)
	return check(in)
}

// Product trims the input in place and checks it. A nil result means valid.
func Product(in *ProductInput) Errors {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	return check(in)
}

// ProductImage enforces that a create request carries an upload. Updates
// without an upload keep the current image.
func ProductImage(creating, uploaded bool) Errors {
	if creating && !uploaded {
		return Errors{{Field: "image", Rule: "required", Message: "Product image is required"}}
	}
	return nil
}

func check(in any) Errors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Errors{{Field: "", Rule: "invalid", Message: err.Error()}}
	}

	out := make(Errors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, FieldError{
			Field:   lowerCamel(fe.Field()),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	key := fe.StructNamespace()
	if byTag, ok := messages[key]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", lowerCamel(fe.Field()))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
