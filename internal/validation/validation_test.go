package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTrimsName(t *testing.T) {
	in := CategoryInput{Name: " Tools "}
	require.Nil(t, Category(&in))
	assert.Equal(t, "Tools", in.Name)
}

func TestCategoryDistinguishesBounds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		rule string
		msg  string
	}{
		{"missing", "", "required", "Category name is required"},
		{"blank", "   ", "required", "Category name is required"},
		{"too short", "T", "min", "Category name must be at least 2 characters"},
		{"too long", strings.Repeat("a", 101), "max", "Category name must not exceed 100 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := CategoryInput{Name: tt.in}
			errs := Category(&in)
			require.Len(t, errs, 1)
			assert.Equal(t, "name", errs[0].Field)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.Equal(t, tt.msg, errs.First())
		})
	}
}

func TestCategoryBoundsAreInclusive(t *testing.T) {
	for _, name := range []string{"ab", strings.Repeat("a", 100)} {
		in := CategoryInput{Name: name}
		assert.Nil(t, Category(&in), "len=%d", len(name))
	}
}

func TestCategoryCountsCharactersNotBytes(t *testing.T) {
	in := CategoryInput{Name: "éé"}
	assert.Nil(t, Category(&in))
}

func TestProductReportsFieldsInOrder(t *testing.T) {
	in := ProductInput{Name: "W", Category: "", Description: "short"}
	errs := Product(&in)
	require.Len(t, errs, 3)
	assert.Equal(t, []string{"name", "category", "description"}, []string{errs[0].Field, errs[1].Field, errs[2].Field})
	assert.Equal(t, "Product name must be at least 2 characters", errs.First())
	assert.Equal(t, "Category is required", errs[1].Message)
	assert.Equal(t, "Description must be at least 10 characters", errs[2].Message)
}

func TestProductDescriptionBounds(t *testing.T) {
	base := ProductInput{Name: "Widget", Category: "abc"}

	nine := base
	nine.Description = "123456789"
	errs := Product(&nine)
	require.Len(t, errs, 1)
	assert.Equal(t, "min", errs[0].Rule)

	ten := base
	ten.Description = "1234567890"
	assert.Nil(t, Product(&ten))

	long := base
	long.Description = strings.Repeat("x", 2001)
	errs = Product(&long)
	require.Len(t, errs, 1)
	assert.Equal(t, "Description must not exceed 2000 characters", errs.First())
}

func TestProductTrimsBeforeMeasuring(t *testing.T) {
	in := ProductInput{Name: "  Widget  ", Category: " abc ", Description: "   123456789   "}
	errs := Product(&in)
	require.Len(t, errs, 1)
	assert.Equal(t, "description", errs[0].Field)
	assert.Equal(t, "Widget", in.Name)
	assert.Equal(t, "abc", in.Category)
}

func TestProductImage(t *testing.T) {
	errs := ProductImage(true, false)
	require.Len(t, errs, 1)
	assert.Equal(t, "Product image is required", errs.First())

	assert.Nil(t, ProductImage(true, true))
	assert.Nil(t, ProductImage(false, false))
}

func TestErrorsError(t *testing.T) {
	errs := Errors{{Message: "a"}, {Message: "b"}}
	assert.Equal(t, "a; b", errs.Error())
	assert.Equal(t, "", Errors(nil).First())
}
