package pipeline

// Admin pages the outcomes redirect back to.
const (
	CategoriesPath  = "/admin/categories"
	AddCategoryPath = "/admin/categories/add"
	ProductsPath    = "/admin/products"
	AddProductPath  = "/admin/products/add"
)

func EditCategoryPath(id string) string {
	return "/admin/categories/edit/" + id
}

func EditProductPath(id string) string {
	return "/admin/products/edit/" + id
}
