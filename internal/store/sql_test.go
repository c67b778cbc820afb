package store

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/models"
)

func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := NewSQLStore(db, WithClock(tickingClock()))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// tickingClock advances one second per call so creation order is strict.
func tickingClock() func() time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

func mustCategory(t *testing.T, s Store, name, slug string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: slug}
	require.NoError(t, s.CreateCategory(context.Background(), &c))
	return c
}

func mustProduct(t *testing.T, s Store, name, slug, categoryID, description string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Slug: slug, CategoryID: categoryID, Description: description, Image: slug + ".png"}
	require.NoError(t, s.CreateProduct(context.Background(), &p))
	return p
}

func TestSQLStoreCreateCategoryAssignsIdentity(t *testing.T) {
	s := newTestSQLStore(t)
	c := mustCategory(t, s, "Tools", "tools")

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.Live, c.State)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
}

func TestSQLStoreRejectsDuplicateLiveNameAndSlug(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	mustCategory(t, s, "Tools", "tools")

	dupName := models.Category{Name: "Tools", Slug: "other"}
	assert.ErrorIs(t, s.CreateCategory(ctx, &dupName), ErrDuplicate)

	dupSlug := models.Category{Name: "tools", Slug: "tools"}
	assert.ErrorIs(t, s.CreateCategory(ctx, &dupSlug), ErrDuplicate)
}

func TestSQLStoreSoftDeleteFreesNameButKeepsRow(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	c := mustCategory(t, s, "Tools", "tools")

	require.NoError(t, s.SoftDeleteCategory(ctx, c.ID))

	got, err := s.FindCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Deleted, got.State)

	list, err := s.ListCategories(ctx, ByName)
	require.NoError(t, err)
	assert.Empty(t, list)

	again := mustCategory(t, s, "Tools", "tools")
	assert.NotEqual(t, c.ID, again.ID)

	assert.ErrorIs(t, s.SoftDeleteCategory(ctx, c.ID), ErrNotFound)
}

func TestSQLStoreUpdateCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	c := mustCategory(t, s, "Tools", "tools")
	mustCategory(t, s, "Garden", "garden")

	c.Name, c.Slug = "Power Tools", "power-tools"
	require.NoError(t, s.UpdateCategory(ctx, &c))
	got, err := s.FindCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "power-tools", got.Slug)

	c.Name, c.Slug = "Garden", "garden"
	assert.ErrorIs(t, s.UpdateCategory(ctx, &c), ErrDuplicate)

	missing := models.Category{ID: "nope", Name: "X", Slug: "x"}
	assert.ErrorIs(t, s.UpdateCategory(ctx, &missing), ErrNotFound)
}

func TestSQLStoreListCategoriesOrders(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	mustCategory(t, s, "Bravo", "bravo")
	mustCategory(t, s, "Alpha", "alpha")
	mustCategory(t, s, "Charlie", "charlie")

	byName, err := s.ListCategories(ctx, ByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, categoryNames(byName))

	newest, err := s.ListCategories(ctx, ByNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, categoryNames(newest))

	n, err := s.CountCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSQLStoreFindCategoriesIncludesDeleted(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	a := mustCategory(t, s, "Alpha", "alpha")
	b := mustCategory(t, s, "Bravo", "bravo")
	require.NoError(t, s.SoftDeleteCategory(ctx, b.ID))

	got, err := s.FindCategories(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[a.ID].IsLive())
	assert.False(t, got[b.ID].IsLive())
}

func TestSQLStoreListProductsFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	tools := mustCategory(t, s, "Tools", "tools")
	garden := mustCategory(t, s, "Garden", "garden")

	mustProduct(t, s, "Widget", "widget", tools.ID, "A small useful widget")
	mustProduct(t, s, "Hammer", "hammer", tools.ID, "Drives nails, 100% steel")
	mustProduct(t, s, "Rake", "rake", garden.ID, "Collects leaves; pairs with any WIDGET")

	all, err := s.ListProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rake", "Hammer", "Widget"}, productNames(all))

	byCategory, err := s.ListProducts(ctx, ProductFilter{CategoryID: tools.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer", "Widget"}, productNames(byCategory))

	search, err := s.ListProducts(ctx, ProductFilter{Search: "widget"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rake", "Widget"}, productNames(search))

	both, err := s.ListProducts(ctx, ProductFilter{CategoryID: tools.ID, Search: "widget"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget"}, productNames(both))

	literal, err := s.ListProducts(ctx, ProductFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer"}, productNames(literal))

	underscore, err := s.ListProducts(ctx, ProductFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, underscore)
}

func TestSQLStoreProductSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	tools := mustCategory(t, s, "Tools", "tools")
	p := mustProduct(t, s, "Widget", "widget", tools.ID, "A small useful widget")

	require.NoError(t, s.SoftDeleteProduct(ctx, p.ID))

	_, err := s.FindProductBySlug(ctx, "widget")
	assert.ErrorIs(t, err, ErrNotFound)

	row, err := s.FindProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Deleted, row.State)
	require.NotNil(t, row.DeletedAt)

	list, err := s.ListProducts(ctx, ProductFilter{Search: "widget"})
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.CountProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	p.Name = "Widget 2"
	assert.ErrorIs(t, s.UpdateProduct(ctx, &p, p.Image), ErrNotFound)
}

func TestSQLStoreUpdateProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	tools := mustCategory(t, s, "Tools", "tools")
	p := mustProduct(t, s, "Widget", "widget", tools.ID, "A small useful widget")
	mustProduct(t, s, "Gadget", "gadget", tools.ID, "A small useful gadget")

	previous := p.Image
	p.Image = "new.png"
	p.Description = "A bigger, better widget"
	require.NoError(t, s.UpdateProduct(ctx, &p, previous))

	got, err := s.FindProductBySlug(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "new.png", got.Image)
	assert.Equal(t, "A bigger, better widget", got.Description)

	p.Name, p.Slug = "Gadget", "gadget"
	assert.ErrorIs(t, s.UpdateProduct(ctx, &p, "new.png"), ErrDuplicate)
}

func TestSQLStoreUpdateProductRequiresExpectedImage(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	tools := mustCategory(t, s, "Tools", "tools")
	p := mustProduct(t, s, "Widget", "widget", tools.ID, "A small useful widget")

	first, second := p, p
	first.Image = "first.png"
	second.Image = "second.png"
	require.NoError(t, s.UpdateProduct(ctx, &first, p.Image))
	assert.ErrorIs(t, s.UpdateProduct(ctx, &second, p.Image), ErrStale)

	got, err := s.FindProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "first.png", got.Image)

	require.NoError(t, s.SoftDeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, s.UpdateProduct(ctx, &second, "first.png"), ErrNotFound)
}

func categoryNames(cs []models.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func productNames(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestSQLStoreSearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	drinks := mustCategory(t, s, "Drinks", "drinks")
	mustProduct(t, s, "CAFÉ NOIR", "cafe-noir", drinks.ID, "Strong roast ÉTÉ blend")
	mustProduct(t, s, "Green Tea", "green-tea", drinks.ID, "Light and grassy leaves")

	byName, err := s.ListProducts(ctx, ProductFilter{Search: "café"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAFÉ NOIR"}, productNames(byName))

	byDescription, err := s.ListProducts(ctx, ProductFilter{Search: "été"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAFÉ NOIR"}, productNames(byDescription))

	scoped, err := s.ListProducts(ctx, ProductFilter{CategoryID: "other", Search: "café"})
	require.NoError(t, err)
	assert.Empty(t, scoped)
}
