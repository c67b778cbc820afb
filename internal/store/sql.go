package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// categoryRow and productRow carry partial unique indexes, so a soft-deleted
// row frees its name and slug for reuse.
type categoryRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_categories_name_live,where:is_deleted = false"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex:idx_categories_slug_live,where:is_deleted = false"`
	IsDeleted bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (categoryRow) TableName() string { return "categories" }

type productRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:200;not null;uniqueIndex:idx_products_name_live,where:is_deleted = false"`
	Slug        string `gorm:"size:200;not null;uniqueIndex:idx_products_slug_live,where:is_deleted = false"`
	CategoryID  string `gorm:"size:36;not null;index"`
	Description string `gorm:"type:text;not null"`
	Image       string `gorm:"not null"`
	IsDeleted   bool   `gorm:"not null;default:false"`
	DeletedAt   *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

// SQLStore keeps the catalog in a relational database through GORM. The
// DeletedAt column is a plain timestamp, not gorm.DeletedAt, so GORM's own
// soft-delete scoping stays out of the way.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

type SQLOption func(*SQLStore)

// WithClock replaces time.Now for the timestamps the store assigns.
func WithClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) { s.now = now }
}

func NewSQLStore(db *gorm.DB, opts ...SQLOption) *SQLStore {
	s := &SQLStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the two tables and their indexes.
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&categoryRow{}, &productRow{})
}

func (s *SQLStore) CreateCategory(ctx context.Context, c *models.Category) error {
	now := s.now()
	row := categoryRow{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sqlWriteError("insert category", err)
	}
	*c = row.model()
	return nil
}

func (s *SQLStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&categoryRow{}).
		Where("id = ? AND is_deleted = ?", c.ID, false).
		Updates(map[string]any{"name": c.Name, "slug": c.Slug, "updated_at": now})
	if res.Error != nil {
		return sqlWriteError("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *SQLStore) SoftDeleteCategory(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&categoryRow{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": s.now()})
	if res.Error != nil {
		return fmt.Errorf("soft delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) FindCategory(ctx context.Context, id string) (models.Category, error) {
	var row categoryRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("find category: %w", err)
	}
	return row.model(), nil
}

func (s *SQLStore) FindCategories(ctx context.Context, ids []string) (map[string]models.Category, error) {
	out := make(map[string]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []categoryRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.model()
	}
	return out, nil
}

func (s *SQLStore) ListCategories(ctx context.Context, order CategoryOrder) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false)
	if order == ByNewest {
		q = q.Order("created_at DESC").Order("id DESC")
	} else {
		q = q.Order("name ASC")
	}

	var rows []categoryRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (s *SQLStore) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&categoryRow{}).Where("is_deleted = ?", false).Count(&n).Error
	return n, err
}

func (s *SQLStore) CreateProduct(ctx context.Context, p *models.Product) error {
	now := s.now()
	row := productRow{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Slug:        p.Slug,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sqlWriteError("insert product", err)
	}
	*p = row.model()
	return nil
}

func (s *SQLStore) UpdateProduct(ctx context.Context, p *models.Product, expectedImage string) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&productRow{}).
		Where("id = ? AND is_deleted = ? AND image = ?", p.ID, false, expectedImage).
		Updates(map[string]any{
			"name":        p.Name,
			"slug":        p.Slug,
			"category_id": p.CategoryID,
			"description": p.Description,
			"image":       p.Image,
			"updated_at":  now,
		})
	if res.Error != nil {
		return sqlWriteError("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missedProductUpdate(ctx, p.ID)
	}
	p.UpdatedAt = now
	return nil
}

// missedProductUpdate tells a vanished or deleted product from one whose
// image moved under the caller.
func (s *SQLStore) missedProductUpdate(ctx context.Context, id string) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&productRow{}).
		Where("id = ? AND is_deleted = ?", id, false).Count(&n).Error
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n > 0 {
		return ErrStale
	}
	return ErrNotFound
}

func (s *SQLStore) SoftDeleteProduct(ctx context.Context, id string) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&productRow{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return fmt.Errorf("soft delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) FindProduct(ctx context.Context, id string) (models.Product, error) {
	return s.findProduct(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *SQLStore) FindProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	return s.findProduct(s.db.WithContext(ctx).Where("slug = ? AND is_deleted = ?", slug, false))
}

func (s *SQLStore) findProduct(q *gorm.DB) (models.Product, error) {
	var row productRow
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return row.model(), nil
}

func (s *SQLStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false)

	if category := strings.TrimSpace(filter.CategoryID); category != "" {
		q = q.Where("category_id = ?", category)
	}
	search := strings.ToLower(filter.Search)
	// SQLite's LOWER only folds ASCII, so there the match runs over the rows.
	foldInGo := strings.TrimSpace(search) != "" && s.db.Dialector.Name() == "sqlite"
	if strings.TrimSpace(search) != "" && !foldInGo {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var rows []productRow
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if foldInGo && !containsFold(row.Name, search) && !containsFold(row.Description, search) {
			continue
		}
		out = append(out, row.model())
	}
	return out, nil
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}

func (s *SQLStore) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&productRow{}).Where("is_deleted = ?", false).Count(&n).Error
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// sqlWriteError needs TranslateError enabled on the gorm.Config; the string
// check covers drivers that do not translate.
func sqlWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func (r categoryRow) model() models.Category {
	return models.Category{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		State:     models.LifecycleFromDeleted(r.IsDeleted),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r productRow) model() models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Image:       r.Image,
		State:       models.LifecycleFromDeleted(r.IsDeleted),
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
