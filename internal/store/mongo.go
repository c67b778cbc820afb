package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"catalog/internal/models"
)

const (
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
)

type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Category    categoryRef        `bson:"category"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	IsDeleted   bool               `bson:"isDeleted"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// MongoStore keeps the catalog in two collections. Uniqueness among live
// records comes from the partial indexes built by database.EnsureCatalogIndexes.
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
	now     func() time.Time
}

func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoStore{db: db, timeout: timeout, now: time.Now}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

var liveOnly = bson.M{"isDeleted": bson.M{"$ne": true}}

func (s *MongoStore) categories() *mongo.Collection {
	return s.db.Collection(CategoriesCollection)
}

func (s *MongoStore) products() *mongo.Collection {
	return s.db.Collection(ProductsCollection)
}

func (s *MongoStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) CreateCategory(ctx context.Context, c *models.Category) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := s.now()
	doc := categoryDocument{Name: c.Name, Slug: c.Slug, CreatedAt: now, UpdatedAt: now}
	res, err := s.categories().InsertOne(ctx, doc)
	if err != nil {
		return mongoWriteError("insert category", err)
	}

	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	c.State = models.Live
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *MongoStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	id, err := parseObjectID(c.ID)
	if err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := s.now()
	res, err := s.categories().UpdateOne(ctx, liveByID(id), bson.M{"$set": bson.M{
		"name":      c.Name,
		"slug":      c.Slug,
		"updatedAt": now,
	}})
	if err != nil {
		return mongoWriteError("update category", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (s *MongoStore) SoftDeleteCategory(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.categories().UpdateOne(ctx, liveByID(oid), bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": s.now(),
	}})
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindCategory(ctx context.Context, id string) (models.Category, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.Category{}, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var doc categoryDocument
	err = s.categories().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("find category: %w", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) FindCategories(ctx context.Context, ids []string) (map[string]models.Category, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	seen := map[primitive.ObjectID]struct{}{}
	for _, raw := range ids {
		oid, err := parseObjectID(raw)
		if err != nil {
			continue
		}
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}
		oids = append(oids, oid)
	}

	out := make(map[string]models.Category, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.categories().Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	for _, doc := range docs {
		c := doc.model()
		out[c.ID] = c
	}
	return out, nil
}

func (s *MongoStore) ListCategories(ctx context.Context, order CategoryOrder) ([]models.Category, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.categories().Find(ctx, liveOnly, options.Find().SetSort(categorySort(order)))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	out := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.model())
	}
	return out, nil
}

func (s *MongoStore) CountCategories(ctx context.Context) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.categories().CountDocuments(ctx, liveOnly)
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := s.now()
	doc := productDocument{
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    categoryRef(p.CategoryID),
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := s.products().InsertOne(ctx, doc)
	if err != nil {
		return mongoWriteError("insert product", err)
	}

	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	p.State = models.Live
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p *models.Product, expectedImage string) error {
	id, err := parseObjectID(p.ID)
	if err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := s.now()
	filter := liveByID(id)
	filter["image"] = expectedImage
	if expectedImage == "" {
		// legacy documents may lack the field
		filter["image"] = bson.M{"$in": bson.A{"", nil}}
	}
	res, err := s.products().UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"category":    categoryRef(p.CategoryID),
		"description": p.Description,
		"image":       p.Image,
		"updatedAt":   now,
	}})
	if err != nil {
		return mongoWriteError("update product", err)
	}
	if res.MatchedCount == 0 {
		live, err := s.products().CountDocuments(ctx, liveByID(id))
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if live > 0 {
			return ErrStale
		}
		return ErrNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (s *MongoStore) SoftDeleteProduct(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := s.now()
	res, err := s.products().UpdateOne(ctx, liveByID(oid), bson.M{"$set": bson.M{
		"isDeleted": true,
		"deletedAt": now,
		"updatedAt": now,
	}})
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindProduct(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.Product{}, err
	}
	return s.findProduct(ctx, bson.M{"_id": oid})
}

// FindProductBySlug only considers live products; deleted ones may share a
// slug with a live one.
func (s *MongoStore) FindProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	return s.findProduct(ctx, bson.M{"slug": slug, "isDeleted": bson.M{"$ne": true}})
}

func (s *MongoStore) findProduct(ctx context.Context, filter bson.M) (models.Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var doc productDocument
	err := s.products().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.products().Find(ctx, productFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *MongoStore) CountProducts(ctx context.Context) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.products().CountDocuments(ctx, liveOnly)
}

// productFilter builds the live-only query for ListProducts.
func productFilter(f ProductFilter) bson.M {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}

	if category := strings.TrimSpace(f.CategoryID); category != "" {
		if oid, err := primitive.ObjectIDFromHex(category); err == nil {
			filter["category"] = bson.M{"$in": bson.A{oid, category}}
		} else {
			filter["category"] = category
		}
	}

	if search := f.Search; strings.TrimSpace(search) != "" {
		pattern := regexp.QuoteMeta(search)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	return filter
}

func categorySort(order CategoryOrder) bson.D {
	if order == ByNewest {
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
	return bson.D{{Key: "name", Value: 1}}
}

func liveByID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}
}

// parseObjectID maps a malformed id onto ErrNotFound.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func mongoWriteError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (d categoryDocument) model() models.Category {
	return models.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Slug:      d.Slug,
		State:     models.LifecycleFromDeleted(d.IsDeleted),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d productDocument) model() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Slug:        d.Slug,
		CategoryID:  string(d.Category),
		Description: d.Description,
		Image:       d.Image,
		State:       models.LifecycleFromDeleted(d.IsDeleted),
		DeletedAt:   d.DeletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
