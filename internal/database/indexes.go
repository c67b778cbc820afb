package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// liveRecords restricts unique indexes to non-deleted documents, so a name
// or slug is freed once its record is soft-deleted.
var liveRecords = bson.M{"isDeleted": false}

func uniqueLive(field, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
		Options: options.Index().
			SetName(name).
			SetUnique(true).
			SetPartialFilterExpression(liveRecords),
	}
}

// CategoryIndexes is the index set of the categories collection.
func CategoryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniqueLive("name", "name_unique_live"),
		uniqueLive("slug", "slug_unique_live"),
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_index"),
		},
	}
}

// ProductIndexes is the index set of the products collection.
func ProductIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniqueLive("name", "name_unique_live"),
		uniqueLive("slug", "slug_unique_live"),
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_createdAt_index"),
		},
	}
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "categories", CategoryIndexes())
}

func EnsureProductIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "products", ProductIndexes())
}

// EnsureCatalogIndexes must run before the store accepts writes; without the
// unique indexes duplicate names are not rejected.
func EnsureCatalogIndexes(db *mongo.Database) error {
	if err := EnsureCategoryIndexes(db); err != nil {
		return err
	}
	return EnsureProductIndexes(db)
}

func ensureIndexes(db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("EnsureIndexes: creating %d indexes on %s", len(models), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Printf("EnsureIndexes: %s index error: %v", collection, err)
		return err
	}
	log.Printf("EnsureIndexes: %s indexes ready: %v", collection, names)
	return nil
}
