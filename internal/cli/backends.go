package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog/internal/assets"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/store"
)

// backend is the opened persistence layer and how to release it.
type backend struct {
	store store.Store
	db    handlers.Pinger
	close func()
}

// openStore connects to the configured database and makes sure the unique
// indexes exist before any write is accepted.
func openStore(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.DatabaseDriver {
	case "mongo":
		client, err := database.ConnectMongo(cfg.MongoURI, cfg.DBTimeout)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureCatalogIndexes(db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("catalog indexes: %w", err)
		}
		ms := store.NewMongoStore(db, cfg.DBTimeout)
		return &backend{store: ms, db: ms, close: func() { _ = client.Disconnect(context.Background()) }}, nil

	case "sql":
		gdb, err := database.OpenSQL(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		ss := store.NewSQLStore(gdb)
		if err := ss.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Println("SQL database ready:", gdb.Dialector.Name())
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &backend{store: ss, db: ss, close: closeFn}, nil
	}
	return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want mongo or sql)", cfg.DatabaseDriver)
}

// withCategoryCache wraps b.store in the Redis category cache when
// REDIS_URL is set. An unreachable Redis only disables the cache.
func withCategoryCache(ctx context.Context, b *backend, cfg config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ REDIS_URL ignored: %v", err)
		return
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️ redis unavailable, category cache disabled: %v", err)
		_ = client.Close()
		return
	}

	b.store = store.NewCachedStore(b.store, store.RedisKV{Client: client}, cfg.CategoryCacheTTL)
	previous := b.close
	b.close = func() {
		_ = client.Close()
		previous()
	}
	log.Println("Redis category cache enabled")
}

func openStorage(ctx context.Context, cfg config.Config) (assets.Storage, error) {
	switch cfg.AssetBackend {
	case "disk":
		log.Println("Uploads stored under:", cfg.UploadsDir)
		return assets.NewDiskStorage(cfg.UploadsDir), nil
	case "minio":
		if cfg.MinioEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required for ASSET_BACKEND=minio")
		}
		ms, err := assets.NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		log.Println("Uploads stored in bucket:", cfg.MinioBucket)
		return ms, nil
	}
	return nil, fmt.Errorf("unsupported ASSET_BACKEND %q (want disk or minio)", cfg.AssetBackend)
}
