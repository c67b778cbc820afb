package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog/internal/models"
)

// KV is the slice of a cache client the category cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ErrCacheMiss is returned by KV.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	Client *redis.Client
}

func (r RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (r RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r RedisKV) Del(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

const categoryCachePrefix = "categories:"

// CachedStore serves the live category listings from a cache and drops
// them on every category mutation. Cache failures fall through to the
// wrapped store. After a failed invalidation the cache is bypassed until a
// later invalidation succeeds, so a deleted category is never served.
type CachedStore struct {
	Store
	cache KV
	ttl   time.Duration
	stale atomic.Bool
}

func NewCachedStore(inner Store, cache KV, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedStore{Store: inner, cache: cache, ttl: ttl}
}

func categoryCacheKey(order CategoryOrder) string {
	return categoryCachePrefix + order.String()
}

func (s *CachedStore) ListCategories(ctx context.Context, order CategoryOrder) ([]models.Category, error) {
	if s.stale.Load() && !s.invalidate(ctx) {
		return s.Store.ListCategories(ctx, order)
	}
	key := categoryCacheKey(order)

	data, err := s.cache.Get(ctx, key)
	if err == nil {
		var cached []models.Category
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return cached, nil
		}
		log.Printf("[CACHE] %s: undecodable entry dropped", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Printf("[CACHE] get %s failed: %v", key, err)
	}

	categories, err := s.Store.ListCategories(ctx, order)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			log.Printf("[CACHE] set %s failed: %v", key, err)
		}
	}
	return categories, nil
}

func (s *CachedStore) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	if err := s.Store.UpdateCategory(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) SoftDeleteCategory(ctx context.Context, id string) error {
	if err := s.Store.SoftDeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate reports whether the cached listings are gone.
func (s *CachedStore) invalidate(ctx context.Context) bool {
	if err := s.cache.Del(ctx, categoryCacheKey(ByName), categoryCacheKey(ByNewest)); err != nil {
		s.stale.Store(true)
		log.Printf("[CACHE] invalidate categories failed, bypassing cache: %v", err)
		return false
	}
	s.stale.Store(false)
	return true
}
