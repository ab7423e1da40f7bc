package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/redis/go-redis/v9"
)

const categoriesKey = "catalog:categories"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 10 * time.Minute,
	}
}

// RedisCache keeps JSON encoded catalog entries with a jittered TTL so that
// entries written together do not expire together.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	if err := r.get(ctx, productKey(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, id int64, detail *models.ProductDetail) error {
	return r.set(ctx, productKey(id), detail)
}

func (r *RedisCache) DeleteProducts(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	return r.del(ctx, keys...)
}

func (r *RedisCache) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.get(ctx, categoriesKey, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *RedisCache) SetCategories(ctx context.Context, categories []models.Category) error {
	return r.set(ctx, categoriesKey, categories)
}

func (r *RedisCache) DeleteCategories(ctx context.Context) error {
	return r.del(ctx, categoriesKey)
}

func (r *RedisCache) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, key, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) del(ctx context.Context, keys ...string) error {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}
