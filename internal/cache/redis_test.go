package cache

import (
	"context"
	"testing"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func testDetail() *models.ProductDetail {
	return &models.ProductDetail{
		Product: models.Product{
			ID:       1,
			Name:     "Laptop",
			Slug:     "laptop",
			Price:    decimal.RequireFromString("999.99"),
			Category: "Electronics",
			Stock:    3,
		},
		Related: []models.Product{{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("19.50"), Category: "Electronics"}},
	}
}

func TestRedisCache_ProductRoundTrip(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.SetProduct(ctx, 1, testDetail()))
	assert.True(t, mr.Exists("catalog:product:1"))

	got, err := cache.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Product.Name)
	assert.True(t, got.Product.Price.Equal(decimal.RequireFromString("999.99")))
	require.Len(t, got.Related, 1)
	assert.Equal(t, "Mouse", got.Related[0].Name)

	require.NoError(t, cache.SetProduct(ctx, 2, testDetail()))
	require.NoError(t, cache.DeleteProducts(ctx, 1, 2))
	assert.False(t, mr.Exists("catalog:product:1"))
	assert.False(t, mr.Exists("catalog:product:2"))
	require.NoError(t, cache.DeleteProducts(ctx), "nothing to delete")
	_, err = cache.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetAppliesJitteredTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.SetCategories(context.Background(), []models.Category{"Electronics"}))

	ttl := mr.TTL(categoriesKey)
	assert.GreaterOrEqual(t, ttl, 10*time.Minute, "TTL should be at least base TTL")
	assert.Less(t, ttl, 15*time.Minute, "TTL should be below base + max jitter")
}

func TestRedisCache_Categories(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	want := []models.Category{"Books & Stationery", "Electronics"}
	require.NoError(t, cache.SetCategories(ctx, want))

	got, err := cache.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, cache.DeleteCategories(ctx))
	_, err = cache.GetCategories(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Expiry is a miss too.
	require.NoError(t, cache.SetCategories(ctx, want))
	mr.FastForward(20 * time.Minute)
	_, err = cache.GetCategories(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("catalog:product:7", "{not json"))
	_, err := cache.GetProduct(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_ServerDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.GetCategories(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
