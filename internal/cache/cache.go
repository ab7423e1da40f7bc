package cache

import (
	"context"
	"errors"

	"github.com/01moynul/storefront-golang/internal/models"
)

// CatalogCache stores read-mostly catalog responses.
type CatalogCache interface {
	GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error)
	SetProduct(ctx context.Context, id int64, detail *models.ProductDetail) error
	DeleteProducts(ctx context.Context, ids ...int64) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	SetCategories(ctx context.Context, categories []models.Category) error
	DeleteCategories(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// NoopCache is used when no Redis address is configured. Every read misses.
type NoopCache struct{}

func (NoopCache) GetProduct(context.Context, int64) (*models.ProductDetail, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) SetProduct(context.Context, int64, *models.ProductDetail) error { return nil }

func (NoopCache) DeleteProducts(context.Context, ...int64) error { return nil }

func (NoopCache) GetCategories(context.Context) ([]models.Category, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) SetCategories(context.Context, []models.Category) error { return nil }

func (NoopCache) DeleteCategories(context.Context) error { return nil }
