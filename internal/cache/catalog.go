package cache

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/01moynul/storefront-golang/internal/models"
	"golang.org/x/sync/singleflight"
)

// CatalogSource is the uncached catalog, normally *store.Store.
type CatalogSource interface {
	GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ProductIDsInCategory(ctx context.Context, category models.Category) ([]int64, error)
}

// Catalog serves product pages and the category list cache-aside.
// Concurrent misses on the same key share a single database read.
type Catalog struct {
	source CatalogSource
	cache  CatalogCache
	sfg    singleflight.Group
}

func NewCatalog(source CatalogSource, cache CatalogCache) *Catalog {
	return &Catalog{source: source, cache: cache}
}

func (c *Catalog) Product(ctx context.Context, id int64) (*models.ProductDetail, error) {
	v, err, _ := c.sfg.Do("product:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		detail, err := c.cache.GetProduct(ctx, id)
		if err == nil {
			return detail, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // serve from the database anyway
		}

		detail, err = c.source.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := c.cache.SetProduct(ctx, id, detail); err != nil {
			log.Printf("cache set error: %v", err)
		}
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ProductDetail), nil
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		categories, err := c.cache.GetCategories(ctx)
		if err == nil {
			return categories, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		categories, err = c.source.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.SetCategories(ctx, categories); err != nil {
			log.Printf("cache set error: %v", err)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Category), nil
}

// ProductCreated drops the entries a new product makes stale: the category
// list and every page of its category, whose related lists may now include it.
func (c *Catalog) ProductCreated(ctx context.Context, category models.Category) {
	if err := c.cache.DeleteCategories(ctx); err != nil {
		log.Printf("cache delete error: %v", err)
	}
	c.dropCategoryPages(ctx, category)
}

// ProductChanged drops the page of a changed product and the pages of its
// category, since their related lists embed its fields.
func (c *Catalog) ProductChanged(ctx context.Context, id int64) {
	if err := c.cache.DeleteProducts(ctx, id); err != nil {
		log.Printf("cache delete error: %v", err)
	}
	detail, err := c.source.GetProduct(ctx, id)
	if err != nil {
		log.Printf("cache invalidation lookup error: %v", err)
		return
	}
	c.dropCategoryPages(ctx, detail.Product.Category)
}

func (c *Catalog) dropCategoryPages(ctx context.Context, category models.Category) {
	ids, err := c.source.ProductIDsInCategory(ctx, category)
	if err != nil {
		log.Printf("cache invalidation lookup error: %v", err)
		return
	}
	if err := c.cache.DeleteProducts(ctx, ids...); err != nil {
		log.Printf("cache delete error: %v", err)
	}
}
