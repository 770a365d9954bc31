package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/pkg/cache"
	"github.com/dinithim/storefront-checkout/pkg/utils"

	"golang.org/x/sync/singleflight"
)

const (
	productsKey   = "products"
	categoriesKey = "categories"
)

// Catalog adapts the stock oracle. Responses are cached with a short TTL;
// stale stock is acceptable because the orchestrator re-validates against a
// fresh read at order-creation time.
type Catalog struct {
	logger *slog.Logger
	client *Client
	cache  *cache.LRUCache
	sfg    singleflight.Group
	retry  utils.RetryConfig
}

func NewCatalog(logger *slog.Logger, client *Client, c *cache.LRUCache) *Catalog {
	return &Catalog{
		logger: logger.With(slog.String("gateway", "catalog")),
		client: client,
		cache:  c,
		retry: utils.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			Multiplier:   2,
		},
	}
}

func (g *Catalog) Products(ctx context.Context) ([]entities.Product, error) {
	if data, ok := g.cache.Get(productsKey); ok {
		var products []entities.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		g.cache.Delete(productsKey)
	}

	// singleflight collapses a thundering herd of cache misses into one
	// upstream fetch
	v, err, _ := g.sfg.Do(productsKey, func() (any, error) {
		return g.fetchProducts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.Product), nil
}

// fetchProducts reads the oracle and refreshes the cache.
func (g *Catalog) fetchProducts(ctx context.Context) ([]entities.Product, error) {
	var wire []productJSON
	fetch := func() error {
		return g.client.do(ctx, http.MethodGet, "/products", nil, &wire, false)
	}
	if err := utils.Retry(ctx, g.retry, fetch, entities.ErrAuthRequired); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	products := make([]entities.Product, 0, len(wire))
	for _, p := range wire {
		products = append(products, productToEntity(p))
	}

	if data, err := json.Marshal(products); err == nil {
		g.cache.Set(productsKey, data)
	}
	return products, nil
}

func (g *Catalog) Categories(ctx context.Context) ([]entities.Category, error) {
	if data, ok := g.cache.Get(categoriesKey); ok {
		var categories []entities.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
		g.cache.Delete(categoriesKey)
	}

	v, err, _ := g.sfg.Do(categoriesKey, func() (any, error) {
		var wire []categoryJSON
		fetch := func() error {
			return g.client.do(ctx, http.MethodGet, "/categories", nil, &wire, false)
		}
		if err := utils.Retry(ctx, g.retry, fetch); err != nil {
			return nil, fmt.Errorf("failed to fetch categories: %w", err)
		}

		categories := make([]entities.Category, 0, len(wire))
		for _, c := range wire {
			categories = append(categories, entities.Category{ID: c.ID, Name: c.Name})
		}

		if data, err := json.Marshal(categories); err == nil {
			g.cache.Set(categoriesKey, data)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.Category), nil
}

// Product resolves a single product by id. It satisfies the cart's
// ProductResolver and may serve cached data.
func (g *Catalog) Product(ctx context.Context, id string) (entities.Product, error) {
	products, err := g.Products(ctx)
	if err != nil {
		return entities.Product{}, err
	}
	return findProduct(products, id)
}

// FreshProduct resolves a product straight from the oracle, never from the
// cache. Stock re-validation at order creation depends on this: a cached
// read would show the same stale stock the cart was built on. The fetched
// list refreshes the cache for everyone else.
func (g *Catalog) FreshProduct(ctx context.Context, id string) (entities.Product, error) {
	v, err, _ := g.sfg.Do(productsKey+":fresh", func() (any, error) {
		return g.fetchProducts(ctx)
	})
	if err != nil {
		return entities.Product{}, err
	}
	return findProduct(v.([]entities.Product), id)
}

func findProduct(products []entities.Product, id string) (entities.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return entities.Product{}, entities.ErrProductNotFound
}
