package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/gateway"
	"github.com/dinithim/storefront-checkout/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/products":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"id":    "p1",
					"name":  "catnip mouse",
					"price": "12.50",
					"variants": []map[string]any{
						{"name": "default", "stock": 5},
					},
				},
			})
		case "/categories":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "c1", "name": "toys"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCatalog_ProductsCached(t *testing.T) {
	var hits atomic.Int64
	srv := catalogServer(t, &hits)
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	catalog := gateway.NewCatalog(testLogger(), client, cache.NewLRUCache(4, time.Minute))
	ctx := context.Background()

	products, err := catalog.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "12.5", products[0].Price.String())
	require.Len(t, products[0].Variants, 1)
	assert.Equal(t, 5, products[0].Variants[0].Stock)

	// second call comes from cache
	_, err = catalog.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())
}

func TestCatalog_ProductByID(t *testing.T) {
	var hits atomic.Int64
	srv := catalogServer(t, &hits)
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	catalog := gateway.NewCatalog(testLogger(), client, cache.NewLRUCache(4, time.Minute))
	ctx := context.Background()

	p, err := catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "catnip mouse", p.Name)

	_, err = catalog.Product(ctx, "nope")
	assert.ErrorIs(t, err, entities.ErrProductNotFound)
}

func TestCatalog_Categories(t *testing.T) {
	var hits atomic.Int64
	srv := catalogServer(t, &hits)
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	catalog := gateway.NewCatalog(testLogger(), client, cache.NewLRUCache(4, time.Minute))

	categories, err := catalog.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "toys", categories[0].Name)
}

func TestCatalog_RetriesTransientFailure(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	catalog := gateway.NewCatalog(testLogger(), client, cache.NewLRUCache(4, time.Minute))

	_, err := catalog.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestCatalog_FreshProductBypassesCache(t *testing.T) {
	var stock atomic.Int64
	stock.Store(5)
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":    "p1",
				"name":  "catnip mouse",
				"price": "12.50",
				"variants": []map[string]any{
					{"name": "default", "stock": stock.Load()},
				},
			},
		})
	}))
	defer srv.Close()

	client := gateway.NewClient(testLogger(), srv.URL, time.Second)
	catalog := gateway.NewCatalog(testLogger(), client, cache.NewLRUCache(4, time.Minute))
	ctx := context.Background()

	p, err := catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Variants[0].Stock)

	stock.Store(0)

	// cached read still shows the old count
	p, err = catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Variants[0].Stock)

	// fresh read goes to the oracle and refreshes the cache
	p, err = catalog.FreshProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Variants[0].Stock)
	assert.Equal(t, int64(2), hits.Load())

	p, err = catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Variants[0].Stock)
	assert.Equal(t, int64(2), hits.Load())
}
