package cart_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/dinithim/storefront-checkout/internal/cart"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[string]entities.Product
}

func (f *fakeCatalog) Product(_ context.Context, id string) (entities.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return entities.Product{}, entities.ErrProductNotFound
	}
	return p, nil
}

func product(id string, price string, stock int) entities.Product {
	return entities.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.RequireFromString(price),
		Variants: []entities.Variant{
			{Name: "default", Stock: stock},
		},
	}
}

func newStore(t *testing.T, products ...entities.Product) (*cart.Store, *fakeCatalog) {
	t.Helper()
	catalog := &fakeCatalog{products: make(map[string]entities.Product)}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cart.NewStore(logger, "s1", catalog, session.NewMemoryStore()), catalog
}

func TestStore_AddItem_StockLimit(t *testing.T) {
	const stock = 3
	p := product("p1", "10.00", stock)
	store, _ := newStore(t, p)
	ctx := context.Background()

	// N adds succeed, the (N+1)-th reports StockExhausted without changing
	// the quantity.
	for i := 0; i < stock; i++ {
		outcome, err := store.AddItem(ctx, p, "")
		require.NoError(t, err)
		assert.Equal(t, cart.Added, outcome)
	}
	assert.Equal(t, stock, store.TotalQuantity())

	outcome, err := store.AddItem(ctx, p, "")
	require.NoError(t, err)
	assert.Equal(t, cart.StockExhausted, outcome)
	assert.Equal(t, stock, store.TotalQuantity())
}

func TestStore_AddItem_ZeroStockNeverCreatesLine(t *testing.T) {
	p := product("p1", "10.00", 0)
	store, _ := newStore(t, p)

	for i := 0; i < 3; i++ {
		outcome, err := store.AddItem(context.Background(), p, "")
		require.NoError(t, err)
		assert.Equal(t, cart.StockExhausted, outcome)
	}
	assert.Empty(t, store.Lines())
}

func TestStore_AddItem_VariantResolution(t *testing.T) {
	p := entities.Product{
		ID:    "p1",
		Price: decimal.RequireFromString("5.00"),
		Variants: []entities.Variant{
			{Name: "small", Stock: 1},
			{Name: "large", Stock: 1},
		},
	}
	store, _ := newStore(t, p)
	ctx := context.Background()

	// no "default" variant: falls back to the first
	outcome, err := store.AddItem(ctx, p, "")
	require.NoError(t, err)
	assert.Equal(t, cart.Added, outcome)

	outcome, err = store.AddItem(ctx, p, "large")
	require.NoError(t, err)
	assert.Equal(t, cart.Added, outcome)

	lines := store.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "small", lines[0].Variant)
	assert.Equal(t, "large", lines[1].Variant)

	_, err = store.AddItem(ctx, entities.Product{ID: "bare"}, "")
	assert.ErrorIs(t, err, entities.ErrNoVariantAvailable)

	_, err = store.AddItem(ctx, p, "nonexistent")
	assert.ErrorIs(t, err, entities.ErrNoVariantAvailable)
}

func TestStore_RemoveThenAdd_FreshLine(t *testing.T) {
	p := product("p1", "10.00", 5)
	store, _ := newStore(t, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.AddItem(ctx, p, "")
		require.NoError(t, err)
	}

	store.RemoveItem(ctx, "p1")
	assert.Empty(t, store.Lines())

	// removing again is a no-op, not an error
	store.RemoveItem(ctx, "p1")

	outcome, err := store.AddItem(ctx, p, "")
	require.NoError(t, err)
	assert.Equal(t, cart.Added, outcome)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestStore_SetQuantity(t *testing.T) {
	p := product("p1", "10.00", 5)
	store, _ := newStore(t, p)
	ctx := context.Background()

	// direct set creates the line
	require.NoError(t, store.SetQuantity(ctx, "p1", "default", 3))
	assert.Equal(t, 3, store.TotalQuantity())

	// clamped to stock, silently
	require.NoError(t, store.SetQuantity(ctx, "p1", "default", 99))
	assert.Equal(t, 5, store.TotalQuantity())

	// zero deletes the line instead of keeping a zero-quantity line
	require.NoError(t, store.SetQuantity(ctx, "p1", "default", 0))
	assert.Empty(t, store.Lines())

	require.NoError(t, store.SetQuantity(ctx, "p1", "default", -1))
	assert.Empty(t, store.Lines())
}

func TestStore_TotalPrice_NoDrift(t *testing.T) {
	// 1,000 lines of a fractional-cent price: float64 summation would
	// drift, decimal must not.
	products := make([]entities.Product, 0, 1000)
	for i := 0; i < 1000; i++ {
		products = append(products, product(fmt.Sprintf("p%d", i), "0.003", 10))
	}
	store, _ := newStore(t, products...)
	ctx := context.Background()

	for _, p := range products {
		_, err := store.AddItem(ctx, p, "")
		require.NoError(t, err)
	}

	total, err := store.TotalPrice(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("3.00")), "got %s", total)
}

func TestStore_Snapshot_Immutable(t *testing.T) {
	p := product("p1", "25.00", 5)
	store, _ := newStore(t, p)
	ctx := context.Background()

	_, err := store.AddItem(ctx, p, "")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, p, "")
	require.NoError(t, err)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.True(t, snap.Total.Equal(decimal.RequireFromString("50.00")))

	// mutating the live cart must not touch the snapshot
	store.Clear(ctx)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.False(t, snap.Empty())
}

func TestStore_Snapshot_DropsVanishedProducts(t *testing.T) {
	p1 := product("p1", "10.00", 5)
	p2 := product("p2", "20.00", 5)
	store, catalog := newStore(t, p1, p2)
	ctx := context.Background()

	_, err := store.AddItem(ctx, p1, "")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, p2, "")
	require.NoError(t, err)

	delete(catalog.products, "p2")

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "p1", snap.Lines[0].Product.ID)
}

func TestStore_RestoreFromStash(t *testing.T) {
	p := product("p1", "10.00", 5)
	catalog := &fakeCatalog{products: map[string]entities.Product{"p1": p}}
	stash := session.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	first := cart.NewStore(logger, "s1", catalog, stash)
	_, err := first.AddItem(ctx, p, "")
	require.NoError(t, err)
	_, err = first.AddItem(ctx, p, "")
	require.NoError(t, err)

	// a new store for the same session sees the persisted lines
	second := cart.NewStore(logger, "s1", catalog, stash)
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, 2, second.TotalQuantity())
}

func TestStore_SubscribersNotified(t *testing.T) {
	p := product("p1", "10.00", 5)
	store, _ := newStore(t, p)
	ctx := context.Background()

	notified := 0
	store.Subscribe(func() { notified++ })

	_, err := store.AddItem(ctx, p, "")
	require.NoError(t, err)
	store.RemoveItem(ctx, "p1")

	assert.Equal(t, 2, notified)
}
