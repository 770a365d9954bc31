package session_test

import (
	"context"
	"testing"

	"github.com/dinithim/storefront-checkout/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Cart(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	lines, err := store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	saved := []session.Line{
		{ProductID: "p1", Variant: "default", Quantity: 2},
		{ProductID: "p2", Variant: "large", Quantity: 1},
	}
	require.NoError(t, store.SaveCart(ctx, "s1", saved))

	lines, err = store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, saved, lines)

	// other sessions are isolated
	lines, err = store.LoadCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// saving empty clears the cart
	require.NoError(t, store.SaveCart(ctx, "s1", nil))
	lines, err = store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestMemoryStore_OrderHandle(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	_, ok, err := store.OrderID(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetOrderID(ctx, "s1", "o1"))

	id, ok, err := store.OrderID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "o1", id)

	// single slot: a second set overwrites
	require.NoError(t, store.SetOrderID(ctx, "s1", "o2"))
	id, _, err = store.OrderID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "o2", id)

	require.NoError(t, store.ClearOrderID(ctx, "s1"))
	_, ok, err = store.OrderID(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing an absent handle is a no-op
	require.NoError(t, store.ClearOrderID(ctx, "s1"))
}

func TestMemoryStore_SavedItems(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	ids, err := store.LoadSaved(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SaveSaved(ctx, "s1", []string{"p1", "p2"}))

	ids, err = store.LoadSaved(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	// other sessions are isolated
	ids, err = store.LoadSaved(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// saving empty clears the list
	require.NoError(t, store.SaveSaved(ctx, "s1", nil))
	ids, err = store.LoadSaved(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
