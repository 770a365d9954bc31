package cart_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dinithim/storefront-checkout/internal/cart"
	"github.com/dinithim/storefront-checkout/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedList_Toggle(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	saved := cart.NewSavedList(logger, "s1", session.NewMemoryStore())

	assert.True(t, saved.Toggle(ctx, "p1"))
	assert.True(t, saved.Toggle(ctx, "p2"))
	assert.Equal(t, []string{"p1", "p2"}, saved.IDs())
	assert.True(t, saved.Saved("p1"))

	// toggling again unsaves, order of the rest is preserved
	assert.False(t, saved.Toggle(ctx, "p1"))
	assert.Equal(t, []string{"p2"}, saved.IDs())
	assert.False(t, saved.Saved("p1"))

	// re-saving appends at the end
	assert.True(t, saved.Toggle(ctx, "p1"))
	assert.Equal(t, []string{"p2", "p1"}, saved.IDs())
}

func TestSavedList_RestoreFromStash(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stash := session.NewMemoryStore()

	first := cart.NewSavedList(logger, "s1", stash)
	first.Toggle(ctx, "p1")
	first.Toggle(ctx, "p2")

	second := cart.NewSavedList(logger, "s1", stash)
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, []string{"p1", "p2"}, second.IDs())
}
