package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dinithim/storefront-checkout/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	notFound := errors.New("not found")
	boom := errors.New("boom")

	cfg := utils.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	t.Run("succeeds on second attempt", func(t *testing.T) {
		calls := 0
		err := utils.Retry(context.Background(), cfg, func() error {
			calls++
			if calls == 1 {
				return boom
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := utils.Retry(context.Background(), cfg, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		calls := 0
		err := utils.Retry(context.Background(), cfg, func() error {
			calls++
			return notFound
		}, notFound)
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := utils.Retry(ctx, cfg, func() error { return boom })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
