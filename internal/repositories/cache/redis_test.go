package cache

import (
	"context"
	"testing"
	"time"

	"payvault/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *WalletCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWalletCache(client, time.Hour)
}

func TestWalletCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	wallet := &models.Wallet{ID: "w-1", Currency: "USD", Balance: 150}
	require.NoError(t, c.SetWallet(ctx, wallet))

	got, err := c.GetWallet(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, got.ID)
	assert.Equal(t, wallet.Balance, got.Balance)
	assert.Equal(t, wallet.Currency, got.Currency)
}

func TestWalletCache_MissAfterInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetWallet(ctx, &models.Wallet{ID: "w-2", Balance: 10}))
	require.NoError(t, c.InvalidateWallet(ctx, "w-2"))

	_, err := c.GetWallet(ctx, "w-2")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestWalletCache_MissOnUnknownWallet(t *testing.T) {
	c := newTestCache(t)

	_, err := c.GetWallet(context.Background(), "nope")
	assert.ErrorIs(t, err, redis.Nil)
}
