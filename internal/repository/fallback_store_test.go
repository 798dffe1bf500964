package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/model"
)

func TestFileFallbackStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileFallbackStore(filepath.Join(t.TempDir(), "pending_orders.json"))

	orders, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFileFallbackStore_AppendPreservesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "pending_orders.json")
	store := NewFileFallbackStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []model.Order{{ID: "a", Total: 1000, Currency: model.CurrencyCOP}}))

	orders, err := store.Load(ctx)
	require.NoError(t, err)
	orders = append(orders, model.Order{ID: "b", Total: 2000, Items: []model.OrderLineSnapshot{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, store.Save(ctx, orders))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "p1", got[1].Items[0].ProductID)
}

func TestFileFallbackStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_orders.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileFallbackStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileFallbackStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileFallbackStore(filepath.Join(t.TempDir(), "x.json")).Save(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
