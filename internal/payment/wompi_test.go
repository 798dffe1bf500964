package payment

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/model"
)

func TestNewWompiCheckout_RequiresKey(t *testing.T) {
	_, err := NewWompiCheckout(WompiConfig{})
	assert.ErrorIs(t, err, ErrMissingPublicKey)
}

func TestHandoff_BuildsCheckoutURL(t *testing.T) {
	w, err := NewWompiCheckout(WompiConfig{
		PublicKey:   "pub_test_123",
		RedirectURL: "https://tienda.example/checkout/resultado",
	})
	require.NoError(t, err)

	raw, err := w.Handoff(context.Background(), model.Order{
		ID:       "5d1f9a7e-0000-4000-8000-000000000001",
		Total:    115000,
		Currency: model.CurrencyCOP,
		Customer: model.CustomerInfo{FullName: "Ana Gómez", Email: "ana@example.co"},
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "checkout.wompi.co", u.Host)
	assert.Equal(t, "/p/", u.Path)

	q := u.Query()
	assert.Equal(t, "pub_test_123", q.Get("public-key"))
	assert.Equal(t, "COP", q.Get("currency"))
	assert.Equal(t, "11500000", q.Get("amount-in-cents"))
	assert.Equal(t, "5d1f9a7e-0000-4000-8000-000000000001", q.Get("reference"))
	assert.Equal(t, "https://tienda.example/checkout/resultado", q.Get("redirect-url"))
	assert.Equal(t, "Ana Gómez", q.Get("customer-data:full-name"))
	assert.Empty(t, q.Get("signature:integrity"))
}

func TestHandoff_SignsWhenSecretConfigured(t *testing.T) {
	w, err := NewWompiCheckout(WompiConfig{PublicKey: "pub", IntegritySecret: "secret"})
	require.NoError(t, err)

	raw, err := w.Handoff(context.Background(), model.Order{ID: "ref-1", Total: 1000})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, IntegritySignature("ref-1", "100000", "COP", "secret"), u.Query().Get("signature:integrity"))
	assert.Len(t, u.Query().Get("signature:integrity"), 64)
}

func TestHandoff_RejectsEmptyOrder(t *testing.T) {
	w, err := NewWompiCheckout(WompiConfig{PublicKey: "pub"})
	require.NoError(t, err)

	_, err = w.Handoff(context.Background(), model.Order{})
	assert.Error(t, err)
	_, err = w.Handoff(context.Background(), model.Order{ID: "o-1"})
	assert.Error(t, err)
}
