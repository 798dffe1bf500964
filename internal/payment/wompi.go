// Package payment arma la redirección a la pasarela de pagos.
package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"storefront-checkout/internal/model"
)

const DefaultCheckoutURL = "https://checkout.wompi.co/p/"

var ErrMissingPublicKey = errors.New("payment: wompi public key is required")

type WompiConfig struct {
	CheckoutURL string
	PublicKey   string
	RedirectURL string
	// IntegritySecret firma monto y referencia; si está vacío no se envía firma.
	IntegritySecret string
}

// WompiCheckout entrega la orden al web checkout de Wompi. Desde ahí la pasarela
// maneja el pago y los cambios de estado posteriores.
type WompiCheckout struct {
	cfg WompiConfig
}

func NewWompiCheckout(cfg WompiConfig) (*WompiCheckout, error) {
	if cfg.PublicKey == "" {
		return nil, ErrMissingPublicKey
	}
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = DefaultCheckoutURL
	}
	if _, err := url.Parse(cfg.CheckoutURL); err != nil {
		return nil, fmt.Errorf("payment: checkout url: %w", err)
	}
	return &WompiCheckout{cfg: cfg}, nil
}

// Handoff devuelve la URL a la que se redirige al cliente.
func (w *WompiCheckout) Handoff(ctx context.Context, o model.Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if o.ID == "" {
		return "", errors.New("payment: order id is required")
	}
	if o.Total <= 0 {
		return "", fmt.Errorf("payment: invalid total %d for order %s", o.Total, o.ID)
	}

	u, err := url.Parse(w.cfg.CheckoutURL)
	if err != nil {
		return "", fmt.Errorf("payment: checkout url: %w", err)
	}

	currency := o.Currency
	if currency == "" {
		currency = model.CurrencyCOP
	}
	cents := strconv.FormatInt(o.Total*100, 10)

	q := u.Query()
	q.Set("public-key", w.cfg.PublicKey)
	q.Set("currency", currency)
	q.Set("amount-in-cents", cents)
	q.Set("reference", o.ID)
	if w.cfg.RedirectURL != "" {
		q.Set("redirect-url", w.cfg.RedirectURL)
	}
	if w.cfg.IntegritySecret != "" {
		q.Set("signature:integrity", IntegritySignature(o.ID, cents, currency, w.cfg.IntegritySecret))
	}
	if o.Customer.Email != "" {
		q.Set("customer-data:email", o.Customer.Email)
	}
	if o.Customer.FullName != "" {
		q.Set("customer-data:full-name", o.Customer.FullName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IntegritySignature es sha256(referencia + monto en centavos + moneda + secreto) en hex.
func IntegritySignature(reference, amountInCents, currency, secret string) string {
	sum := sha256.Sum256([]byte(reference + amountInCents + currency + secret))
	return hex.EncodeToString(sum[:])
}
