package service

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"storefront-checkout/internal/model"
)

const defaultExpressFee int64 = 15000

type BuilderConfig struct {
	ExpressFee int64
	Clock      func() time.Time
	// NewID permite fijar el generador en tests; por defecto uuid.NewRandom.
	NewID func() (uuid.UUID, error)
}

// OrderBuilder arma la orden final a partir del borrador validado y el carrito.
type OrderBuilder struct {
	expressFee int64
	now        func() time.Time
	newID      func() (uuid.UUID, error)
}

func NewOrderBuilder(cfg BuilderConfig) *OrderBuilder {
	fee := cfg.ExpressFee
	if fee <= 0 {
		fee = defaultExpressFee
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewRandom
	}
	return &OrderBuilder{expressFee: fee, now: clock, newID: newID}
}

// ShippingCost devuelve el costo de envío del método elegido.
func (b *OrderBuilder) ShippingCost(m model.ShippingMethod) int64 {
	if m == model.ShippingExpress {
		return b.expressFee
	}
	return 0
}

// Build no falla: el borrador ya pasó por el validador.
func (b *OrderBuilder) Build(draft model.OrderDraft, cart Cart) model.Order {
	now := b.now().UTC()
	items := cart.Items()

	lines := make([]model.OrderLineSnapshot, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.OrderLineSnapshot{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}

	subtotal := cart.Total()
	shipping := b.ShippingCost(draft.ShippingMethod)

	return model.Order{
		ID:              b.orderID(now),
		OrderNumber:     orderNumber(now),
		Status:          model.StatusAwaitingPayment,
		PaymentMethod:   draft.PaymentMethod,
		ShippingMethod:  draft.ShippingMethod,
		Currency:        model.CurrencyCOP,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Total:           subtotal + shipping,
		Items:           lines,
		IsVerified:      draft.PaymentMethod.IsCardFamily(),
		Customer:        draft.Customer,
		ShippingAddress: draft.Address,
		PromoCode:       draft.PromoCode,
		Source:          model.SourceWeb,
		CreatedAt:       now,
	}
}

func (b *OrderBuilder) orderID(now time.Time) string {
	id, err := b.newID()
	if err == nil {
		return id.String()
	}
	// sin entropía del sistema: marca de tiempo + sufijo aleatorio
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + strconv.FormatUint(rand.Uint64(), 36)
}

// orderNumber es solo para mostrar al cliente; no es único.
func orderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), rand.IntN(1_000_000))
}
