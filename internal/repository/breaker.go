package repository

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"storefront-checkout/internal/model"
)

type orderStore interface {
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	DecrementStock(ctx context.Context, lines []model.OrderLineSnapshot) error
}

type BreakerSettings struct {
	// ConsecutiveFailures abre el circuito; por defecto 5.
	ConsecutiveFailures uint32
	// OpenTimeout es cuánto queda abierto antes de probar de nuevo; por defecto 30s.
	OpenTimeout time.Duration
}

// BreakerOrderStore corta las escrituras a Mongo cuando fallan seguidas, así
// el checkout pasa directo al respaldo local sin esperar el timeout.
type BreakerOrderStore struct {
	next   orderStore
	create *gobreaker.CircuitBreaker[model.Order]
	stock  *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerOrderStore(next orderStore, s BreakerSettings, log *zap.Logger) *BreakerOrderStore {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= s.ConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker cambió de estado",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}
	}

	return &BreakerOrderStore{
		next:   next,
		create: gobreaker.NewCircuitBreaker[model.Order](settings("orders.create")),
		stock:  gobreaker.NewCircuitBreaker[struct{}](settings("products.stock")),
	}
}

func (b *BreakerOrderStore) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	return b.create.Execute(func() (model.Order, error) {
		return b.next.CreateOrder(ctx, o)
	})
}

func (b *BreakerOrderStore) DecrementStock(ctx context.Context, lines []model.OrderLineSnapshot) error {
	_, err := b.stock.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.DecrementStock(ctx, lines)
	})
	return err
}

// State expone el estado del circuito de órdenes (para /health).
func (b *BreakerOrderStore) State() gobreaker.State {
	return b.create.State()
}
