package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/validator"
)

// Interfaces que implementan repository, payment y rabbit.

type Cart interface {
	ID() string
	Items() []model.CartItem
	Total() int64
	Clear(ctx context.Context) error
}

type CustomerStore interface {
	UpsertByPhone(ctx context.Context, profile model.CustomerProfile) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	DecrementStock(ctx context.Context, lines []model.OrderLineSnapshot) error
}

// FallbackStore guarda localmente las órdenes que no llegaron al store remoto.
type FallbackStore interface {
	Load(ctx context.Context) ([]model.Order, error)
	Save(ctx context.Context, orders []model.Order) error
}

type PaymentGateway interface {
	Handoff(ctx context.Context, o model.Order) (string, error)
}

type Notifier interface {
	Send(ctx context.Context, o model.Order) error
}

type FormValidator interface {
	Validate(draft model.OrderDraft) validator.FieldErrors
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrSubmissionInFlight   = errors.New("checkout: submission already in flight")
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	ErrCheckoutUnavailable  = errors.New("checkout: unavailable")
)

const (
	defaultStoreTimeout      = 5 * time.Second
	defaultBackgroundTimeout = 10 * time.Second
)

type State string

const (
	StateRejected          State = "rejected"
	StateRedirectToPayment State = "redirect_to_payment"
	StateConfirmed         State = "confirmed"
)

// Outcome es el estado terminal de un envío.
type Outcome struct {
	State       State
	Errors      validator.FieldErrors
	Order       *model.Order
	RedirectURL string
	// Degraded solo se registra en logs; para el cliente es una confirmación normal.
	Degraded bool
}

type CheckoutServiceDeps struct {
	Validator         FormValidator
	Builder           *OrderBuilder
	Customers         CustomerStore
	Orders            OrderStore
	Fallback          FallbackStore
	Payments          PaymentGateway
	Notifier          Notifier
	Logger            *zap.Logger
	StoreTimeout      time.Duration
	BackgroundTimeout time.Duration
}

type CheckoutService struct {
	validator         FormValidator
	builder           *OrderBuilder
	customers         CustomerStore
	orders            OrderStore
	fallback          FallbackStore
	payments          PaymentGateway
	notifier          Notifier
	logger            *zap.Logger
	storeTimeout      time.Duration
	backgroundTimeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}

	fallbackMu sync.Mutex
	wg         sync.WaitGroup
}

func NewCheckoutService(deps CheckoutServiceDeps) (*CheckoutService, error) {
	switch {
	case deps.Validator == nil:
		return nil, errors.New("checkout service: validator is required")
	case deps.Orders == nil:
		return nil, errors.New("checkout service: order store is required")
	case deps.Fallback == nil:
		return nil, errors.New("checkout service: fallback store is required")
	case deps.Payments == nil:
		return nil, errors.New("checkout service: payment gateway is required")
	}

	builder := deps.Builder
	if builder == nil {
		builder = NewOrderBuilder(BuilderConfig{})
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	storeTimeout := deps.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	bgTimeout := deps.BackgroundTimeout
	if bgTimeout <= 0 {
		bgTimeout = defaultBackgroundTimeout
	}

	return &CheckoutService{
		validator:         deps.Validator,
		builder:           builder,
		customers:         deps.Customers,
		orders:            deps.Orders,
		fallback:          deps.Fallback,
		payments:          deps.Payments,
		notifier:          deps.Notifier,
		logger:            log,
		storeTimeout:      storeTimeout,
		backgroundTimeout: bgTimeout,
		inFlight:          make(map[string]struct{}),
	}, nil
}

// Submit ejecuta el checkout completo. Solo devuelve error si ya hay un envío en curso
// para el mismo carrito o si falta el carrito; cualquier falla posterior a construir la
// orden termina en confirmación.
func (s *CheckoutService) Submit(ctx context.Context, draft model.OrderDraft, cart Cart) (Outcome, error) {
	if cart == nil {
		return Outcome{}, fmt.Errorf("%w: cart is required", ErrCheckoutInvalidInput)
	}
	key := cart.ID()
	if !s.acquire(key) {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer s.release(key)

	if errs := s.validator.Validate(draft); errs != nil {
		return Outcome{State: StateRejected, Errors: errs}, nil
	}

	order := s.builder.Build(draft, cart)
	return s.commit(ctx, order, cart), nil
}

// Wait bloquea hasta que terminen las tareas en segundo plano.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}

func (s *CheckoutService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *CheckoutService) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func (s *CheckoutService) commit(ctx context.Context, order model.Order, cart Cart) (out Outcome) {
	log := logger.Or(ctx, s.logger).With(
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", string(order.PaymentMethod)),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("checkout: pánico al finalizar la orden", zap.Any("panic", r))
			out = s.degrade(ctx, order, cart, log)
		}
	}()

	s.upsertCustomer(ctx, order)

	persisted := s.persist(ctx, order, log)

	if persisted.PaymentMethod.RequiresRedirect() {
		url, err := s.payments.Handoff(ctx, persisted)
		if err != nil {
			log.Error("checkout: no se pudo redirigir a la pasarela", zap.Error(err))
			return s.degrade(ctx, persisted, cart, log)
		}
		log.Info("checkout: redirigiendo a la pasarela de pago")
		return Outcome{State: StateRedirectToPayment, Order: &persisted, RedirectURL: url}
	}

	s.background(ctx, "decrement_stock", func(bctx context.Context) error {
		return s.orders.DecrementStock(bctx, persisted.Items)
	})
	if err := cart.Clear(ctx); err != nil {
		log.Warn("checkout: no se pudo vaciar el carrito", zap.Error(err))
	}
	s.notify(ctx, persisted)

	log.Info("checkout: orden confirmada", zap.Int64("total", persisted.Total))
	return Outcome{State: StateConfirmed, Order: &persisted}
}

// degrade confirma con la orden en memoria. El vaciado del carrito y la notificación
// siguen siendo best-effort.
func (s *CheckoutService) degrade(ctx context.Context, order model.Order, cart Cart, log *zap.Logger) Outcome {
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("checkout: pánico al vaciar el carrito", zap.Any("panic", r))
			}
		}()
		if err := cart.Clear(ctx); err != nil {
			log.Warn("checkout: no se pudo vaciar el carrito", zap.Error(err))
		}
	}()
	s.notify(ctx, order)

	log.Warn("checkout: orden confirmada en modo degradado")
	return Outcome{State: StateConfirmed, Order: &order, Degraded: true}
}

// persist compite la escritura remota contra StoreTimeout. El perdedor no se espera;
// la escritura puede completarse después en el servidor.
func (s *CheckoutService) persist(ctx context.Context, order model.Order, log *zap.Logger) model.Order {
	type result struct {
		order model.Order
		err   error
	}
	done := make(chan result, 1)

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.backgroundTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrCheckoutUnavailable, r)}
			}
		}()
		o, err := s.orders.CreateOrder(wctx, order)
		done <- result{order: o, err: err}
	}()

	timer := time.NewTimer(s.storeTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err == nil {
			if r.order.ID == "" {
				return order
			}
			return r.order
		}
		log.Warn("checkout: falló la escritura de la orden, se usa el respaldo local", zap.Error(r.err))
	case <-timer.C:
		log.Warn("checkout: timeout escribiendo la orden, se usa el respaldo local",
			zap.Duration("timeout", s.storeTimeout))
	}

	if err := s.appendFallback(context.WithoutCancel(ctx), order); err != nil {
		log.Error("checkout: no se pudo guardar la orden en el respaldo local", zap.Error(err))
	}
	return order
}

func (s *CheckoutService) appendFallback(ctx context.Context, order model.Order) error {
	s.fallbackMu.Lock()
	defer s.fallbackMu.Unlock()

	orders, err := s.fallback.Load(ctx)
	if err != nil {
		return fmt.Errorf("load fallback: %w", err)
	}
	orders = append(orders, order)
	if err := s.fallback.Save(ctx, orders); err != nil {
		return fmt.Errorf("save fallback: %w", err)
	}
	return nil
}

func (s *CheckoutService) upsertCustomer(ctx context.Context, order model.Order) {
	if s.customers == nil {
		return
	}
	profile := model.CustomerProfile{
		Phone:     validator.NormalizePhone(order.Customer.Phone),
		FullName:  order.Customer.FullName,
		Email:     order.Customer.Email,
		Address:   order.ShippingAddress,
		UpdatedAt: order.CreatedAt,
	}
	s.background(ctx, "upsert_customer", func(bctx context.Context) error {
		return s.customers.UpsertByPhone(bctx, profile)
	})
}

func (s *CheckoutService) notify(ctx context.Context, order model.Order) {
	if s.notifier == nil {
		return
	}
	s.background(ctx, "notify", func(bctx context.Context) error {
		return s.notifier.Send(bctx, order)
	})
}

// background lanza una tarea best-effort desligada de la cancelación del request.
func (s *CheckoutService) background(ctx context.Context, task string, fn func(context.Context) error) {
	log := logger.Or(ctx, s.logger).With(zap.String("task", task))
	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.backgroundTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Error("checkout: pánico en tarea en segundo plano", zap.Any("panic", r))
			}
		}()
		if err := fn(bctx); err != nil {
			log.Warn("checkout: tarea en segundo plano falló", zap.Error(err))
		}
	}()
}
