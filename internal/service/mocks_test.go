package service

import (
	"context"
	"sync"

	"storefront-checkout/internal/model"
)

type stubCart struct {
	mu       sync.Mutex
	id       string
	items    []model.CartItem
	cleared  int
	clearErr error
}

func newStubCart(items ...model.CartItem) *stubCart {
	return &stubCart{id: "cart-1", items: items}
}

func (c *stubCart) ID() string { return c.id }

func (c *stubCart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

func (c *stubCart) Total() int64 { return model.CartTotal(c.Items()) }

func (c *stubCart) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
	if c.clearErr != nil {
		return c.clearErr
	}
	c.items = nil
	return nil
}

func (c *stubCart) clearCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleared
}

type stubOrders struct {
	mu          sync.Mutex
	createFn    func(ctx context.Context, o model.Order) (model.Order, error)
	created     []model.Order
	decremented [][]model.OrderLineSnapshot
	decErr      error
}

func (s *stubOrders) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	s.mu.Lock()
	s.created = append(s.created, o)
	fn := s.createFn
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, o)
	}
	return o, nil
}

func (s *stubOrders) DecrementStock(_ context.Context, lines []model.OrderLineSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decremented = append(s.decremented, lines)
	return s.decErr
}

func (s *stubOrders) decrementCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.decremented)
}

type memoryFallback struct {
	mu     sync.Mutex
	orders []model.Order
}

func (m *memoryFallback) Load(context.Context) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Order(nil), m.orders...), nil
}

func (m *memoryFallback) Save(_ context.Context, orders []model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]model.Order(nil), orders...)
	return nil
}

func (m *memoryFallback) snapshot() []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Order(nil), m.orders...)
}

type stubGateway struct {
	mu      sync.Mutex
	url     string
	err     error
	panics  bool
	handoff []model.Order
}

func (g *stubGateway) Handoff(_ context.Context, o model.Order) (string, error) {
	if g.panics {
		panic("gateway exploded")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handoff = append(g.handoff, o)
	return g.url, g.err
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handoff)
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []model.Order
	err  error
}

func (n *stubNotifier) Send(_ context.Context, o model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, o)
	return n.err
}

func (n *stubNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type stubCustomers struct {
	mu       sync.Mutex
	profiles []model.CustomerProfile
	err      error
}

func (c *stubCustomers) UpsertByPhone(_ context.Context, p model.CustomerProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles = append(c.profiles, p)
	return c.err
}

func (c *stubCustomers) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.profiles)
}
