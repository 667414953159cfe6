package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openkicks/storefront/internal/domain"
)

// Memory implements Store with process-local state. Each cart carries its
// own mutex so mutations on different carts run in parallel; the ledger has
// a single lock because it is append-only and orders arrive one at a time.
type Memory struct {
	mu    sync.RWMutex // guards the carts map itself, not cart contents
	carts map[string]*cartEntry

	ledgerMu   sync.RWMutex
	orders     []domain.Order
	orderIndex map[string]int
	orderLines map[string][]domain.OrderLine
}

type cartEntry struct {
	mu   sync.Mutex
	cart domain.Cart
}

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		carts:      make(map[string]*cartEntry),
		orderIndex: make(map[string]int),
		orderLines: make(map[string][]domain.OrderLine),
	}
}

// entry returns the cart entry for cartID, registering an empty cart under
// that exact id if absent.
func (m *Memory) entry(cartID string) *cartEntry {
	m.mu.RLock()
	e, ok := m.carts[cartID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.carts[cartID]; ok {
		return e
	}
	e = &cartEntry{cart: domain.Cart{ID: cartID}}
	m.carts[cartID] = e
	return e
}

// CreateCart allocates a fresh unique id and registers an empty cart.
func (m *Memory) CreateCart(ctx context.Context) (*domain.Cart, error) {
	e := m.entry(uuid.NewString())
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone(), nil
}

// GetCart returns the cart for cartID, creating it if absent.
func (m *Memory) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	e := m.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone(), nil
}

// UpdateCart applies fn to a private copy of the cart under its lock and
// commits the copy only when fn succeeds.
func (m *Memory) UpdateCart(ctx context.Context, cartID string, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	e := m.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cart.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	e.cart = *next
	return next.Clone(), nil
}

// Checkout builds the order from the locked cart, appends order and lines to
// the ledger, and clears the cart, all before releasing the cart's lock.
func (m *Memory) Checkout(ctx context.Context, cartID string, fn func(cart *domain.Cart) (*domain.Order, []domain.OrderLine, error)) (*domain.Order, error) {
	e := m.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()

	order, lines, err := fn(e.cart.Clone())
	if err != nil {
		return nil, err
	}

	m.ledgerMu.Lock()
	if _, exists := m.orderIndex[order.ID]; exists {
		m.ledgerMu.Unlock()
		return nil, domain.Errorf(domain.ECONFLICT, "store.checkout", "order id already exists: %s", order.ID)
	}
	m.orderIndex[order.ID] = len(m.orders)
	m.orders = append(m.orders, *order)
	m.orderLines[order.ID] = append([]domain.OrderLine(nil), lines...)
	m.ledgerMu.Unlock()

	e.cart.Lines = nil

	out := *order
	return &out, nil
}

// Order returns the order with the given id.
func (m *Memory) Order(ctx context.Context, orderID string) (*domain.Order, error) {
	m.ledgerMu.RLock()
	defer m.ledgerMu.RUnlock()

	i, ok := m.orderIndex[orderID]
	if !ok {
		return nil, domain.NotFound("store.order", "order", orderID)
	}
	out := m.orders[i]
	return &out, nil
}

// OrderLines returns the line snapshots for an order.
func (m *Memory) OrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	m.ledgerMu.RLock()
	defer m.ledgerMu.RUnlock()

	if _, ok := m.orderIndex[orderID]; !ok {
		return nil, domain.NotFound("store.order_lines", "order", orderID)
	}
	return append([]domain.OrderLine(nil), m.orderLines[orderID]...), nil
}

// Orders returns all orders in append order.
func (m *Memory) Orders(ctx context.Context) ([]domain.Order, error) {
	m.ledgerMu.RLock()
	defer m.ledgerMu.RUnlock()
	return append([]domain.Order(nil), m.orders...), nil
}
