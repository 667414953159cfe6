// Package store defines the injected persistence abstraction behind the
// cart core: active carts plus the append-only order ledger. Implementations
// must serialize operations per cart id — two concurrent mutations on the
// same cart never interleave at sub-operation granularity — while mutations
// on different carts proceed in parallel.
package store

import (
	"context"

	"github.com/openkicks/storefront/internal/domain"
)

// Store owns the active carts and the order ledger.
//
// UpdateCart and Checkout run their closure inside the cart's critical
// section. The closure receives a private copy of the cart; the store
// commits it only when the closure returns nil, so a failed validation
// leaves the stored cart untouched.
type Store interface {
	// CreateCart allocates a fresh unique id and registers an empty cart.
	CreateCart(ctx context.Context) (*domain.Cart, error)

	// GetCart returns the cart for cartID, creating an empty one under that
	// exact id if absent. Never fails on an unknown id.
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)

	// UpdateCart applies fn to the cart (get-or-create) under its critical
	// section and returns the committed state.
	UpdateCart(ctx context.Context, cartID string, fn func(cart *domain.Cart) error) (*domain.Cart, error)

	// Checkout runs fn on the cart under its critical section; fn builds the
	// order and its line snapshots from the cart's current state. The store
	// then appends both to the ledger and clears the cart as one unit: no
	// reader ever sees the order without its lines, or the cart cleared
	// before the order exists.
	Checkout(ctx context.Context, cartID string, fn func(cart *domain.Cart) (*domain.Order, []domain.OrderLine, error)) (*domain.Order, error)

	// Order returns the order with the given id, or ENOTFOUND.
	Order(ctx context.Context, orderID string) (*domain.Order, error)

	// OrderLines returns the line snapshots for an order in append order.
	OrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error)

	// Orders returns all orders in append order.
	Orders(ctx context.Context) ([]domain.Order, error)
}
