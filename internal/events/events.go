// Package events publishes storefront domain events to interested
// consumers (fulfillment, notifications). Publishing is best-effort: the
// order is already committed to the ledger when the event goes out.
package events

import (
	"context"
	"time"
)

// OrderCreated is emitted after a checkout commits.
type OrderCreated struct {
	OrderID       string    `json:"order_id"`
	CartID        string    `json:"cart_id"`
	Amount        int64     `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// Publisher emits domain events.
type Publisher interface {
	OrderCreated(ctx context.Context, event OrderCreated) error
	Close()
}
