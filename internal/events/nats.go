package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectOrderCreated is the NATS subject for order-created events.
const SubjectOrderCreated = "orders.created"

// NATSPublisher publishes events over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// Compile-time check that NATSPublisher implements Publisher.
var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("storefront"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// OrderCreated publishes the event as JSON on SubjectOrderCreated.
func (p *NATSPublisher) OrderCreated(ctx context.Context, event OrderCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}
	if err := p.conn.Publish(SubjectOrderCreated, payload); err != nil {
		return fmt.Errorf("failed to publish order created event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}
