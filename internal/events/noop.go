package events

import "context"

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) OrderCreated(ctx context.Context, event OrderCreated) error { return nil }

func (NoopPublisher) Close() {}
