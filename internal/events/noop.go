package events

import "context"

// NoopPublisher discards all events. It stands in for the NATS publisher when
// INTAKE_NATS_URL is unset, so submissions and updates work without a broker.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
