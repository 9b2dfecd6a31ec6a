package eventmock

import (
	"context"
	"sync"

	"loan-ledger/internal/domain/event"
)

var _ event.Publisher = (*Publisher)(nil)

// Publisher records every published event. PublishFn, when set, decides the
// returned error.
type Publisher struct {
	PublishFn func(ctx context.Context, events ...event.Event) error

	mu     sync.Mutex
	events []event.Event
}

func (m *Publisher) Publish(ctx context.Context, events ...event.Event) error {
	m.mu.Lock()
	m.events = append(m.events, events...)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, events...)
	}
	return nil
}

func (m *Publisher) Events() []event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]event.Event(nil), m.events...)
}
