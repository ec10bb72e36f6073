// Package event delivers domain events after the state change that caused
// them has committed. Bus dispatches in process; KafkaPublisher forwards
// to a topic.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const OrderCreated = "order.created"

// Event is the envelope published for every domain event.
type Event struct {
	Name       string      `json:"name"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Handler func(ctx context.Context, e Event)

// Bus is a synchronous in-process dispatcher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish runs every listener of e.Name in registration order. A panicking
// listener is logged and skipped.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[e.Name]...)
	b.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.WithCtx(ctx).Error("event: listener panicked", "event", e.Name, "panic", r)
				}
			}()
			h(ctx, e)
		}()
	}
	return nil
}

// Fanout publishes to every publisher and logs failures. It never returns
// an error: the events are notifications about committed state.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			logger.WithCtx(ctx).Warn("event: publish failed", "event", e.Name, "key", e.Key, "error", err)
		}
	}
	return nil
}
