package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBusDispatchesInOrder(t *testing.T) {
	bus := NewBus()
	var seen []string
	bus.Listen(OrderCreated, func(_ context.Context, e Event) { seen = append(seen, "a:"+e.Key) })
	bus.Listen(OrderCreated, func(context.Context, Event) { panic("boom") })
	bus.Listen(OrderCreated, func(_ context.Context, e Event) { seen = append(seen, "b:"+e.Key) })
	bus.Listen("other", func(context.Context, Event) { seen = append(seen, "other") })

	require.NoError(t, bus.Publish(context.Background(), Event{Name: OrderCreated, Key: "7"}))
	assert.Equal(t, []string{"a:7", "b:7"}, seen)
}

type mockWriter struct{ mock.Mock }

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(msgs).Error(0)
}

func (m *mockWriter) Close() error { return m.Called().Error(0) }

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	w := &mockWriter{}
	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).([]kafka.Message)
	}).Return(nil)
	w.On("Close").Return(nil).Once()

	p := newKafkaPublisher(w, "storefront.orders")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), Event{
		Name: OrderCreated, Key: "42", OccurredAt: at, Payload: map[string]int{"order_id": 42},
	}))
	require.NoError(t, p.Close())

	require.Len(t, sent, 1)
	assert.Equal(t, "42", string(sent[0].Key))
	assert.Equal(t, "order.created", string(sent[0].Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(sent[0].Value, &decoded))
	assert.Equal(t, "order.created", decoded["name"])
	assert.Equal(t, float64(42), decoded["payload"].(map[string]interface{})["order_id"])

	require.NoError(t, p.Close())
	assert.Error(t, p.Publish(context.Background(), Event{Name: OrderCreated}))
	w.AssertExpectations(t)
}

// blockingWriter holds every write until release is closed.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	written int
}

func (w *blockingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	<-w.release
	w.mu.Lock()
	w.written += len(msgs)
	w.mu.Unlock()
	return nil
}

func (w *blockingWriter) Close() error { return nil }

func TestKafkaPublisherDoesNotWaitForBroker(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	p := newKafkaPublisher(w, "storefront.orders")

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(context.Background(), Event{Name: OrderCreated, Key: "1"}))
	}
	assert.Less(t, time.Since(start), time.Second)

	close(w.release)
	require.NoError(t, p.Close())
	assert.Equal(t, 3, w.written)
	assert.Zero(t, p.Dropped())
}

func TestKafkaPublisherDropsWhenQueueFull(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	p := newKafkaPublisher(w, "storefront.orders")

	var failed int
	for i := 0; i < kafkaQueueSize+5; i++ {
		if err := p.Publish(context.Background(), Event{Name: OrderCreated}); err != nil {
			failed++
		}
	}
	assert.GreaterOrEqual(t, failed, 4)
	assert.Equal(t, int64(failed), p.Dropped())

	close(w.release)
	require.NoError(t, p.Close())
}

type failing struct{}

func (failing) Publish(context.Context, Event) error { return errors.New("down") }

func TestFanoutSwallowsFailures(t *testing.T) {
	bus := NewBus()
	got := 0
	bus.Listen(OrderCreated, func(context.Context, Event) { got++ })

	f := Fanout{failing{}, nil, bus}
	require.NoError(t, f.Publish(context.Background(), Event{Name: OrderCreated}))
	assert.Equal(t, 1, got)
}
