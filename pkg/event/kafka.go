package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	kafkaQueueSize    = 1024
	kafkaWriteTimeout = 5 * time.Second
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher hands events to a background writer. Publish only
// enqueues, so a slow or unreachable broker never holds the caller; when
// the queue is full the event is dropped and counted.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	queue   chan kafka.Message
	stopped chan struct{}
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	dropped atomic.Int64
}

// NewKafkaPublisher writes to topic, keyed by Event.Key so all events of
// one order land on the same partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf("kafka: "+msg, args...))
		}),
	}
	return newKafkaPublisher(w, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:  w,
		topic:   topic,
		queue:   make(chan kafka.Message, kafkaQueueSize),
		stopped: make(chan struct{}),
	}
	go p.drainLoop()
	return p
}

func (p *KafkaPublisher) Publish(_ context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("event: encode %s: %w", e.Name, err)
	}
	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: body,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(e.Name)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("event: kafka publisher closed")
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		p.dropped.Add(1)
		return fmt.Errorf("event: kafka queue full, dropped %s", e.Name)
	}
}

func (p *KafkaPublisher) drainLoop() {
	defer close(p.stopped)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			logger.Error("event: kafka write failed", "topic", p.topic, "key", string(msg.Key), "error", err)
		}
		cancel()
	}
}

// Dropped reports how many events were discarded on a full queue.
func (p *KafkaPublisher) Dropped() int64 { return p.dropped.Load() }

// Close writes whatever is still queued and closes the writer. Safe to
// call twice.
func (p *KafkaPublisher) Close() error {
	var err error
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		<-p.stopped
		err = p.writer.Close()
	})
	return err
}
