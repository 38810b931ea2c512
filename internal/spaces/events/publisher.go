package events

import (
	"context"
	"sync"
	"time"

	"spaces/pkg/clock"
	"spaces/pkg/kafka"
	"spaces/pkg/ledger"
	"spaces/pkg/logger"
	"spaces/pkg/model"
)

const (
	EventTypePrefix = "ledger."
	publishTimeout  = 10 * time.Second
)

// Publisher ships committed ledger changes to whoever renders calendars.
type Publisher interface {
	Publish(event model.LedgerEvent)
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(model.LedgerEvent) {}

func (NoopPublisher) Close() error { return nil }

// MessageProducer is the part of *kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher decouples ledger commits from broker latency: Publish only enqueues, and a
// single goroutine drains the queue in order. When the queue is full the event is dropped and
// logged rather than stalling the reservation path.
type KafkaPublisher struct {
	producer MessageProducer
	source   string
	log      *logger.Logger
	queue    chan model.LedgerEvent
	mu       sync.RWMutex
	closed   bool
	done     chan struct{}
}

func NewKafkaPublisher(producer MessageProducer, buffer int, source string, log *logger.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
		queue:    make(chan model.LedgerEvent, buffer),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) Publish(event model.LedgerEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Warn("Ledger event dropped after publisher close", "space_id", event.SpaceID, "kind", event.Kind)
		return
	}

	select {
	case p.queue <- event:
	default:
		p.log.Error("Ledger event queue full, dropping event",
			"space_id", event.SpaceID,
			"kind", event.Kind,
			"start_hour", event.StartHour,
			"end_hour", event.EndHour,
		)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		p.send(event)
	}
}

func (p *KafkaPublisher) send(event model.LedgerEvent) {
	msg, err := kafka.NewMessage().
		WithKey(event.SpaceID).
		WithValue(event).
		WithEventType(EventTypePrefix + event.Kind).
		WithSchemaVersion(model.LedgerEventSchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		p.log.Error("Failed to encode ledger event", "space_id", event.SpaceID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish ledger event",
			"space_id", event.SpaceID,
			"kind", event.Kind,
			"event_id", msg.GetEventID(),
			"error", err,
		)
	}
}

// Close flushes queued events and closes the producer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.producer.Close()
}

// Observer turns a space's ledger notifications into published events.
func Observer(spaceID string, pub Publisher, clk clock.Clock) ledger.Observer {
	return ledger.ObserverFunc(func(e ledger.Event) {
		pub.Publish(model.LedgerEvent{
			SpaceID:    spaceID,
			Kind:       string(e.Kind),
			Origin:     e.Origin,
			Start:      e.Start,
			End:        e.End,
			StartHour:  e.StartHour,
			EndHour:    e.EndHour,
			Price:      e.Price,
			Rate:       e.Rate,
			OccurredAt: clk.Now(),
		})
	})
}
