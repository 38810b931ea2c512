package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spaces/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func mustBuild(t *testing.T, b *MessageBuilder) Message {
	t.Helper()
	msg, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestMessageBuilder(t *testing.T) {
	msg := mustBuild(t, NewMessage().
		WithKey("space-1").
		WithValue(map[string]int{"hours": 3}).
		WithEventType("ledger.reserved").
		WithSource("spaces"))

	if msg.Key != "space-1" {
		t.Errorf("Key = %q", msg.Key)
	}
	if string(msg.Value) != `{"hours":3}` {
		t.Errorf("Value = %s", msg.Value)
	}
	if msg.GetEventID() == "" {
		t.Error("event id was not generated")
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("timestamp header was not set")
	}
	if msg.GetEventType() != "ledger.reserved" {
		t.Errorf("event type = %q", msg.GetEventType())
	}
}

func TestMessageBuilderReportsEncodingErrors(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("Build() error = %v, want ErrInvalidMessage", err)
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for range 12 {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
}

func TestProducerPublish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriters(w, nil, "ledger", logger.Discard())

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	msg := mustBuild(t, NewMessage().WithKey("space-1").WithValue("x"))
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(w.written) != 1 || string(w.written[0].Key) != "space-1" {
		t.Fatalf("written = %+v", w.written)
	}
	if header(w.written[0], HeaderEventID) != msg.GetEventID() {
		t.Error("event id header not propagated")
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestProducerRejectsInvalidMessages(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "ledger", logger.Discard())

	if err := p.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key error = %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("empty value error = %v", err)
	}

	_ = p.Close()
	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("closed error = %v", err)
	}
}

func TestProducerSendsFailuresToDLQ(t *testing.T) {
	boom := errors.New("connection refused")
	w := &fakeWriter{err: boom}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters(w, dlq, "ledger", logger.Discard())

	msg := mustBuild(t, NewMessage().WithKey("space-1").WithValue("x"))
	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, boom) {
		t.Fatalf("Publish() error = %v, want %v", err, boom)
	}
	if len(dlq.written) != 1 {
		t.Fatalf("dlq got %d messages, want 1", len(dlq.written))
	}
	if header(dlq.written[0], HeaderOriginalTopic) != "ledger" {
		t.Error("dlq message lacks original topic")
	}
	if _, ok := msg.Headers[HeaderDLQError]; ok {
		t.Error("caller's message headers were mutated")
	}
}

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerRetriesTransientThenDLQsPermanent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Key: []byte("flaky"), Value: []byte("1"), Offset: 1},
			{Key: []byte("bad"), Value: []byte("2"), Offset: 2},
		},
	}
	dlq := &fakeWriter{}

	attempts := map[string]int{}
	handler := func(ctx context.Context, msg Message) error {
		attempts[msg.Key]++
		switch {
		case msg.Key == "flaky" && attempts[msg.Key] < 3:
			return NewTransientError("broker hiccup", errors.New("i/o timeout"))
		case msg.Key == "bad":
			return NewPermanentError("undecodable", errors.New("bad payload"))
		}
		return nil
	}

	c := NewConsumerWithReader(reader, dlq, "ledger", 3, handler, logger.Discard())
	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}

	if attempts["flaky"] != 3 {
		t.Errorf("flaky attempts = %d, want 3", attempts["flaky"])
	}
	if attempts["bad"] != 1 {
		t.Errorf("bad attempts = %d, want 1", attempts["bad"])
	}
	if len(dlq.written) != 1 || string(dlq.written[0].Key) != "bad" {
		t.Errorf("dlq = %+v", dlq.written)
	}
	if len(reader.committed) != 2 {
		t.Errorf("committed = %v, want both offsets", reader.committed)
	}
}

func TestConsumerSkipCommitsLeavesNoOffsets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Key: []byte("s1"), Value: []byte("1"), Offset: 1},
			{Key: []byte("s2"), Value: []byte("2"), Offset: 2},
		},
	}

	var handled int
	c := NewConsumerWithReader(reader, nil, "ledger", 0, func(ctx context.Context, msg Message) error {
		handled++
		return nil
	}, logger.Discard())
	c.SkipCommits()

	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}
	if handled != 2 {
		t.Errorf("handled = %d, want 2", handled)
	}
	if len(reader.committed) != 0 {
		t.Errorf("committed = %v, want none", reader.committed)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"typed transient", NewTransientError("x", nil), ErrorTypeTransient},
		{"wrapped typed permanent", errors.Join(errors.New("ctx"), NewPermanentError("x", nil)), ErrorTypePermanent},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown text", errors.New("something odd"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}

	if ShouldRetry(NewTransientError("x", nil), 3, 3) {
		t.Error("ShouldRetry past the limit")
	}
}
