package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newFakeProducer(writers map[string]*fakeWriter) *Producer {
	p := NewProducer(DefaultConfig())
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{}
		writers[topic] = w
		return w
	}
	return p
}

func testEvent() *cloudevents.SaleCloudEvent {
	return &cloudevents.SaleCloudEvent{
		SpecVersion:     cloudevents.SpecVersion,
		Type:            cloudevents.SaleCreated,
		Source:          cloudevents.SourceSalesService,
		Subject:         "sale/42",
		ID:              "evt-1",
		Time:            time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		DataContentType: "application/json",
		Data:            map[string]any{"saleNumber": "S-1"},
		CorrelationID:   "corr-9",
	}
}

func TestProducer_PublishEvent(t *testing.T) {
	writers := map[string]*fakeWriter{}
	p := newFakeProducer(writers)

	require.NoError(t, p.PublishEvent(context.Background(), Topics.SaleCreated, testEvent()))
	require.NoError(t, p.PublishEvent(context.Background(), Topics.SaleCreated, testEvent()))

	w := writers[Topics.SaleCreated]
	require.NotNil(t, w)
	require.Len(t, w.messages, 2)
	assert.Equal(t, "sale/42", string(w.messages[0].Key))

	headers := map[string]string{}
	for _, h := range w.messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, cloudevents.SaleCreated, headers["ce-type"])
	assert.Equal(t, "evt-1", headers["ce-id"])
	assert.Equal(t, "corr-9", headers["ce-salescorrelationid"])
	_, hasTrace := headers["ce-traceparent"]
	assert.False(t, hasTrace)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEventError(t *testing.T) {
	p := NewProducer(DefaultConfig())
	p.newWriter = func(string) messageWriter { return &fakeWriter{err: errors.New("leader not available")} }

	err := p.PublishEvent(context.Background(), Topics.ErrorQueue, testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errorQueue")
}

func TestMessageRoundTripKeepsExtensions(t *testing.T) {
	event := testEvent()
	event.TraceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	msg, err := toMessage(event)
	require.NoError(t, err)

	decoded, err := fromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.CorrelationID, decoded.CorrelationID)
	assert.Equal(t, event.TraceParent, decoded.TraceParent)
	assert.True(t, event.Time.Equal(decoded.Time))
}

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	good, err := toMessage(testEvent())
	require.NoError(t, err)
	good.Partition = 3
	good.Offset = 42
	poison := kafka.Message{Value: []byte("not json")}

	failing := testEvent()
	failing.Type = cloudevents.SaleCancelled
	failingMsg, err := toMessage(failing)
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafka.Message{good, poison, failingMsg}}
	consumer := NewConsumer(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	consumer.newReader = func(string) messageReader { return reader }

	var mu sync.Mutex
	var seen []string
	var correlation string
	var position MessageInfo
	handled := make(chan struct{}, 3)
	consumer.SubscribeAll(Topics.SaleCreated, func(ctx context.Context, event *cloudevents.SaleCloudEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.Type)
		if event.Type == cloudevents.SaleCreated {
			correlation = logging.CorrelationIDFromContext(ctx)
			position, _ = MessageInfoFromContext(ctx)
		}
		handled <- struct{}{}
		if event.Type == cloudevents.SaleCancelled {
			return errors.New("handler failed")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("handler was not called")
		}
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{cloudevents.SaleCreated, cloudevents.SaleCancelled}, seen)
	assert.Equal(t, "corr-9", correlation)
	assert.Equal(t, MessageInfo{Topic: Topics.SaleCreated, Partition: 3, Offset: 42}, position)
	// good message and poison message are committed; the failed one is not
	assert.Equal(t, 2, reader.commits())
}

type failingProducer struct{ calls int }

func (p *failingProducer) PublishEvent(context.Context, string, *cloudevents.SaleCloudEvent) error {
	p.calls++
	return errors.New("broker unreachable")
}

func (p *failingProducer) Close() error { return nil }

func TestCircuitBreakerProducer_OpensAfterFailures(t *testing.T) {
	inner := &failingProducer{}
	m := metrics.New(metrics.DefaultConfig("sales-test"))
	p := NewCircuitBreakerProducer(NewInstrumentedProducer(inner, m, logging.NewNop()), m, logging.NewNop())

	for i := 0; i < 5; i++ {
		assert.Error(t, p.PublishEvent(context.Background(), Topics.SaleCreated, testEvent()))
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.PublishEvent(context.Background(), Topics.SaleCreated, testEvent())
	assert.Error(t, err)
	assert.Equal(t, 5, inner.calls)
}
