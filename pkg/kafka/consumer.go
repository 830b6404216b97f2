package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/tracing"
)

// EventHandler is a function that handles a CloudEvent
type EventHandler func(ctx context.Context, event *cloudevents.SaleCloudEvent) error

// MessageInfo locates a consumed message within its topic
type MessageInfo struct {
	Topic     string
	Partition int
	Offset    int64
}

type messageInfoKey struct{}

// ContextWithMessageInfo returns a context carrying the position of the message being handled
func ContextWithMessageInfo(ctx context.Context, info MessageInfo) context.Context {
	return context.WithValue(ctx, messageInfoKey{}, info)
}

// MessageInfoFromContext returns the position set by the consumer, if any
func MessageInfoFromContext(ctx context.Context) (MessageInfo, bool) {
	info, ok := ctx.Value(messageInfoKey{}).(MessageInfo)
	return info, ok
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer handles consuming messages from Kafka topics
type Consumer struct {
	config    *Config
	mu        sync.Mutex
	readers   map[string]messageReader
	handlers  map[string]map[string]EventHandler // topic -> eventType -> handler
	logger    *slog.Logger
	newReader func(topic string) messageReader
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(config *Config, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{
		config:   config,
		readers:  make(map[string]messageReader),
		handlers: make(map[string]map[string]EventHandler),
		logger:   logger,
	}
	c.newReader = c.kafkaReader
	return c
}

func (c *Consumer) kafkaReader(topic string) messageReader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.config.Brokers,
		GroupID:        c.config.ConsumerGroup,
		Topic:          topic,
		MinBytes:       c.config.MinBytes,
		MaxBytes:       c.config.MaxBytes,
		MaxWait:        c.config.MaxWait,
		CommitInterval: c.config.CommitInterval,
	})
}

// Subscribe registers a handler for one event type on a topic
func (c *Consumer) Subscribe(topic string, eventType string, handler EventHandler) {
	if _, exists := c.handlers[topic]; !exists {
		c.handlers[topic] = make(map[string]EventHandler)
	}
	c.handlers[topic][eventType] = handler
}

// SubscribeAll registers a handler for every event type on a topic
func (c *Consumer) SubscribeAll(topic string, handler EventHandler) {
	c.Subscribe(topic, "*", handler)
}

// Topics returns the subscribed topics
func (c *Consumer) Topics() []string {
	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (c *Consumer) getReader(topic string) messageReader {
	c.mu.Lock()
	defer c.mu.Unlock()

	if reader, exists := c.readers[topic]; exists {
		return reader
	}
	reader := c.newReader(topic)
	c.readers[topic] = reader
	return reader
}

// Start consumes every subscribed topic on its own goroutine and blocks until
// ctx is done and all topic loops have returned.
func (c *Consumer) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for topic := range c.handlers {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			c.consumeTopic(ctx, topic)
		}(topic)
	}

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) consumeTopic(ctx context.Context, topic string) {
	reader := c.getReader(topic)

	c.logger.Info("Starting consumer for topic", "topic", topic, "group", c.config.ConsumerGroup)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Stopping consumer for topic", "topic", topic)
				return
			}
			c.logger.Error("Error fetching message", "topic", topic, "error", err)
			continue
		}

		event, err := fromMessage(msg)
		if err != nil {
			c.logger.Error("Error parsing message", "topic", topic, "offset", msg.Offset, "error", err)
			// poison message, skip it
			if commitErr := reader.CommitMessages(ctx, msg); commitErr != nil {
				c.logger.Error("Error committing message", "topic", topic, "error", commitErr)
			}
			continue
		}

		msgCtx := ContextWithMessageInfo(ctx, MessageInfo{Topic: topic, Partition: msg.Partition, Offset: msg.Offset})
		if err := c.handleEvent(msgCtx, topic, event); err != nil {
			c.logger.Error("Error handling event",
				"topic", topic,
				"eventType", event.Type,
				"eventId", event.ID,
				"error", err,
			)
			// left uncommitted so the group redelivers it
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Error committing message", "topic", topic, "error", err)
		}
	}
}

func (c *Consumer) handleEvent(ctx context.Context, topic string, event *cloudevents.SaleCloudEvent) error {
	handlers, exists := c.handlers[topic]
	if !exists {
		return fmt.Errorf("no handlers registered for topic %s", topic)
	}

	if event.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.CorrelationID)
	}
	if event.TraceParent != "" {
		ctx = tracing.ExtractTraceContext(ctx, tracing.MapCarrier{
			"traceparent": event.TraceParent,
			"tracestate":  event.TraceState,
		})
	}

	if handler, exists := handlers[event.Type]; exists {
		return handler(ctx, event)
	}
	if handler, exists := handlers["*"]; exists {
		return handler(ctx, event)
	}

	c.logger.Warn("No handler found for event type", "topic", topic, "eventType", event.Type)
	return nil
}

// Close closes all readers
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for topic, reader := range c.readers {
		if err := reader.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close reader for topic %s: %w", topic, err)
		}
	}
	return lastErr
}
