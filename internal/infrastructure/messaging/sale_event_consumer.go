// Package messaging consumes the events published by the sales API.
package messaging

import (
	"context"
	"fmt"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/kafka"
	"github.com/ambev-sales/sales-service/pkg/logging"
)

// Subscriber registers topic handlers. Both kafka.Consumer and
// kafka.InstrumentedConsumer satisfy it.
type Subscriber interface {
	SubscribeAll(topic string, handler kafka.EventHandler)
}

// salePayload is the wire shape of every sale domain event
type salePayload struct {
	domain.BaseDomainEvent
	Sale domain.Sale      `json:"sale"`
	Item *domain.SaleItem `json:"item,omitempty"`
}

// SaleEventConsumer writes an audit line for each sale event and for each
// record that reaches the error queue.
type SaleEventConsumer struct {
	logger *logging.Logger
}

// NewSaleEventConsumer creates a new SaleEventConsumer
func NewSaleEventConsumer(logger *logging.Logger) *SaleEventConsumer {
	return &SaleEventConsumer{logger: logger.WithComponent("sale-event-consumer")}
}

// Register subscribes the consumer to every sales topic, error queue included
func (c *SaleEventConsumer) Register(s Subscriber) {
	for _, topic := range kafka.AllTopics() {
		s.SubscribeAll(topic, c.Handle)
	}
}

// Handle processes one event. Malformed events are logged and acknowledged
// so they are not redelivered.
func (c *SaleEventConsumer) Handle(ctx context.Context, event *cloudevents.SaleCloudEvent) error {
	if err := event.Validate(); err != nil {
		c.logger.WithContext(ctx).Warn("Discarding invalid event", "eventId", event.ID, "error", err)
		return nil
	}
	if msg, ok := kafka.MessageInfoFromContext(ctx); ok {
		c.logger.KafkaConsume(ctx, msg.Topic, event.Type, msg.Partition, msg.Offset)
	}

	switch event.Type {
	case cloudevents.PublishFailed:
		return c.handleFailure(ctx, event)
	case cloudevents.SaleCreated, cloudevents.SaleModified, cloudevents.SaleCancelled, cloudevents.ItemCancelled:
		return c.handleSaleEvent(ctx, event)
	default:
		c.logger.WithContext(ctx).Warn("Ignoring unknown event type", "eventType", event.Type, "eventId", event.ID)
		return nil
	}
}

func (c *SaleEventConsumer) handleSaleEvent(ctx context.Context, event *cloudevents.SaleCloudEvent) error {
	var payload salePayload
	if err := event.DecodeData(&payload); err != nil {
		c.logger.WithContext(ctx).Warn("Discarding undecodable sale event", "eventId", event.ID, "error", err)
		return nil
	}

	related := map[string]string{
		"cloudEventId": event.ID,
		"saleNumber":   payload.Sale.SaleNumber,
	}
	if payload.Item != nil {
		related["itemId"] = payload.Item.ID.String()
	}

	c.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  event.Type,
		EntityType: "sale",
		EntityID:   payload.AggregateId,
		Action:     "consumed",
		RelatedIDs: related,
		Data: map[string]any{
			"domainEventType": payload.Type,
			"totalAmount":     payload.Sale.TotalAmount.String(),
			"isCancelled":     payload.Sale.IsCancelled,
			"items":           len(payload.Sale.Items),
		},
	})
	return nil
}

func (c *SaleEventConsumer) handleFailure(ctx context.Context, event *cloudevents.SaleCloudEvent) error {
	var record cloudevents.ErrorRecord
	if err := event.DecodeData(&record); err != nil {
		return fmt.Errorf("failed to decode error record %s: %w", event.ID, err)
	}

	c.logger.WithContext(ctx).Error("Sale event delivery failed",
		"subject", event.Subject,
		"eventId", event.ID,
		"message", record.Message,
	)
	return nil
}
