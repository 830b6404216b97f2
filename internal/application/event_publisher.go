package application

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/kafka"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/middleware"
	"github.com/ambev-sales/sales-service/pkg/tracing"
)

// Publisher delivers sale domain events
type Publisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}

// EventPublisher wraps domain events in CloudEvents and writes them to the
// topic named after the event type.
type EventPublisher struct {
	producer        kafka.EventProducer
	eventFactory    *cloudevents.EventFactory
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
	tracer          trace.Tracer
}

// NewEventPublisher creates a new EventPublisher
func NewEventPublisher(
	producer kafka.EventProducer,
	eventFactory *cloudevents.EventFactory,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *EventPublisher {
	return &EventPublisher{
		producer:        producer,
		eventFactory:    eventFactory,
		logger:          logger,
		businessMetrics: businessMetrics,
		tracer:          otel.Tracer("sales-service/application"),
	}
}

// Publish sends event to its topic. When delivery fails an error record is
// sent to the error queue and the delivery error is returned unchanged.
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	_, err := tracing.TracedOperation(ctx, p.tracer, "publish "+event.EventType(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.publish(ctx, event)
	})
	return err
}

func (p *EventPublisher) publish(ctx context.Context, event domain.DomainEvent) error {
	ceType, topic, saleNumber := routeFor(event)
	trace.SpanFromContext(ctx).SetAttributes(tracing.SaleSpanAttributes(event.AggregateID(), saleNumber)...)

	subject := "sale/" + event.AggregateID()

	ce := p.eventFactory.CreateEvent(ctx, ceType, subject, event)
	if err := p.producer.PublishEvent(ctx, topic, ce); err != nil {
		p.businessMetrics.RecordPublishFailure(event.EventType())
		p.logger.WithError(err).Error("Failed to publish sale event",
			"eventType", event.EventType(),
			"saleId", event.AggregateID(),
		)
		p.publishError(ctx, subject, err)
		return err
	}
	return nil
}

func (p *EventPublisher) publishError(ctx context.Context, subject string, cause error) {
	inner := ""
	if unwrapped := errors.Unwrap(cause); unwrapped != nil {
		inner = unwrapped.Error()
	}

	record := p.eventFactory.CreateErrorEvent(ctx, subject, fmt.Sprintf("%s-%s", cause.Error(), inner))
	if err := p.producer.PublishEvent(ctx, kafka.Topics.ErrorQueue, record); err != nil {
		p.logger.WithError(err).Error("Failed to publish to error queue", "subject", subject)
	}
}

func routeFor(event domain.DomainEvent) (ceType, topic, saleNumber string) {
	switch e := event.(type) {
	case *domain.SaleCreatedEvent:
		return cloudevents.SaleCreated, kafka.Topics.SaleCreated, e.Sale.SaleNumber
	case *domain.SaleModifiedEvent:
		return cloudevents.SaleModified, kafka.Topics.SaleModified, e.Sale.SaleNumber
	case *domain.SaleCancelledEvent:
		return cloudevents.SaleCancelled, kafka.Topics.SaleCancelled, e.Sale.SaleNumber
	case *domain.ItemCancelledEvent:
		return cloudevents.ItemCancelled, kafka.Topics.ItemCancelled, e.Sale.SaleNumber
	default:
		// unreachable while DomainEvent stays sealed
		return "sales.sale." + event.EventType(), event.EventType(), ""
	}
}
