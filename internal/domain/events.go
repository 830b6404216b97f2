package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event type names. They double as the topic each event is published to.
const (
	EventTypeSaleCreated   = "SaleCreatedEvent"
	EventTypeSaleModified  = "SaleModifiedEvent"
	EventTypeSaleCancelled = "SaleCancelledEvent"
	EventTypeItemCancelled = "ItemCancelledEvent"
)

// DomainEvent is implemented only by the sale events declared in this file
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	saleEvent()
}

// BaseDomainEvent carries the fields shared by every sale event
type BaseDomainEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateId string    `json:"aggregateId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseDomainEvent) EventType() string { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() string { return e.AggregateId }
func (BaseDomainEvent) saleEvent() {}

func newBaseEvent(eventType string, saleID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateId: saleID.String(),
		Timestamp:   time.Now().UTC(),
	}
}

// SaleCreatedEvent is raised when a sale is registered
type SaleCreatedEvent struct {
	BaseDomainEvent
	Sale Sale `json:"sale"`
}

// NewSaleCreatedEvent creates a SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: newBaseEvent(EventTypeSaleCreated, sale.ID),
		Sale:            sale.Snapshot(),
	}
}

// SaleModifiedEvent is raised when a sale header or its items change
type SaleModifiedEvent struct {
	BaseDomainEvent
	Sale Sale `json:"sale"`
}

// NewSaleModifiedEvent creates a SaleModifiedEvent
func NewSaleModifiedEvent(sale *Sale) *SaleModifiedEvent {
	return &SaleModifiedEvent{
		BaseDomainEvent: newBaseEvent(EventTypeSaleModified, sale.ID),
		Sale:            sale.Snapshot(),
	}
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	BaseDomainEvent
	Sale Sale `json:"sale"`
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: newBaseEvent(EventTypeSaleCancelled, sale.ID),
		Sale:            sale.Snapshot(),
	}
}

// ItemCancelledEvent is raised when a single item of a sale is cancelled
type ItemCancelledEvent struct {
	BaseDomainEvent
	Sale Sale     `json:"sale"`
	Item SaleItem `json:"item"`
}

// NewItemCancelledEvent creates an ItemCancelledEvent
func NewItemCancelledEvent(sale *Sale, item *SaleItem) *ItemCancelledEvent {
	return &ItemCancelledEvent{
		BaseDomainEvent: newBaseEvent(EventTypeItemCancelled, sale.ID),
		Sale:            sale.Snapshot(),
		Item:            *item,
	}
}
