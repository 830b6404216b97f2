package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSaleEvents(t *testing.T) {
	item := NewSaleItem(uuid.Nil, "Beer", 2, dec("50"))
	sale := NewSale("S-001", "Customer A", "Branch 1")
	sale.CreateSaleDate()
	_ = sale.AddItem(item)

	tests := []struct {
		name      string
		event     DomainEvent
		eventType string
	}{
		{"created", NewSaleCreatedEvent(sale), EventTypeSaleCreated},
		{"modified", NewSaleModifiedEvent(sale), EventTypeSaleModified},
		{"cancelled", NewSaleCancelledEvent(sale), EventTypeSaleCancelled},
		{"item cancelled", NewItemCancelledEvent(sale, item), EventTypeItemCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eventType, tt.event.EventType())
			assert.Equal(t, sale.ID.String(), tt.event.AggregateID())
			assert.False(t, tt.event.OccurredAt().IsZero())
		})
	}
}

func TestItemCancelledEvent_CarriesItem(t *testing.T) {
	item := NewSaleItem(uuid.Nil, "Beer", 2, dec("50"))
	sale := NewSale("S-001", "Customer A", "Branch 1")
	_ = sale.AddItem(item)

	event := NewItemCancelledEvent(sale, item)

	assert.Equal(t, item.ID, event.Item.ID)
	assert.Equal(t, "S-001", event.Sale.SaleNumber)
}
