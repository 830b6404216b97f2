package cloudevents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambev-sales/sales-service/pkg/logging"
)

func TestCreateEvent(t *testing.T) {
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	factory := NewEventFactory(SourceSalesService)

	event := factory.CreateEvent(ctx, SaleCreated, "sale/123", map[string]string{"saleNumber": "S-1"})

	require.NoError(t, event.Validate())
	assert.Equal(t, SpecVersion, event.SpecVersion)
	assert.Equal(t, SaleCreated, event.Type)
	assert.Equal(t, SourceSalesService, event.Source)
	assert.Equal(t, "sale/123", event.Subject)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "application/json", event.DataContentType)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Time.IsZero())
}

func TestCreateErrorEvent(t *testing.T) {
	factory := NewEventFactory(SourceSalesService)

	event := factory.CreateErrorEvent(context.Background(), "sale/1", "broker down-dial tcp")

	var record ErrorRecord
	require.NoError(t, event.DecodeData(&record))
	assert.False(t, record.Success)
	assert.Equal(t, "broker down-dial tcp", record.Message)
	assert.Equal(t, PublishFailed, event.Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		event SaleCloudEvent
	}{
		{"bad version", SaleCloudEvent{SpecVersion: "0.3", ID: "1", Type: SaleCreated, Source: "s"}},
		{"missing id", SaleCloudEvent{SpecVersion: SpecVersion, Type: SaleCreated, Source: "s"}},
		{"missing type", SaleCloudEvent{SpecVersion: SpecVersion, ID: "1", Source: "s"}},
		{"missing source", SaleCloudEvent{SpecVersion: SpecVersion, ID: "1", Type: SaleCreated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.event.Validate())
		})
	}
}
