package cloudevents

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for sales domain events
const (
	SaleCreated   = "sales.sale.created"
	SaleModified  = "sales.sale.modified"
	SaleCancelled = "sales.sale.cancelled"
	ItemCancelled = "sales.sale.item-cancelled"
	PublishFailed = "sales.publish.failed"
)

// SourceSalesService identifies events emitted by the sales API
const SourceSalesService = "/ambev/sales-service"

// SpecVersion is the CloudEvents version produced by this package
const SpecVersion = "1.0"

// SaleCloudEvent is a CloudEvents v1.0 envelope for sales events
type SaleCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Extensions
	CorrelationID string `json:"salescorrelationid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
	TraceState    string `json:"tracestate,omitempty"`
}

// ErrorRecord is the payload published to the error queue when an event cannot be delivered
type ErrorRecord struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Validate checks the required CloudEvents attributes
func (e *SaleCloudEvent) Validate() error {
	switch {
	case e.SpecVersion != SpecVersion:
		return fmt.Errorf("unsupported specversion %q", e.SpecVersion)
	case e.ID == "":
		return fmt.Errorf("event id is required")
	case e.Type == "":
		return fmt.Errorf("event type is required")
	case e.Source == "":
		return fmt.Errorf("event source is required")
	}
	return nil
}

// DecodeData unmarshals the event data into target. Data read back from the wire
// is a generic map, so it is re-encoded first.
func (e *SaleCloudEvent) DecodeData(target interface{}) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}
	return nil
}
