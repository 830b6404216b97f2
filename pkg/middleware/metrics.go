package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ambev-sales/sales-service/pkg/metrics"
)

// MetricsMiddleware records HTTP metrics keyed by route pattern
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics records sales business counters. A nil *BusinessMetrics is a no-op.
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

func (b *BusinessMetrics) enabled() bool {
	return b != nil && b.metrics != nil
}

// RecordSaleCreated records a created sale
func (b *BusinessMetrics) RecordSaleCreated(totalAmount float64) {
	if b.enabled() {
		b.metrics.RecordSaleCreated(totalAmount)
	}
}

// RecordSaleCancelled records a cancelled sale
func (b *BusinessMetrics) RecordSaleCancelled() {
	if b.enabled() {
		b.metrics.RecordSaleCancelled()
	}
}

// RecordSaleDeleted records a deleted sale
func (b *BusinessMetrics) RecordSaleDeleted() {
	if b.enabled() {
		b.metrics.RecordSaleDeleted()
	}
}

// RecordItemCancelled records a cancelled item
func (b *BusinessMetrics) RecordItemCancelled() {
	if b.enabled() {
		b.metrics.RecordItemCancelled()
	}
}

// RecordPublishFailure records an undeliverable event
func (b *BusinessMetrics) RecordPublishFailure(eventType string) {
	if b.enabled() {
		b.metrics.RecordPublishFailure(eventType)
	}
}

// RecordCacheLookup records a read cache hit or miss
func (b *BusinessMetrics) RecordCacheLookup(hit bool) {
	if b.enabled() {
		b.metrics.RecordCacheLookup(hit)
	}
}
