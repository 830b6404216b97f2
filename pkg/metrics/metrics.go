package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all sales service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaEventsConsumed  *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// Store metrics (postgres, mongodb, redis)
	DatabaseOperations        *prometheus.CounterVec
	DatabaseOperationDuration *prometheus.HistogramVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Business metrics
	SalesCreated    prometheus.Counter
	SalesCancelled  prometheus.Counter
	SalesDeleted    prometheus.Counter
	ItemsCancelled  prometheus.Counter
	SalesAmount     prometheus.Histogram
	PublishFailures *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "sales",
	}
}

// New creates a new Metrics instance with its own registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	serviceLabel := prometheus.Labels{"service": config.ServiceName}

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: serviceLabel,
		},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaEventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_consumed_total",
			Help:      "Total number of Kafka events consumed",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	m.DatabaseOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "database_operations_total",
			Help:      "Total number of store operations",
		},
		[]string{"service", "store", "table", "operation", "status"},
	)

	m.DatabaseOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "store", "table", "operation"},
	)

	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "cache_lookups_total",
			Help:      "Sale cache lookups by result",
		},
		[]string{"service", "result"},
	)

	m.SalesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Name:        "sales_created_total",
		Help:        "Total number of sales created",
		ConstLabels: serviceLabel,
	})

	m.SalesCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Name:        "sales_cancelled_total",
		Help:        "Total number of sales cancelled",
		ConstLabels: serviceLabel,
	})

	m.SalesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Name:        "sales_deleted_total",
		Help:        "Total number of sales deleted",
		ConstLabels: serviceLabel,
	})

	m.ItemsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Name:        "sale_items_cancelled_total",
		Help:        "Total number of sale items cancelled",
		ConstLabels: serviceLabel,
	})

	m.SalesAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   config.Namespace,
		Name:        "sale_total_amount",
		Help:        "Total amount of created sales",
		Buckets:     []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: serviceLabel,
	})

	m.PublishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "event_publish_failures_total",
			Help:      "Sale events that could not be published",
		},
		[]string{"service", "event_type"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaEventsConsumed,
		m.KafkaPublishDuration,
		m.DatabaseOperations,
		m.DatabaseOperationDuration,
		m.CacheLookups,
		m.SalesCreated,
		m.SalesCancelled,
		m.SalesDeleted,
		m.ItemsCancelled,
		m.SalesAmount,
		m.PublishFailures,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordKafkaPublish records a Kafka publish
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordKafkaConsume records a consumed Kafka event
func (m *Metrics) RecordKafkaConsume(topic, eventType string, success bool) {
	m.KafkaEventsConsumed.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
}

// RecordDatabaseOperation records a store operation
func (m *Metrics) RecordDatabaseOperation(store, table, operation string, success bool, duration time.Duration) {
	m.DatabaseOperations.WithLabelValues(m.serviceName, store, table, operation, statusLabel(success)).Inc()
	m.DatabaseOperationDuration.WithLabelValues(m.serviceName, store, table, operation).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(m.serviceName, result).Inc()
}

// RecordSaleCreated records a created sale and its amount
func (m *Metrics) RecordSaleCreated(totalAmount float64) {
	m.SalesCreated.Inc()
	m.SalesAmount.Observe(totalAmount)
}

// RecordSaleCancelled records a cancelled sale
func (m *Metrics) RecordSaleCancelled() {
	m.SalesCancelled.Inc()
}

// RecordSaleDeleted records a deleted sale
func (m *Metrics) RecordSaleDeleted() {
	m.SalesDeleted.Inc()
}

// RecordItemCancelled records a cancelled sale item
func (m *Metrics) RecordItemCancelled() {
	m.ItemsCancelled.Inc()
}

// RecordPublishFailure records an event that could not be delivered
func (m *Metrics) RecordPublishFailure(eventType string) {
	m.PublishFailures.WithLabelValues(m.serviceName, eventType).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
