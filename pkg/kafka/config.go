package kafka

import (
	"time"
)

// Config holds Kafka configuration
type Config struct {
	Brokers       []string `yaml:"brokers"`
	ConsumerGroup string   `yaml:"consumerGroup"`
	ClientID      string   `yaml:"clientId"`

	// Producer settings
	BatchSize    int           `yaml:"batchSize"`
	BatchTimeout time.Duration `yaml:"batchTimeout"`
	RequiredAcks int           `yaml:"requiredAcks"` // 0: no ack, 1: leader ack, -1: all replicas ack
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// Consumer settings
	MinBytes       int           `yaml:"minBytes"`
	MaxBytes       int           `yaml:"maxBytes"`
	MaxWait        time.Duration `yaml:"maxWait"`
	CommitInterval time.Duration `yaml:"commitInterval"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:       []string{"localhost:9092"},
		ConsumerGroup: "sales-audit",
		ClientID:      "sales-service",

		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		WriteTimeout: 10 * time.Second,

		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // synchronous commits
	}
}

// Topics contains the sales topic names. Domain event topics are named after
// the event type they carry.
var Topics = struct {
	SaleCreated   string
	SaleModified  string
	SaleCancelled string
	ItemCancelled string
	ErrorQueue    string
}{
	SaleCreated:   "SaleCreatedEvent",
	SaleModified:  "SaleModifiedEvent",
	SaleCancelled: "SaleCancelledEvent",
	ItemCancelled: "ItemCancelledEvent",
	ErrorQueue:    "errorQueue",
}

// AllTopics lists every topic the sales service writes to
func AllTopics() []string {
	return []string{
		Topics.SaleCreated,
		Topics.SaleModified,
		Topics.SaleCancelled,
		Topics.ItemCancelled,
		Topics.ErrorQueue,
	}
}
