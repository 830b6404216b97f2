package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ambev-sales/sales-service/pkg/kafka"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
	"github.com/ambev-sales/sales-service/pkg/tracing"

	"github.com/ambev-sales/sales-service/internal/infrastructure/messaging"
)

const serviceName = "sales-consumer"

func main() {
	// Setup logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting sales event consumer")

	config := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	consumer := kafka.NewInstrumentedConsumer(kafka.NewConsumer(config, logger.Logger), m, logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close consumer")
		}
	}()

	messaging.NewSaleEventConsumer(logger).Register(consumer)
	logger.Info("Subscribed to sales topics", "topics", kafka.AllTopics(), "group", config.ConsumerGroup)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("Consumer stopped with error")
		os.Exit(1)
	}

	logger.Info("Consumer stopped")
}

func loadConfig() *kafka.Config {
	config := kafka.DefaultConfig()
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		config.Brokers = strings.Split(brokers, ",")
	}
	config.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", config.ConsumerGroup)
	config.ClientID = getEnv("KAFKA_CLIENT_ID", serviceName)
	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
