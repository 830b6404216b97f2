package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ambev-sales/sales-service/pkg/kafka"
	salesmongo "github.com/ambev-sales/sales-service/pkg/mongodb"
	pgclient "github.com/ambev-sales/sales-service/pkg/postgres"

	"github.com/ambev-sales/sales-service/internal/infrastructure/cache"
)

const (
	storePostgres = "postgres"
	storeMongoDB  = "mongodb"
)

// Config holds application configuration
type Config struct {
	ServerAddr  string             `yaml:"serverAddr"`
	LogLevel    string             `yaml:"logLevel"`
	CORSOrigins []string           `yaml:"corsOrigins"`
	Store       string             `yaml:"store"`
	Postgres    *pgclient.Config   `yaml:"postgres"`
	MongoDB     *salesmongo.Config `yaml:"mongodb"`
	Kafka       *kafka.Config      `yaml:"kafka"`
	Redis       *cache.Config      `yaml:"redis"`
	Tracing     TracingConfig      `yaml:"tracing"`
}

// TracingConfig holds the OTLP exporter settings
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Environment string  `yaml:"environment"`
	SampleRate  float64 `yaml:"sampleRate"`
}

func defaultConfig() *Config {
	return &Config{
		ServerAddr: ":8080",
		LogLevel:   "info",
		Store:      storePostgres,
		Postgres:   pgclient.DefaultConfig(),
		MongoDB:    salesmongo.DefaultConfig(),
		Kafka:      kafka.DefaultConfig(),
		Redis:      cache.DefaultConfig(),
		Tracing: TracingConfig{
			Enabled:     true,
			Endpoint:    "localhost:4317",
			Environment: "development",
			SampleRate:  1.0,
		},
	}
}

// loadConfig applies CONFIG_FILE over the defaults, then the environment over both
func loadConfig() (*Config, error) {
	config := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Store = strings.ToLower(getEnv("SALES_STORE", c.Store))
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}

	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnvInt("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.Database = getEnv("POSTGRES_DB", c.Postgres.Database)
	c.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", c.Postgres.SSLMode)

	c.MongoDB.URI = getEnv("MONGODB_URI", c.MongoDB.URI)
	c.MongoDB.Database = getEnv("MONGODB_DATABASE", c.MongoDB.Database)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}

	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.TTL = getEnvDuration("REDIS_TTL", c.Redis.TTL)

	c.Tracing.Enabled = getEnvBool("TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.Environment = getEnv("ENVIRONMENT", c.Tracing.Environment)
}

func (c *Config) validate() error {
	switch c.Store {
	case storePostgres, storeMongoDB:
	default:
		return fmt.Errorf("unknown store %q: want %s or %s", c.Store, storePostgres, storeMongoDB)
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
