// Package cache holds the Redis read-through cache for single sales.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ambev-sales/sales-service/internal/domain"
)

// Config holds Redis cache configuration
type Config struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// DefaultConfig returns a disabled cache pointing at a local Redis
func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Addr:    "localhost:6379",
		TTL:     5 * time.Minute,
	}
}

// NewClient connects to Redis and pings it
func NewClient(ctx context.Context, config *Config) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// kv is the subset of the Redis client used by SaleCache
type kv interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// SaleCache stores sales as JSON under "sale:<id>"
type SaleCache struct {
	rdb kv
	ttl time.Duration
}

// NewSaleCache creates a SaleCache on top of a Redis client
func NewSaleCache(rdb kv, ttl time.Duration) *SaleCache {
	return &SaleCache{rdb: rdb, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "sale:" + id.String()
}

// Get returns the cached sale or nil on a miss
func (c *SaleCache) Get(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sale domain.Sale
	if err := json.Unmarshal(raw, &sale); err != nil {
		return nil, fmt.Errorf("decode cached sale: %w", err)
	}
	return &sale, nil
}

// Set stores sale for the configured TTL
func (c *SaleCache) Set(ctx context.Context, sale *domain.Sale) error {
	raw, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("encode sale: %w", err)
	}
	if err := c.rdb.Set(ctx, key(sale.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached copy of a sale
func (c *SaleCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
