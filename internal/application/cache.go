package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/ambev-sales/sales-service/internal/domain"
)

// SaleCache is a read-through cache for single sales. Get returns nil on a miss.
type SaleCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	Set(ctx context.Context, sale *domain.Sale) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// NoopCache disables caching
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID) (*domain.Sale, error) { return nil, nil }
func (NoopCache) Set(context.Context, *domain.Sale) error { return nil }
func (NoopCache) Invalidate(context.Context, uuid.UUID) error { return nil }
