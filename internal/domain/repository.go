package domain

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository defines the persistence contract for sales
type SaleRepository interface {
	// Create persists a new sale with its items
	Create(ctx context.Context, sale *Sale) error

	// GetByID returns the sale with its items, or nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// List returns every sale with its items
	List(ctx context.Context) ([]*Sale, error)

	// Update persists the header and reconciles the stored items with sale.Items
	Update(ctx context.Context, sale *Sale) error

	// Delete removes the sale and its items, reporting whether anything was removed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// SaleItemRepository defines the persistence contract for sale items
type SaleItemRepository interface {
	Create(ctx context.Context, item *SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*SaleItem, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error)
	Update(ctx context.Context, item *SaleItem) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
