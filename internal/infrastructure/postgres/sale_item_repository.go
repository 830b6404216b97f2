package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/instrument"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

// SaleItemRepository implements domain.SaleItemRepository using gorm
type SaleItemRepository struct {
	db    *gorm.DB
	store instrument.Store
}

// NewSaleItemRepository creates a new SaleItemRepository
func NewSaleItemRepository(db *gorm.DB, m *metrics.Metrics, logger *logging.Logger) *SaleItemRepository {
	return &SaleItemRepository{
		db:    db,
		store: newStore(m, logger),
	}
}

// Create appends an item to its sale
func (r *SaleItemRepository) Create(ctx context.Context, item *domain.SaleItem) (err error) {
	ctx, done := r.store.Start(ctx, saleItemsTable, "insert")
	defer func() { done(1, err) }()

	model := toSaleItemModel(item)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&saleItemModel{}).Where("sale_id = ?", item.SaleID).Count(&count).Error; err != nil {
			return err
		}
		model.Position = int(count)
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert sale item: %w", err)
	}
	return nil
}

// GetByID loads an item. A missing item yields nil, nil.
func (r *SaleItemRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.SaleItem, err error) {
	ctx, done := r.store.Start(ctx, saleItemsTable, "select")
	defer func() { done(0, err) }()

	var model saleItemModel
	err = r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sale item: %w", err)
	}
	return model.toDomain(), nil
}

// GetBySaleID returns the items of a sale in their original order
func (r *SaleItemRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) (_ []*domain.SaleItem, err error) {
	ctx, done := r.store.Start(ctx, saleItemsTable, "select")
	var models []saleItemModel
	defer func() { done(int64(len(models)), err) }()

	err = byPosition(r.db.WithContext(ctx)).Where("sale_id = ?", saleID).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}

	items := make([]*domain.SaleItem, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDomain())
	}
	return items, nil
}

// Update overwrites the stored item, keeping its position
func (r *SaleItemRepository) Update(ctx context.Context, item *domain.SaleItem) (err error) {
	ctx, done := r.store.Start(ctx, saleItemsTable, "update")
	defer func() { done(1, err) }()

	model := toSaleItemModel(item)
	err = r.db.WithContext(ctx).Model(&saleItemModel{}).
		Where("id = ?", item.ID).
		Select("sale_id", "product", "quantity", "unit_price", "discount", "total_amount", "is_cancelled").
		Updates(model).Error
	if err != nil {
		return fmt.Errorf("failed to update sale item: %w", err)
	}
	return nil
}

// Delete removes an item, reporting whether it existed
func (r *SaleItemRepository) Delete(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	ctx, done := r.store.Start(ctx, saleItemsTable, "delete")
	defer func() { done(0, err) }()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&saleItemModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete sale item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
