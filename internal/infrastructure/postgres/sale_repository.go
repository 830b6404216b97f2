package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/instrument"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

// SaleRepository implements domain.SaleRepository using gorm
type SaleRepository struct {
	db    *gorm.DB
	store instrument.Store
}

// NewSaleRepository creates a new SaleRepository. m and logger may be nil.
func NewSaleRepository(db *gorm.DB, m *metrics.Metrics, logger *logging.Logger) *SaleRepository {
	return &SaleRepository{
		db:    db,
		store: newStore(m, logger),
	}
}

// Create inserts the sale and its items
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) (err error) {
	ctx, done := r.store.Start(ctx, salesTable, "insert")
	defer func() { done(1, err) }()

	model := toSaleModel(sale)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// GetByID loads a sale with its items. A missing sale yields nil, nil.
func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.Sale, err error) {
	ctx, done := r.store.Start(ctx, salesTable, "select")
	defer func() { done(0, err) }()

	var model saleModel
	err = r.db.WithContext(ctx).
		Preload("Items", byPosition).
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	return model.toDomain(), nil
}

// List returns every sale ordered by creation time
func (r *SaleRepository) List(ctx context.Context) (_ []*domain.Sale, err error) {
	ctx, done := r.store.Start(ctx, salesTable, "select")
	var models []saleModel
	defer func() { done(int64(len(models)), err) }()

	err = r.db.WithContext(ctx).
		Preload("Items", byPosition).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	sales := make([]*domain.Sale, 0, len(models))
	for i := range models {
		sales = append(sales, models[i].toDomain())
	}
	return sales, nil
}

// Update saves the header, deletes stored items that are no longer part of
// the sale and upserts the rest, all in one transaction.
func (r *SaleRepository) Update(ctx context.Context, sale *domain.Sale) (err error) {
	ctx, done := r.store.Start(ctx, salesTable, "update")
	defer func() { done(int64(len(sale.Items)+1), err) }()

	model := toSaleModel(sale)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}

		orphans := tx.Where("sale_id = ?", sale.ID)
		if len(model.Items) > 0 {
			keep := make([]uuid.UUID, 0, len(model.Items))
			for _, item := range model.Items {
				keep = append(keep, item.ID)
			}
			orphans = orphans.Where("id NOT IN ?", keep)
		}
		if err := orphans.Delete(&saleItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to remove sale items: %w", err)
		}

		if len(model.Items) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Items).Error; err != nil {
			return fmt.Errorf("failed to save sale items: %w", err)
		}
		return nil
	})
	return err
}

// Delete removes the sale and its items. It reports false when no sale with
// id exists.
func (r *SaleRepository) Delete(ctx context.Context, id uuid.UUID) (deleted bool, err error) {
	ctx, done := r.store.Start(ctx, salesTable, "delete")
	defer func() { done(0, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&saleItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete sale items: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&saleModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete sale: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
