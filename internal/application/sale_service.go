package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/validation"
	"github.com/ambev-sales/sales-service/pkg/errors"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/middleware"
)

// SaleApplicationService handles sale-related use cases
type SaleApplicationService struct {
	saleRepo        domain.SaleRepository
	itemRepo        domain.SaleItemRepository
	publisher       Publisher
	cache           SaleCache
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewSaleApplicationService creates a new SaleApplicationService. A nil cache disables caching.
func NewSaleApplicationService(
	saleRepo domain.SaleRepository,
	itemRepo domain.SaleItemRepository,
	publisher Publisher,
	cache SaleCache,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *SaleApplicationService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &SaleApplicationService{
		saleRepo:        saleRepo,
		itemRepo:        itemRepo,
		publisher:       publisher,
		cache:           cache,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

func validationError(result validation.Result) *errors.AppError {
	return errors.ErrValidationWithFields("Validation failed", result.FieldMap()).
		Wrap(domain.NewValidationError(result))
}

// mapDomainError translates aggregate sentinels into AppErrors
func mapDomainError(err error) error {
	switch {
	case stderrors.Is(err, domain.ErrSaleNotFound):
		return errors.ErrNotFound("sale")
	case stderrors.Is(err, domain.ErrItemNotFound):
		return errors.ErrNotFound("sale item")
	case stderrors.Is(err, domain.ErrSaleAlreadyCancelled):
		return errors.ErrConflict("Sale is already cancelled").Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidQuantity):
		return errors.ErrInvalidOperation(err.Error()).Wrap(err)
	default:
		return err
	}
}

// CreateSale registers a new sale and publishes SaleCreatedEvent
func (s *SaleApplicationService) CreateSale(ctx context.Context, cmd CreateSaleCommand) (*SaleDTO, error) {
	if result := cmd.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	sale := cmd.ToDomainSale()
	sale.CreateSaleDate()
	if err := sale.CalculateTotalAmount(); err != nil {
		return nil, mapDomainError(err)
	}

	if result := sale.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		s.logger.WithError(err).Error("Failed to save sale", "saleId", sale.ID)
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.businessMetrics.RecordSaleCreated(sale.TotalAmount.InexactFloat64())

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "sale.created",
		EntityType: "sale",
		EntityID:   sale.ID.String(),
		Action:     "created",
		RelatedIDs: map[string]string{
			"saleNumber": sale.SaleNumber,
			"branch":     sale.Branch,
		},
		Data: map[string]any{
			"items":       len(sale.Items),
			"totalAmount": sale.TotalAmount.String(),
		},
	})

	if err := s.publisher.Publish(ctx, domain.NewSaleCreatedEvent(sale)); err != nil {
		return nil, err
	}

	return ToSaleDTO(sale), nil
}

// GetSale retrieves a sale by ID, serving from the cache when possible
func (s *SaleApplicationService) GetSale(ctx context.Context, query GetSaleQuery) (*SaleDTO, error) {
	if result := query.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	cached, err := s.cache.Get(ctx, query.ID)
	if err != nil {
		s.logger.WithError(err).Warn("Sale cache lookup failed", "saleId", query.ID)
	}
	s.businessMetrics.RecordCacheLookup(cached != nil)
	if cached != nil {
		return ToSaleDTO(cached), nil
	}

	sale, err := s.loadSale(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, sale); err != nil {
		s.logger.WithError(err).Warn("Failed to cache sale", "saleId", sale.ID)
	}

	return ToSaleDTO(sale), nil
}

// ListSales returns every sale
func (s *SaleApplicationService) ListSales(ctx context.Context, _ ListSalesQuery) ([]SaleDTO, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list sales")
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return ToSaleDTOs(sales), nil
}

// UpdateSale replaces the sale header and cancelled flag and publishes SaleModifiedEvent
func (s *SaleApplicationService) UpdateSale(ctx context.Context, cmd UpdateSaleCommand) (*SaleDTO, error) {
	if result := cmd.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	sale, err := s.loadSale(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	sale.UpdateHeader(cmd.SaleNumber, cmd.Customer, cmd.Branch)
	sale.CancelSale(*cmd.IsCancelled)

	if err := s.saveSale(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "sale.modified",
		EntityType: "sale",
		EntityID:   sale.ID.String(),
		Action:     "updated",
		Data: map[string]any{
			"isCancelled": sale.IsCancelled,
		},
	})

	if err := s.publisher.Publish(ctx, domain.NewSaleModifiedEvent(sale)); err != nil {
		return nil, err
	}

	return ToSaleDTO(sale), nil
}

// DeleteSale removes a sale with its items. A missing sale is reported in the
// result rather than as an error.
func (s *SaleApplicationService) DeleteSale(ctx context.Context, cmd DeleteSaleCommand) (*DeleteSaleResult, error) {
	if result := cmd.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	deleted, err := s.saleRepo.Delete(ctx, cmd.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to delete sale", "saleId", cmd.ID)
		return nil, fmt.Errorf("failed to delete sale: %w", err)
	}

	if !deleted {
		return &DeleteSaleResult{
			Success: false,
			Message: fmt.Sprintf("Sale with ID %s not found.", cmd.ID),
		}, nil
	}

	s.invalidate(ctx, cmd.ID)
	s.businessMetrics.RecordSaleDeleted()

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "sale.deleted",
		EntityType: "sale",
		EntityID:   cmd.ID.String(),
		Action:     "deleted",
	})

	return &DeleteSaleResult{Success: true, Message: "Sale deleted successfully."}, nil
}

// CancelSale cancels an active sale and publishes SaleCancelledEvent
func (s *SaleApplicationService) CancelSale(ctx context.Context, cmd CancelSaleCommand) (*SaleDTO, error) {
	if result := cmd.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	sale, err := s.loadSale(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if sale.IsCancelled {
		return nil, mapDomainError(domain.ErrSaleAlreadyCancelled)
	}

	sale.CancelSale(true)

	if err := s.saveSale(ctx, sale); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordSaleCancelled()

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "sale.cancelled",
		EntityType: "sale",
		EntityID:   sale.ID.String(),
		Action:     "cancelled",
	})

	if err := s.publisher.Publish(ctx, domain.NewSaleCancelledEvent(sale)); err != nil {
		return nil, err
	}

	return ToSaleDTO(sale), nil
}

// CancelItem cancels one item of a sale and publishes ItemCancelledEvent
func (s *SaleApplicationService) CancelItem(ctx context.Context, cmd CancelItemCommand) (*SaleDTO, error) {
	if result := cmd.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	sale, err := s.loadSale(ctx, cmd.SaleID)
	if err != nil {
		return nil, err
	}

	item, ok := sale.FindItem(cmd.ItemID)
	if !ok {
		return nil, mapDomainError(domain.ErrItemNotFound)
	}

	if err := sale.CancelItem(cmd.ItemID); err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.saveSale(ctx, sale); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordItemCancelled()

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "sale.item_cancelled",
		EntityType: "sale",
		EntityID:   sale.ID.String(),
		Action:     "item_cancelled",
		RelatedIDs: map[string]string{
			"itemId": item.ID.String(),
		},
		Data: map[string]any{
			"saleCancelled": sale.IsCancelled,
			"totalAmount":   sale.TotalAmount.String(),
		},
	})

	if err := s.publisher.Publish(ctx, domain.NewItemCancelledEvent(sale, item)); err != nil {
		return nil, err
	}

	return ToSaleDTO(sale), nil
}

// ListSaleItems returns the stored items of a sale
func (s *SaleApplicationService) ListSaleItems(ctx context.Context, query ListSaleItemsQuery) ([]SaleItemDTO, error) {
	if result := query.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	if _, err := s.loadSale(ctx, query.SaleID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.GetBySaleID(ctx, query.SaleID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list sale items", "saleId", query.SaleID)
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}
	return ToSaleItemDTOs(items), nil
}

// GetSaleItem returns one item, which must belong to the given sale
func (s *SaleApplicationService) GetSaleItem(ctx context.Context, query GetSaleItemQuery) (*SaleItemDTO, error) {
	if result := query.Validate(); !result.IsValid {
		return nil, validationError(result)
	}

	item, err := s.itemRepo.GetByID(ctx, query.ItemID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get sale item", "itemId", query.ItemID)
		return nil, fmt.Errorf("failed to get sale item: %w", err)
	}

	if item == nil || item.SaleID != query.SaleID {
		return nil, mapDomainError(domain.ErrItemNotFound)
	}
	return ToSaleItemDTO(item), nil
}

func (s *SaleApplicationService) loadSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get sale", "saleId", id)
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, mapDomainError(domain.ErrSaleNotFound)
	}
	return sale, nil
}

func (s *SaleApplicationService) saveSale(ctx context.Context, sale *domain.Sale) error {
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		s.logger.WithError(err).Error("Failed to update sale", "saleId", sale.ID)
		return fmt.Errorf("failed to update sale: %w", err)
	}
	s.invalidate(ctx, sale.ID)
	return nil
}

func (s *SaleApplicationService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate cached sale", "saleId", id)
	}
}
