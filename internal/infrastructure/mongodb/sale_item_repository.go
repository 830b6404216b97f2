package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/instrument"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

// SaleItemRepository implements domain.SaleItemRepository on the items
// embedded in the sales collection.
type SaleItemRepository struct {
	collection *mongo.Collection
	store      instrument.Store
}

// NewSaleItemRepository creates a new SaleItemRepository
func NewSaleItemRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *SaleItemRepository {
	return &SaleItemRepository{
		collection: db.Collection(salesCollection),
		store:      newStore(db, m, logger),
	}
}

// Create appends the item to its sale
func (r *SaleItemRepository) Create(ctx context.Context, item *domain.SaleItem) (err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "push")
	defer func() { done(1, err) }()

	doc, err := toSaleItemDocument(item)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": doc.SaleID},
		bson.M{"$push": bson.M{"items": doc}},
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale item: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// GetByID loads an item. A missing item yields nil, nil.
func (r *SaleItemRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.SaleItem, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "find")
	defer func() { done(0, err) }()

	var doc saleDocument
	opts := options.FindOne().SetProjection(bson.M{
		"items": bson.M{"$elemMatch": bson.M{"id": id.String()}},
	})
	err = r.collection.FindOne(ctx, bson.M{"items.id": id.String()}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sale item: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, nil
	}
	return doc.Items[0].toDomain()
}

// GetBySaleID returns the items of a sale in their stored order
func (r *SaleItemRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) (_ []*domain.SaleItem, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "find")
	var doc saleDocument
	defer func() { done(int64(len(doc.Items)), err) }()

	opts := options.FindOne().SetProjection(bson.M{"items": 1})
	err = r.collection.FindOne(ctx, bson.M{"_id": saleID.String()}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []*domain.SaleItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}

	items := make([]*domain.SaleItem, 0, len(doc.Items))
	for i := range doc.Items {
		item, err := doc.Items[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Update overwrites the embedded item in place
func (r *SaleItemRepository) Update(ctx context.Context, item *domain.SaleItem) (err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "update")
	defer func() { done(1, err) }()

	doc, err := toSaleItemDocument(item)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"items.id": doc.ID},
		bson.M{"$set": bson.M{"items.$": doc}},
	)
	if err != nil {
		return fmt.Errorf("failed to update sale item: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// Delete pulls the item out of its sale, reporting whether it existed
func (r *SaleItemRepository) Delete(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "pull")
	defer func() { done(0, err) }()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"items.id": id.String()},
		bson.M{"$pull": bson.M{"items": bson.M{"id": id.String()}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete sale item: %w", err)
	}
	return result.ModifiedCount > 0, nil
}
