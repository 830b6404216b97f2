package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/instrument"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

const salesCollection = "sales"

func newStore(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) instrument.Store {
	return instrument.Store{Name: "mongodb", DBSystem: "mongodb", Database: db.Name(), Metrics: m, Logger: logger}
}

// SaleRepository implements domain.SaleRepository using MongoDB. Items are
// embedded in the sale document.
type SaleRepository struct {
	collection *mongo.Collection
	store      instrument.Store
}

// NewSaleRepository creates a new SaleRepository and ensures its indexes
func NewSaleRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *SaleRepository {
	collection := db.Collection(salesCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "saleNumber", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "items.id", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &SaleRepository{
		collection: collection,
		store:      newStore(db, m, logger),
	}
}

// Create inserts the sale document
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) (err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "insert")
	defer func() { done(1, err) }()

	doc, err := toSaleDocument(sale)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// GetByID loads a sale. A missing sale yields nil, nil.
func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.Sale, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "find")
	defer func() { done(0, err) }()

	var doc saleDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	return doc.toDomain()
}

// List returns every sale ordered by creation time
func (r *SaleRepository) List(ctx context.Context) (_ []*domain.Sale, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "find")
	var docs []saleDocument
	defer func() { done(int64(len(docs)), err) }()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sales: %w", err)
	}

	sales := make([]*domain.Sale, 0, len(docs))
	for i := range docs {
		sale, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// Update replaces the stored document. Items no longer part of the sale are
// dropped with it.
func (r *SaleRepository) Update(ctx context.Context, sale *domain.Sale) (err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "replace")
	defer func() { done(1, err) }()

	doc, err := toSaleDocument(sale)
	if err != nil {
		return err
	}
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc); err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	return nil
}

// Delete removes the sale document, reporting whether it existed
func (r *SaleRepository) Delete(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	ctx, done := r.store.Start(ctx, salesCollection, "delete")
	defer func() { done(0, err) }()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, fmt.Errorf("failed to delete sale: %w", err)
	}
	return result.DeletedCount > 0, nil
}
