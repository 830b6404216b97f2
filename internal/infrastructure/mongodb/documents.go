package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ambev-sales/sales-service/internal/domain"
	salesmongo "github.com/ambev-sales/sales-service/pkg/mongodb"
)

// saleDocument stores a sale with its items embedded
type saleDocument struct {
	ID          string               `bson:"_id"`
	SaleNumber  string               `bson:"saleNumber"`
	SaleDate    time.Time            `bson:"saleDate"`
	Customer    string               `bson:"customer"`
	Branch      string               `bson:"branch"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	IsCancelled bool                 `bson:"isCancelled"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   *time.Time           `bson:"updatedAt,omitempty"`
	Items       []saleItemDocument   `bson:"items"`
}

type saleItemDocument struct {
	ID          string               `bson:"id"`
	SaleID      string               `bson:"saleId"`
	Product     string               `bson:"product"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unitPrice"`
	Discount    primitive.Decimal128 `bson:"discount"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	IsCancelled bool                 `bson:"isCancelled"`
}

func toSaleDocument(sale *domain.Sale) (*saleDocument, error) {
	total, err := salesmongo.DecimalToBSON(sale.TotalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]saleItemDocument, 0, len(sale.Items))
	for _, item := range sale.Items {
		doc, err := toSaleItemDocument(item)
		if err != nil {
			return nil, err
		}
		doc.SaleID = sale.ID.String()
		items = append(items, *doc)
	}

	return &saleDocument{
		ID:          sale.ID.String(),
		SaleNumber:  sale.SaleNumber,
		SaleDate:    sale.SaleDate,
		Customer:    sale.Customer,
		Branch:      sale.Branch,
		TotalAmount: total,
		IsCancelled: sale.IsCancelled,
		CreatedAt:   sale.CreatedAt,
		UpdatedAt:   sale.UpdatedAt,
		Items:       items,
	}, nil
}

func toSaleItemDocument(item *domain.SaleItem) (*saleItemDocument, error) {
	unitPrice, err := salesmongo.DecimalToBSON(item.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount, err := salesmongo.DecimalToBSON(item.Discount)
	if err != nil {
		return nil, err
	}
	total, err := salesmongo.DecimalToBSON(item.TotalAmount)
	if err != nil {
		return nil, err
	}

	return &saleItemDocument{
		ID:          item.ID.String(),
		SaleID:      item.SaleID.String(),
		Product:     item.Product,
		Quantity:    item.Quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		TotalAmount: total,
		IsCancelled: item.IsCancelled,
	}, nil
}

func (d *saleDocument) toDomain() (*domain.Sale, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid sale id %q: %w", d.ID, err)
	}
	total, err := salesmongo.DecimalFromBSON(d.TotalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.SaleItem, 0, len(d.Items))
	for i := range d.Items {
		item, err := d.Items[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	var updatedAt *time.Time
	if d.UpdatedAt != nil {
		t := d.UpdatedAt.UTC()
		updatedAt = &t
	}

	return &domain.Sale{
		ID:          id,
		SaleNumber:  d.SaleNumber,
		SaleDate:    d.SaleDate.UTC(),
		Customer:    d.Customer,
		Branch:      d.Branch,
		TotalAmount: total,
		IsCancelled: d.IsCancelled,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   updatedAt,
		Items:       items,
	}, nil
}

func (d *saleItemDocument) toDomain() (*domain.SaleItem, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid sale item id %q: %w", d.ID, err)
	}
	saleID, err := uuid.Parse(d.SaleID)
	if err != nil {
		return nil, fmt.Errorf("invalid sale id %q: %w", d.SaleID, err)
	}
	unitPrice, err := salesmongo.DecimalFromBSON(d.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount, err := salesmongo.DecimalFromBSON(d.Discount)
	if err != nil {
		return nil, err
	}
	total, err := salesmongo.DecimalFromBSON(d.TotalAmount)
	if err != nil {
		return nil, err
	}

	return &domain.SaleItem{
		ID:          id,
		SaleID:      saleID,
		Product:     d.Product,
		Quantity:    d.Quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		TotalAmount: total,
		IsCancelled: d.IsCancelled,
	}, nil
}
