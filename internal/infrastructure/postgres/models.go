package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/instrument"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
)

const (
	salesTable     = "Sales"
	saleItemsTable = "SaleItems"
)

// saleModel is the relational row of a sale
type saleModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleNumber  string          `gorm:"size:50;not null;index"`
	SaleDate    time.Time       `gorm:"not null"`
	Customer    string          `gorm:"size:100;not null"`
	Branch      string          `gorm:"size:50;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsCancelled bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   *time.Time      `gorm:"autoUpdateTime:false"`
	Items       []saleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (saleModel) TableName() string { return salesTable }

// saleItemModel is the relational row of a sale item. Position keeps the
// order of the items within their sale.
type saleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Product     string          `gorm:"size:100;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsCancelled bool            `gorm:"not null;default:false"`
}

func (saleItemModel) TableName() string { return saleItemsTable }

func newStore(m *metrics.Metrics, logger *logging.Logger) instrument.Store {
	return instrument.Store{Name: "postgres", DBSystem: "postgresql", Database: "sales", Metrics: m, Logger: logger}
}

// AutoMigrate creates or updates the Sales and SaleItems tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&saleModel{}, &saleItemModel{})
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toSaleModel(sale *domain.Sale) *saleModel {
	items := make([]saleItemModel, 0, len(sale.Items))
	for i, item := range sale.Items {
		m := toSaleItemModel(item)
		m.SaleID = sale.ID
		m.Position = i
		items = append(items, *m)
	}

	return &saleModel{
		ID:          sale.ID,
		SaleNumber:  sale.SaleNumber,
		SaleDate:    sale.SaleDate,
		Customer:    sale.Customer,
		Branch:      sale.Branch,
		TotalAmount: sale.TotalAmount,
		IsCancelled: sale.IsCancelled,
		CreatedAt:   sale.CreatedAt,
		UpdatedAt:   sale.UpdatedAt,
		Items:       items,
	}
}

func toSaleItemModel(item *domain.SaleItem) *saleItemModel {
	return &saleItemModel{
		ID:          item.ID,
		SaleID:      item.SaleID,
		Product:     item.Product,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Discount:    item.Discount,
		TotalAmount: item.TotalAmount,
		IsCancelled: item.IsCancelled,
	}
}

func (m *saleModel) toDomain() *domain.Sale {
	items := make([]*domain.SaleItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].toDomain())
	}

	return &domain.Sale{
		ID:          m.ID,
		SaleNumber:  m.SaleNumber,
		SaleDate:    m.SaleDate.UTC(),
		Customer:    m.Customer,
		Branch:      m.Branch,
		TotalAmount: m.TotalAmount,
		IsCancelled: m.IsCancelled,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   utcPtr(m.UpdatedAt),
		Items:       items,
	}
}

func (m *saleItemModel) toDomain() *domain.SaleItem {
	return &domain.SaleItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		Product:     m.Product,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Discount:    m.Discount,
		TotalAmount: m.TotalAmount,
		IsCancelled: m.IsCancelled,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
