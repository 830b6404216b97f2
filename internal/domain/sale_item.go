package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambev-sales/sales-service/internal/validation"
)

// MaxItemQuantity is the largest quantity a single line may carry
const MaxItemQuantity = 20

var (
	firstTierRate  = decimal.RequireFromString("0.10")
	secondTierRate = decimal.RequireFromString("0.20")
)

// SaleItem is one product line of a sale
type SaleItem struct {
	ID          uuid.UUID       `json:"id"`
	SaleID      uuid.UUID       `json:"saleId"`
	Product     string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsCancelled bool            `json:"isCancelled"`
}

// NewSaleItem creates an item with a fresh id. Discount and total stay zero
// until ApplyDiscount runs.
func NewSaleItem(saleID uuid.UUID, product string, quantity int, unitPrice decimal.Decimal) *SaleItem {
	return &SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

// DiscountRate returns the bulk discount rate for quantity
//
//	< 4     0%
//	4..9   10%
//	10..20 20%
func DiscountRate(quantity int) (decimal.Decimal, error) {
	switch {
	case quantity > MaxItemQuantity:
		return decimal.Zero, ErrInvalidQuantity
	case quantity >= 10:
		return secondTierRate, nil
	case quantity >= 4:
		return firstTierRate, nil
	default:
		return decimal.Zero, nil
	}
}

// Subtotal is quantity times unit price, before discount
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ApplyDiscount derives Discount and TotalAmount from Quantity and UnitPrice
func (i *SaleItem) ApplyDiscount() error {
	rate, err := DiscountRate(i.Quantity)
	if err != nil {
		return err
	}

	subtotal := i.Subtotal()
	i.Discount = subtotal.Mul(rate)
	i.TotalAmount = subtotal.Sub(i.Discount)
	return nil
}

// Cancel marks the item as cancelled
func (i *SaleItem) Cancel() {
	i.IsCancelled = true
}

// Validate runs the item rules
func (i *SaleItem) Validate() validation.Result {
	return saleItemRules.Validate(i)
}
