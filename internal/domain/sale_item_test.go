package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountRate(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		rate     string
		err      error
	}{
		{"below first tier", 3, "0", nil},
		{"single unit", 1, "0", nil},
		{"first tier lower bound", 4, "0.10", nil},
		{"first tier upper bound", 9, "0.10", nil},
		{"second tier lower bound", 10, "0.20", nil},
		{"second tier upper bound", 20, "0.20", nil},
		{"over the limit", 21, "0", ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := DiscountRate(tt.quantity)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Equal(dec(tt.rate)), "rate %s", rate)
		})
	}
}

func TestSaleItem_ApplyDiscount(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		discount  string
		total     string
	}{
		{"no discount", 2, "50", "0", "100"},
		{"ten percent", 6, "10", "6", "54"},
		{"twenty percent", 10, "15.50", "31", "124"},
		{"twenty percent at the limit", 20, "10", "40", "160"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewSaleItem(uuid.New(), "Beer", tt.quantity, dec(tt.unitPrice))

			require.NoError(t, item.ApplyDiscount())

			assert.True(t, item.Discount.Equal(dec(tt.discount)), "discount %s", item.Discount)
			assert.True(t, item.TotalAmount.Equal(dec(tt.total)), "total %s", item.TotalAmount)
			assert.True(t, item.TotalAmount.Add(item.Discount).Equal(item.Subtotal()))
		})
	}
}

func TestSaleItem_ApplyDiscountRejectsQuantityOverLimit(t *testing.T) {
	item := NewSaleItem(uuid.New(), "Beer", 21, dec("10"))

	err := item.ApplyDiscount()

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, item.Discount.IsZero())
	assert.True(t, item.TotalAmount.IsZero())
}

func TestSaleItem_Cancel(t *testing.T) {
	item := NewSaleItem(uuid.New(), "Beer", 1, dec("10"))
	require.False(t, item.IsCancelled)

	item.Cancel()

	assert.True(t, item.IsCancelled)
}

func TestSaleItem_Validate(t *testing.T) {
	valid := func() *SaleItem {
		item := NewSaleItem(uuid.New(), "Beer", 5, dec("10"))
		require.NoError(t, item.ApplyDiscount())
		return item
	}

	tests := []struct {
		name    string
		mutate  func(i *SaleItem)
		message string
	}{
		{"empty product", func(i *SaleItem) { i.Product = " " }, "Product name cannot be empty."},
		{"long product", func(i *SaleItem) { i.Product = string(make([]rune, 101)) }, "Product name cannot exceed 100 characters."},
		{"zero quantity", func(i *SaleItem) { i.Quantity = 0 }, "Quantity must be greater than 0."},
		{"quantity over limit", func(i *SaleItem) { i.Quantity = 21 }, "Quantity cannot exceed 20."},
		{"zero price", func(i *SaleItem) { i.UnitPrice = decimal.Zero }, "Unit price must be greater than 0."},
		{"negative discount", func(i *SaleItem) { i.Discount = dec("-1") }, "Discount cannot be negative."},
		{"negative total", func(i *SaleItem) { i.TotalAmount = dec("-1") }, "Total amount cannot be negative."},
		{"discount off tier", func(i *SaleItem) { i.Discount = dec("1") }, "Discount rules are violated."},
	}

	t.Run("valid item", func(t *testing.T) {
		result := valid().Validate()
		assert.True(t, result.IsValid, "%v", result.Errors)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mutate(item)

			result := item.Validate()

			assert.False(t, result.IsValid)
			assert.True(t, result.HasMessage(tt.message), "%v", result.Messages())
		})
	}
}
