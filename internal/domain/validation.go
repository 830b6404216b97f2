package domain

import (
	"github.com/ambev-sales/sales-service/internal/validation"
)

var saleItemRules = validation.NewRuleSet[*SaleItem]().
	String("Product", "Product name cannot be empty.", func(i *SaleItem) string { return i.Product }, validation.NotBlank).
	String("Product", "Product name cannot exceed 100 characters.", func(i *SaleItem) string { return i.Product }, validation.MaxLen(100)).
	Rule("Quantity", "Quantity must be greater than 0.", func(i *SaleItem) bool { return i.Quantity > 0 }).
	Rule("Quantity", "Quantity cannot exceed 20.", func(i *SaleItem) bool { return i.Quantity <= MaxItemQuantity }).
	Rule("UnitPrice", "Unit price must be greater than 0.", func(i *SaleItem) bool { return i.UnitPrice.IsPositive() }).
	Rule("Discount", "Discount cannot be negative.", func(i *SaleItem) bool { return !i.Discount.IsNegative() }).
	Rule("TotalAmount", "Total amount cannot be negative.", func(i *SaleItem) bool { return !i.TotalAmount.IsNegative() }).
	Rule("Discount", "Discount rules are violated.", discountMatchesTier)

// discountMatchesTier checks the stored discount against the tier table
func discountMatchesTier(i *SaleItem) bool {
	rate, err := DiscountRate(i.Quantity)
	if err != nil {
		return false
	}
	return i.Discount.Equal(i.Subtotal().Mul(rate))
}

// saleRules is rebuilt per run so the future checks read the clock at
// validation time.
func saleRules() *validation.RuleSet[*Sale] {
	current := now()
	notFuture := func(s *Sale) bool { return !s.CreatedAt.After(current) }

	rules := validation.NewRuleSet[*Sale]().
		String("SaleNumber", "Sale number is required.", func(s *Sale) string { return s.SaleNumber }, validation.NotBlank).
		String("SaleNumber", "Sale number cannot exceed 50 characters.", func(s *Sale) string { return s.SaleNumber }, validation.MaxLen(50)).
		String("Customer", "Customer is required.", func(s *Sale) string { return s.Customer }, validation.NotBlank).
		String("Customer", "Customer name cannot exceed 100 characters.", func(s *Sale) string { return s.Customer }, validation.MaxLen(100)).
		String("Branch", "Branch is required.", func(s *Sale) string { return s.Branch }, validation.NotBlank).
		String("Branch", "Branch name cannot exceed 50 characters.", func(s *Sale) string { return s.Branch }, validation.MaxLen(50)).
		Rule("CreatedAt", "CreatedAt is required.", func(s *Sale) bool { return !s.CreatedAt.IsZero() }).
		Rule("CreatedAt", "CreatedAt cannot be in the future.", notFuture).
		Rule("UpdatedAt", "UpdatedAt cannot be in the future.", func(s *Sale) bool {
			return s.UpdatedAt == nil || !s.UpdatedAt.After(current)
		})

	return validation.Each(rules, "Items", func(s *Sale) []*SaleItem { return s.Items }, saleItemRules)
}
