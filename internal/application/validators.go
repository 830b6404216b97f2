package application

import (
	"github.com/google/uuid"

	"github.com/ambev-sales/sales-service/internal/validation"
)

func notNil(id uuid.UUID) bool { return id != uuid.Nil }

var saleItemInputRules = validation.NewRuleSet[SaleItemInput]().
	String("Product", "Product name is required.", func(i SaleItemInput) string { return i.Product }, validation.NotBlank).
	String("Product", "Product name cannot exceed 100 characters.", func(i SaleItemInput) string { return i.Product }, validation.MaxLen(100)).
	Rule("Quantity", "Quantity must be greater than 0.", func(i SaleItemInput) bool { return i.Quantity > 0 }).
	Rule("UnitPrice", "Unit price must be greater than 0.", func(i SaleItemInput) bool { return i.UnitPrice.IsPositive() })

var createSaleRules = validation.Each(
	validation.NewRuleSet[CreateSaleCommand]().
		String("SaleNumber", "Sale number is required.", func(c CreateSaleCommand) string { return c.SaleNumber }, validation.NotBlank).
		String("SaleNumber", "Sale number cannot exceed 50 characters.", func(c CreateSaleCommand) string { return c.SaleNumber }, validation.MaxLen(50)).
		String("Customer", "Customer is required.", func(c CreateSaleCommand) string { return c.Customer }, validation.NotBlank).
		String("Customer", "Customer name cannot exceed 100 characters.", func(c CreateSaleCommand) string { return c.Customer }, validation.MaxLen(100)).
		String("Branch", "Branch is required.", func(c CreateSaleCommand) string { return c.Branch }, validation.NotBlank).
		String("Branch", "Branch name cannot exceed 50 characters.", func(c CreateSaleCommand) string { return c.Branch }, validation.MaxLen(50)).
		Rule("Items", "At least one sale item is required.", func(c CreateSaleCommand) bool { return len(c.Items) > 0 }),
	"Items",
	func(c CreateSaleCommand) []SaleItemInput { return c.Items },
	saleItemInputRules,
)

var updateSaleRules = validation.NewRuleSet[UpdateSaleCommand]().
	Rule("Id", "Sale ID is required.", func(c UpdateSaleCommand) bool { return notNil(c.ID) }).
	String("SaleNumber", "Sale number is required.", func(c UpdateSaleCommand) string { return c.SaleNumber }, validation.NotBlank).
	String("SaleNumber", "Sale number cannot exceed 50 characters.", func(c UpdateSaleCommand) string { return c.SaleNumber }, validation.MaxLen(50)).
	String("Customer", "Customer is required.", func(c UpdateSaleCommand) string { return c.Customer }, validation.NotBlank).
	String("Customer", "Customer name cannot exceed 100 characters.", func(c UpdateSaleCommand) string { return c.Customer }, validation.MaxLen(100)).
	String("Branch", "Branch is required.", func(c UpdateSaleCommand) string { return c.Branch }, validation.NotBlank).
	String("Branch", "Branch name cannot exceed 50 characters.", func(c UpdateSaleCommand) string { return c.Branch }, validation.MaxLen(50)).
	Rule("IsCancelled", "IsCancelled is required.", func(c UpdateSaleCommand) bool { return c.IsCancelled != nil })

var deleteSaleRules = validation.NewRuleSet[DeleteSaleCommand]().
	Rule("Id", "Sale ID is required.", func(c DeleteSaleCommand) bool { return notNil(c.ID) })

var cancelSaleRules = validation.NewRuleSet[CancelSaleCommand]().
	Rule("Id", "Sale ID is required.", func(c CancelSaleCommand) bool { return notNil(c.ID) })

var cancelItemRules = validation.NewRuleSet[CancelItemCommand]().
	Rule("SaleId", "Sale ID is required.", func(c CancelItemCommand) bool { return notNil(c.SaleID) }).
	Rule("ItemId", "Item ID is required.", func(c CancelItemCommand) bool { return notNil(c.ItemID) })

var getSaleRules = validation.NewRuleSet[GetSaleQuery]().
	Rule("Id", "Sale ID is required.", func(q GetSaleQuery) bool { return notNil(q.ID) })

var listSaleItemsRules = validation.NewRuleSet[ListSaleItemsQuery]().
	Rule("SaleId", "Sale ID is required.", func(q ListSaleItemsQuery) bool { return notNil(q.SaleID) })

var getSaleItemRules = validation.NewRuleSet[GetSaleItemQuery]().
	Rule("SaleId", "Sale ID is required.", func(q GetSaleItemQuery) bool { return notNil(q.SaleID) }).
	Rule("ItemId", "Item ID is required.", func(q GetSaleItemQuery) bool { return notNil(q.ItemID) })

// Validate checks the command against the create rules
func (c CreateSaleCommand) Validate() validation.Result { return createSaleRules.Validate(c) }

// Validate checks the command against the update rules
func (c UpdateSaleCommand) Validate() validation.Result { return updateSaleRules.Validate(c) }

func (c DeleteSaleCommand) Validate() validation.Result { return deleteSaleRules.Validate(c) }

func (c CancelSaleCommand) Validate() validation.Result { return cancelSaleRules.Validate(c) }

func (c CancelItemCommand) Validate() validation.Result { return cancelItemRules.Validate(c) }

func (q GetSaleQuery) Validate() validation.Result { return getSaleRules.Validate(q) }

func (q ListSaleItemsQuery) Validate() validation.Result { return listSaleItemsRules.Validate(q) }

func (q GetSaleItemQuery) Validate() validation.Result { return getSaleItemRules.Validate(q) }
