package application

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleCommand represents the command to register a new sale
type CreateSaleCommand struct {
	SaleNumber string
	Customer   string
	Branch     string
	Items      []SaleItemInput
}

// SaleItemInput represents a sale item in a command
type SaleItemInput struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// UpdateSaleCommand represents the command to update a sale header.
// IsCancelled is a pointer so an absent value can be told apart from false.
type UpdateSaleCommand struct {
	ID          uuid.UUID
	SaleNumber  string
	Customer    string
	Branch      string
	IsCancelled *bool
}

// DeleteSaleCommand represents the command to delete a sale
type DeleteSaleCommand struct {
	ID uuid.UUID
}

// CancelSaleCommand represents the command to cancel a sale
type CancelSaleCommand struct {
	ID uuid.UUID
}

// CancelItemCommand represents the command to cancel a single sale item
type CancelItemCommand struct {
	SaleID uuid.UUID
	ItemID uuid.UUID
}

// GetSaleQuery represents the query to fetch a sale
type GetSaleQuery struct {
	ID uuid.UUID
}

// ListSalesQuery represents the query to list every sale
type ListSalesQuery struct{}

// ListSaleItemsQuery represents the query to list the items of a sale
type ListSaleItemsQuery struct {
	SaleID uuid.UUID
}

// GetSaleItemQuery represents the query to fetch one item of a sale
type GetSaleItemQuery struct {
	SaleID uuid.UUID
	ItemID uuid.UUID
}
