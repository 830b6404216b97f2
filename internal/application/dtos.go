package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleDTO represents a sale in the application layer responses
type SaleDTO struct {
	ID          string          `json:"id"`
	SaleNumber  string          `json:"saleNumber"`
	SaleDate    time.Time       `json:"saleDate"`
	Customer    string          `json:"customer"`
	Branch      string          `json:"branch"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsCancelled bool            `json:"isCancelled"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	Items       []SaleItemDTO   `json:"items"`
}

// SaleItemDTO represents a sale item in responses
type SaleItemDTO struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"saleId"`
	Product     string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsCancelled bool            `json:"isCancelled"`
}

// DeleteSaleResult reports the outcome of a delete
type DeleteSaleResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
