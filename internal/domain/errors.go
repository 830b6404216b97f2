package domain

import (
	"errors"
	"strings"

	"github.com/ambev-sales/sales-service/internal/validation"
)

// Errors for the Sale aggregate
var (
	ErrSaleNotFound         = errors.New("sale not found")
	ErrItemNotFound         = errors.New("sale item not found")
	ErrInvalidQuantity      = errors.New("cannot sell more than 20 identical items")
	ErrSaleAlreadyCancelled = errors.New("sale is already cancelled")
)

// ValidationError carries every failed rule of an entity or command
type ValidationError struct {
	Result validation.Result
}

// NewValidationError wraps a failed validation result
func NewValidationError(result validation.Result) *ValidationError {
	return &ValidationError{Result: result}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Result.Messages(), " ")
}
