package application

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateSaleCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CreateSaleCommand)
		field   string
		message string
	}{
		{"blank number", func(c *CreateSaleCommand) { c.SaleNumber = " " }, "SaleNumber", "Sale number is required."},
		{"long number", func(c *CreateSaleCommand) { c.SaleNumber = strings.Repeat("x", 51) }, "SaleNumber", "Sale number cannot exceed 50 characters."},
		{"missing customer", func(c *CreateSaleCommand) { c.Customer = "" }, "Customer", "Customer is required."},
		{"long customer", func(c *CreateSaleCommand) { c.Customer = strings.Repeat("x", 101) }, "Customer", "Customer name cannot exceed 100 characters."},
		{"missing branch", func(c *CreateSaleCommand) { c.Branch = "" }, "Branch", "Branch is required."},
		{"long branch", func(c *CreateSaleCommand) { c.Branch = strings.Repeat("x", 51) }, "Branch", "Branch name cannot exceed 50 characters."},
		{"no items", func(c *CreateSaleCommand) { c.Items = nil }, "Items", "At least one sale item is required."},
		{"missing product", func(c *CreateSaleCommand) { c.Items[1].Product = "" }, "Items[1].Product", "Product name is required."},
		{"long product", func(c *CreateSaleCommand) { c.Items[0].Product = strings.Repeat("x", 101) }, "Items[0].Product", "Product name cannot exceed 100 characters."},
		{"zero quantity", func(c *CreateSaleCommand) { c.Items[0].Quantity = 0 }, "Items[0].Quantity", "Quantity must be greater than 0."},
		{"negative price", func(c *CreateSaleCommand) { c.Items[0].UnitPrice = decimal.NewFromInt(-1) }, "Items[0].UnitPrice", "Unit price must be greater than 0."},
	}

	assert.True(t, validCreateCommand().Validate().IsValid)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreateCommand()
			tt.mutate(&cmd)

			result := cmd.Validate()

			assert.False(t, result.IsValid)
			assert.Equal(t, tt.message, result.FieldMap()[tt.field])
		})
	}
}

func TestUpdateSaleCommandValidate(t *testing.T) {
	cancelled := true
	valid := UpdateSaleCommand{ID: uuid.New(), SaleNumber: "S-1", Customer: "C", Branch: "B", IsCancelled: &cancelled}
	assert.True(t, valid.Validate().IsValid)

	result := UpdateSaleCommand{}.Validate()

	assert.False(t, result.IsValid)
	assert.Equal(t, map[string]string{
		"Id":          "Sale ID is required.",
		"SaleNumber":  "Sale number is required.",
		"Customer":    "Customer is required.",
		"Branch":      "Branch is required.",
		"IsCancelled": "IsCancelled is required.",
	}, result.FieldMap())
}

func TestIDCommandsValidate(t *testing.T) {
	assert.True(t, DeleteSaleCommand{}.Validate().HasMessage("Sale ID is required."))
	assert.True(t, CancelSaleCommand{}.Validate().HasMessage("Sale ID is required."))
	assert.True(t, GetSaleQuery{}.Validate().HasMessage("Sale ID is required."))
	assert.True(t, DeleteSaleCommand{ID: uuid.New()}.Validate().IsValid)

	result := CancelItemCommand{SaleID: uuid.New()}.Validate()
	assert.Equal(t, []string{"Item ID is required."}, result.Messages())

	assert.True(t, ListSaleItemsQuery{}.Validate().HasMessage("Sale ID is required."))
	result = GetSaleItemQuery{SaleID: uuid.New()}.Validate()
	assert.Equal(t, []string{"Item ID is required."}, result.Messages())
}

func TestToSaleDTOsSkipsNil(t *testing.T) {
	assert.Nil(t, ToSaleDTO(nil))
	assert.Empty(t, ToSaleDTOs(nil))
	assert.Empty(t, ToSaleItemDTOs(nil))
}
