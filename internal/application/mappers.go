package application

import (
	"github.com/ambev-sales/sales-service/internal/domain"
)

// ToSaleDTO converts a domain Sale to SaleDTO
func ToSaleDTO(sale *domain.Sale) *SaleDTO {
	if sale == nil {
		return nil
	}

	items := make([]SaleItemDTO, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, *ToSaleItemDTO(item))
	}

	return &SaleDTO{
		ID:          sale.ID.String(),
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

// ToSaleItemDTO converts a domain SaleItem to SaleItemDTO
func ToSaleItemDTO(item *domain.SaleItem) *SaleItemDTO {
	if item == nil {
		return nil
	}
	return &SaleItemDTO{
		ID:          item.ID.String(),
		SaleID:      item.SaleID.String(),
		Product:     item.Product,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Discount:    item.Discount,
		TotalAmount: item.TotalAmount,
		IsCancelled: item.IsCancelled,
	}
}

// ToSaleDTOs converts a list of sales
func ToSaleDTOs(sales []*domain.Sale) []SaleDTO {
	dtos := make([]SaleDTO, 0, len(sales))
	for _, sale := range sales {
		if sale == nil {
			continue
		}
		dtos = append(dtos, *ToSaleDTO(sale))
	}
	return dtos
}

// ToSaleItemDTOs converts a list of sale items
func ToSaleItemDTOs(items []*domain.SaleItem) []SaleItemDTO {
	dtos := make([]SaleItemDTO, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		dtos = append(dtos, *ToSaleItemDTO(item))
	}
	return dtos
}

// ToDomainSale builds a new sale aggregate from a create command. The sale
// and every item receive fresh ids.
func (c CreateSaleCommand) ToDomainSale() *domain.Sale {
	sale := domain.NewSale(c.SaleNumber, c.Customer, c.Branch)
	for _, in := range c.Items {
		sale.Items = append(sale.Items, domain.NewSaleItem(sale.ID, in.Product, in.Quantity, in.UnitPrice))
	}
	return sale
}
