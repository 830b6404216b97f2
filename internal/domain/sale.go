package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambev-sales/sales-service/internal/validation"
)

// now is the aggregate clock
var now = func() time.Time { return time.Now().UTC() }

// Sale is the aggregate root for the sales bounded context
type Sale struct {
	ID          uuid.UUID       `json:"id"`
	SaleNumber  string          `json:"saleNumber"`
	SaleDate    time.Time       `json:"saleDate"`
	Customer    string          `json:"customer"`
	Branch      string          `json:"branch"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsCancelled bool            `json:"isCancelled"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	Items       []*SaleItem     `json:"items"`
}

// NewSale creates an empty, active sale with a fresh id
func NewSale(saleNumber, customer, branch string) *Sale {
	return &Sale{
		ID:          uuid.New(),
		SaleNumber:  saleNumber,
		Customer:    customer,
		Branch:      branch,
		TotalAmount: decimal.Zero,
		Items:       []*SaleItem{},
	}
}

// CreateSaleDate stamps SaleDate and CreatedAt with the current time
func (s *Sale) CreateSaleDate() {
	t := now()
	s.SaleDate = t
	s.CreatedAt = t
}

// CalculateTotalAmount re-applies the discount to every item, cancelled ones
// included, and sums the totals of the active items.
func (s *Sale) CalculateTotalAmount() error {
	total := decimal.Zero
	for _, item := range s.Items {
		if err := item.ApplyDiscount(); err != nil {
			return err
		}
		if !item.IsCancelled {
			total = total.Add(item.TotalAmount)
		}
	}
	s.TotalAmount = total
	return nil
}

// AddItem appends item to the sale and recalculates the total. An item whose
// quantity is above the limit is rejected and the sale is left untouched.
func (s *Sale) AddItem(item *SaleItem) error {
	if _, err := DiscountRate(item.Quantity); err != nil {
		return err
	}

	item.SaleID = s.ID
	s.Items = append(s.Items, item)
	if err := s.CalculateTotalAmount(); err != nil {
		return err
	}
	s.touch()
	return nil
}

// FindItem returns the item with id, if the sale holds it
func (s *Sale) FindItem(id uuid.UUID) (*SaleItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// CancelItem cancels the item and drops it from the sale. The sale is
// cancelled once no active item remains.
func (s *Sale) CancelItem(itemID uuid.UUID) error {
	idx := -1
	for i, item := range s.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}

	s.Items[idx].Cancel()
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)

	if err := s.CalculateTotalAmount(); err != nil {
		return err
	}
	s.touch()

	if s.allItemsCancelled() {
		s.IsCancelled = true
	}
	return nil
}

func (s *Sale) allItemsCancelled() bool {
	for _, item := range s.Items {
		if !item.IsCancelled {
			return false
		}
	}
	return true
}

// CancelSale sets the cancelled flag. Passing false reactivates the sale.
func (s *Sale) CancelSale(isCancelled bool) {
	s.IsCancelled = isCancelled
	s.touch()
}

// UpdateHeader replaces the header fields and stamps UpdatedAt
func (s *Sale) UpdateHeader(saleNumber, customer, branch string) {
	s.SaleNumber = saleNumber
	s.Customer = customer
	s.Branch = branch
	s.touch()
}

func (s *Sale) touch() {
	t := now()
	s.UpdatedAt = &t
}

// Snapshot returns a deep copy safe to hand to event consumers
func (s *Sale) Snapshot() Sale {
	cp := *s
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		cp.UpdatedAt = &t
	}
	cp.Items = make([]*SaleItem, len(s.Items))
	for i, item := range s.Items {
		it := *item
		cp.Items[i] = &it
	}
	return cp
}

// Validate runs the sale rules, items included
func (s *Sale) Validate() validation.Result {
	return saleRules().Validate(s)
}
