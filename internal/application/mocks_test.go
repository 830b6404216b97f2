package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/pkg/logging"
)

// mockSaleRepo is a map-backed SaleRepository. Sales are stored as snapshots
// so the service cannot mutate stored state without calling Update.
type mockSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]domain.Sale

	createErr error
	getErr    error
	updateErr error
	deleteErr error

	updates int
}

func newMockSaleRepo(sales ...*domain.Sale) *mockSaleRepo {
	repo := &mockSaleRepo{sales: make(map[uuid.UUID]domain.Sale)}
	for _, s := range sales {
		repo.sales[s.ID] = s.Snapshot()
	}
	return repo
}

func (m *mockSaleRepo) Create(_ context.Context, sale *domain.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[sale.ID] = sale.Snapshot()
	return nil
}

func (m *mockSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sales[id]
	if !ok {
		return nil, nil
	}
	sale := stored.Snapshot()
	return &sale, nil
}

func (m *mockSaleRepo) List(_ context.Context) ([]*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sales := make([]*domain.Sale, 0, len(m.sales))
	for _, stored := range m.sales {
		sale := stored.Snapshot()
		sales = append(sales, &sale)
	}
	return sales, nil
}

func (m *mockSaleRepo) Update(_ context.Context, sale *domain.Sale) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.sales[sale.ID] = sale.Snapshot()
	return nil
}

func (m *mockSaleRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return false, nil
	}
	delete(m.sales, id)
	return true, nil
}

func (m *mockSaleRepo) stored(id uuid.UUID) (domain.Sale, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	return s, ok
}

// mockItemRepo reads items out of a mockSaleRepo
type mockItemRepo struct {
	sales *mockSaleRepo
}

func (m *mockItemRepo) Create(context.Context, *domain.SaleItem) error { return nil }

func (m *mockItemRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.SaleItem, error) {
	m.sales.mu.Lock()
	defer m.sales.mu.Unlock()
	for _, sale := range m.sales.sales {
		for _, item := range sale.Items {
			if item.ID == id {
				it := *item
				return &it, nil
			}
		}
	}
	return nil, nil
}

func (m *mockItemRepo) GetBySaleID(_ context.Context, saleID uuid.UUID) ([]*domain.SaleItem, error) {
	m.sales.mu.Lock()
	defer m.sales.mu.Unlock()
	sale, ok := m.sales.sales[saleID]
	if !ok {
		return []*domain.SaleItem{}, nil
	}
	return sale.Snapshot().Items, nil
}

func (m *mockItemRepo) Update(context.Context, *domain.SaleItem) error { return nil }

func (m *mockItemRepo) Delete(context.Context, uuid.UUID) (bool, error) { return false, nil }

type mockPublisher struct {
	events []domain.DomainEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.DomainEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockCache struct {
	sales       map[uuid.UUID]*domain.Sale
	invalidated []uuid.UUID
}

func newMockCache() *mockCache {
	return &mockCache{sales: make(map[uuid.UUID]*domain.Sale)}
}

func (m *mockCache) Get(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	return m.sales[id], nil
}

func (m *mockCache) Set(_ context.Context, sale *domain.Sale) error {
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, id uuid.UUID) error {
	delete(m.sales, id)
	m.invalidated = append(m.invalidated, id)
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}
