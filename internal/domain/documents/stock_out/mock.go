package stock_out

import (
	"context"
	"sync"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/domain"
)

// MockRepository is an in-memory Repository for service tests. Numbers are
// unique across all rows, deleted ones included.
type MockRepository struct {
	mu      sync.Mutex
	rows    map[int64]*StockOut
	numbers map[string]bool
	nextID  int64

	// Dependents marks stock-outs referenced by live Installed or Return rows.
	Dependents map[int64]bool
}

// NewMockRepository creates an empty MockRepository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows:       make(map[int64]*StockOut),
		numbers:    make(map[string]bool),
		Dependents: make(map[int64]bool),
	}
}

// Put stores doc as-is, assigning an ID when it has none.
func (m *MockRepository) Put(doc *StockOut) *StockOut {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == 0 {
		m.nextID++
		doc.ID = m.nextID
	} else if doc.ID > m.nextID {
		m.nextID = doc.ID
	}
	cp := *doc
	m.rows[doc.ID] = &cp
	if doc.NomorBarangKeluar != "" {
		m.numbers[doc.NomorBarangKeluar] = true
	}
	return doc
}

// All returns copies of every stored row ordered by ID.
func (m *MockRepository) All() []StockOut {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StockOut, 0, len(m.rows))
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.rows[id]; ok {
			out = append(out, *r)
		}
	}
	return out
}

func (m *MockRepository) Create(ctx context.Context, doc *StockOut) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.numbers[doc.NomorBarangKeluar] {
		return apperror.NewDuplicate("stock_out", "uq_stock_out_nomor")
	}
	m.nextID++
	doc.ID = m.nextID
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	m.rows[doc.ID] = &cp
	m.numbers[doc.NomorBarangKeluar] = true
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*StockOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, apperror.NewNotFound(entityName, id)
	}
	cp := *r
	return &cp, nil
}

func (m *MockRepository) GetForUpdate(ctx context.Context, id int64) (*StockOut, error) {
	return m.GetByID(ctx, id)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error) {
	res := domain.ListResult[*StockOut]{Items: []*StockOut{}, Limit: filter.Limit, Offset: filter.Offset}
	for _, r := range m.All() {
		if r.ProjectID != filter.ProjectID || (!filter.IncludeDeleted && !r.IsLive()) {
			continue
		}
		res.Items = append(res.Items, &r)
	}
	res.TotalCount = int64(len(res.Items))
	return res, nil
}

func (m *MockRepository) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.IsDeleted == entity.Deleted {
		return apperror.NewNotFound(entityName, id)
	}
	r.MarkDeleted(actor)
	return nil
}

func (m *MockRepository) HasActiveDependents(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dependents[id], nil
}

var _ Repository = (*MockRepository)(nil)
