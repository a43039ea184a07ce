package mandor

import (
	"context"

	"jargas/internal/core/apperror"
)

// MockRepository is an in-memory Repository for service tests.
type MockRepository struct {
	Items []*Mandor
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Mandor, error) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("mandor", id)
}

func (m *MockRepository) ListVisible(ctx context.Context, projectID int64) ([]*Mandor, error) {
	var out []*Mandor
	for _, it := range m.Items {
		if it.IsLive() && it.IsActive && it.VisibleTo(projectID) {
			out = append(out, it)
		}
	}
	return out, nil
}

var _ Repository = (*MockRepository)(nil)
