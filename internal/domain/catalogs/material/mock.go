package material

import (
	"context"
	"slices"

	"jargas/internal/core/apperror"
)

// MockRepository is an in-memory Repository for service tests.
type MockRepository struct {
	Items []*Material
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Material, error) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("material", id)
}

func (m *MockRepository) ListActive(ctx context.Context, projectID int64) ([]*Material, error) {
	var out []*Material
	for _, it := range m.Items {
		if it.IsLive() && it.IsActive && it.ProjectID == projectID {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b *Material) int { return int(a.ID - b.ID) })
	return out, nil
}

var _ Repository = (*MockRepository)(nil)
