package letter

import (
	"context"

	"jargas/internal/domain"
)

// Repository defines operations for letters.
type Repository interface {
	Create(ctx context.Context, doc *Letter) error
	GetByID(ctx context.Context, id int64) (*Letter, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Letter], error)
}

// ListFilter for filtering letters.
type ListFilter struct {
	domain.ListFilter

	ProjectID int64
	Kind      *Kind
}
