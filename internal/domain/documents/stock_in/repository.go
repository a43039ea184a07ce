package stock_in

import (
	"context"

	"jargas/internal/domain"
)

// Repository defines operations for stock-in documents.
type Repository interface {
	Create(ctx context.Context, doc *StockIn) error
	GetByID(ctx context.Context, id int64) (*StockIn, error)
	GetForUpdate(ctx context.Context, id int64) (*StockIn, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockIn], error)
	SoftDelete(ctx context.Context, id int64, actor *int64) error
}

// ListFilter for filtering stock-ins.
type ListFilter struct {
	domain.ListFilter

	ProjectID  int64
	MaterialID *int64
}
