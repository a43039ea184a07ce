package stock_out

import (
	"context"

	"jargas/internal/domain"
)

// Repository defines operations for stock-out documents.
type Repository interface {
	// Create inserts doc and fills ID, CreatedAt and UpdatedAt. A taken
	// number surfaces as apperror DUPLICATE_ENTRY.
	Create(ctx context.Context, doc *StockOut) error

	// GetByID and GetForUpdate return soft-deleted rows too; callers decide.
	GetByID(ctx context.Context, id int64) (*StockOut, error)
	GetForUpdate(ctx context.Context, id int64) (*StockOut, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error)

	SoftDelete(ctx context.Context, id int64, actor *int64) error

	// HasActiveDependents reports live Installed or Return rows referencing id.
	HasActiveDependents(ctx context.Context, id int64) (bool, error)
}

// ListFilter for filtering stock-outs.
type ListFilter struct {
	domain.ListFilter

	ProjectID  int64
	MandorID   *int64
	MaterialID *int64
}
