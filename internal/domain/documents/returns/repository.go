package returns

import (
	"context"

	"jargas/internal/core/types"
	"jargas/internal/domain"
)

// Repository defines operations for returns.
type Repository interface {
	Create(ctx context.Context, doc *Return) error
	GetByID(ctx context.Context, id int64) (*Return, error)
	GetForUpdate(ctx context.Context, id int64) (*Return, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error)
	SoftDelete(ctx context.Context, id int64, actor *int64) error

	// SumBySourceStockOut sums non-deleted returns of one stock-out, released or not.
	SumBySourceStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error)

	// SaveRelease persists the release columns. It only updates a row that is
	// not released yet and reports a validation error otherwise.
	SaveRelease(ctx context.Context, doc *Return) error
}

// InstalledQuantities is the installed-side total the return bound needs.
type InstalledQuantities interface {
	SumByStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error)
}

// ListFilter for filtering returns.
type ListFilter struct {
	domain.ListFilter

	ProjectID        int64
	SourceStockOutID *int64
	MandorID         *int64
	MaterialID       *int64
	IsReleased       *bool
}
