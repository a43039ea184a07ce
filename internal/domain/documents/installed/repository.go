package installed

import (
	"context"

	"jargas/internal/core/types"
	"jargas/internal/domain"
)

// Repository defines operations for installed records.
type Repository interface {
	Create(ctx context.Context, doc *Installed) error
	GetByID(ctx context.Context, id int64) (*Installed, error)
	GetForUpdate(ctx context.Context, id int64) (*Installed, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Installed], error)
	SoftDelete(ctx context.Context, id int64, actor *int64) error

	// SumByStockOut sums non-deleted installed quantity drawn from one stock-out.
	SumByStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error)
}

// ReturnedQuantities is the return-side total the installation bound needs.
type ReturnedQuantities interface {
	// SumBySourceStockOut sums non-deleted returns of one stock-out, released or not.
	SumBySourceStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error)
}

// ListFilter for filtering installed records.
type ListFilter struct {
	domain.ListFilter

	ProjectID  int64
	StockOutID *int64
	MandorID   *int64
	MaterialID *int64
}
