package discrepancy

import (
	"context"

	"jargas/internal/core/types"
	"jargas/internal/domain"
)

// Repository reads pair totals and owns the notifications table.
// Each Sum* method is one grouped query over the whole project.
type Repository interface {
	// LockProject serializes reconciliation passes of one project until the transaction ends.
	LockProject(ctx context.Context, projectID int64) error

	// SumIssuedByPair excludes stock-outs referenced as reissued by released returns.
	SumIssuedByPair(ctx context.Context, projectID int64) (map[Pair]types.Quantity, error)
	SumInstalledByPair(ctx context.Context, projectID int64) (map[Pair]types.Quantity, error)
	// SumPendingReturnsByPair counts non-deleted returns not yet released.
	SumPendingReturnsByPair(ctx context.Context, projectID int64) (map[Pair]types.Quantity, error)

	ListByProject(ctx context.Context, projectID int64) ([]Notification, error)
	Insert(ctx context.Context, rows []Notification) error
	// Update writes the body columns only.
	Update(ctx context.Context, rows []Notification) error
	Delete(ctx context.Context, projectID int64, ids []int64) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Notification], error)
	// MarkRead sets is_read on the given notifications of a project and returns the rows touched.
	MarkRead(ctx context.Context, projectID int64, ids []int64) (int64, error)
}

// ListFilter for listing notifications.
type ListFilter struct {
	domain.ListFilter

	ProjectID  int64
	UnreadOnly bool
	MandorID   *int64
}
