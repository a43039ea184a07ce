package stock

import (
	"context"

	"jargas/internal/core/types"
)

// Repository aggregates the ledger streams. Every Sum* method issues one
// grouped query for the whole page of materials and omits materials with no rows.
type Repository interface {
	// MatchMaterials returns the page of non-deleted materials matching f.
	MatchMaterials(ctx context.Context, f BalanceFilter) ([]MaterialRef, error)

	SumStockIn(ctx context.Context, materialIDs []int64, f BalanceFilter) (map[int64]types.Quantity, error)
	SumStockOut(ctx context.Context, materialIDs []int64, f BalanceFilter) (map[int64]types.Quantity, error)
	SumInstalled(ctx context.Context, materialIDs []int64, f BalanceFilter) (map[int64]types.Quantity, error)
	SumReturns(ctx context.Context, materialIDs []int64, f BalanceFilter) (map[int64]ReturnTotals, error)
}

// SnapshotCache stores computed pages. Implementations are best-effort:
// failures are logged and treated as a miss.
//
// Load returns a stamp naming the cache generation it looked at. Store only
// keeps snapshots under that stamp, so a page computed before an
// invalidation is never served after it.
type SnapshotCache interface {
	Invalidator
	Load(ctx context.Context, f BalanceFilter) (snapshots []BalanceSnapshot, stamp string, hit bool)
	Store(ctx context.Context, f BalanceFilter, stamp string, snapshots []BalanceSnapshot)
}

// Invalidator is notified after every committed ledger write of a project.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID int64)
}

// NoopCache disables snapshot caching.
type NoopCache struct{}

func (NoopCache) Invalidate(context.Context, int64) {}

func (NoopCache) Load(context.Context, BalanceFilter) ([]BalanceSnapshot, string, bool) {
	return nil, "", false
}

func (NoopCache) Store(context.Context, BalanceFilter, string, []BalanceSnapshot) {}

var _ SnapshotCache = NoopCache{}
