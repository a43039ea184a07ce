package stock

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"jargas/internal/core/tx"
	"jargas/internal/core/types"
)

var tracer = otel.Tracer("jargas/stock")

// Service computes balance snapshots.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
	cache     SnapshotCache
}

// NewService creates a balance service. A nil cache disables caching.
func NewService(repo Repository, txManager tx.ReadOnlyManager, cache SnapshotCache) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		cache:     cache,
	}
}

// GetBalance returns one snapshot per material matched by f, in the order
// the materials were matched.
func (s *Service) GetBalance(ctx context.Context, f BalanceFilter) ([]BalanceSnapshot, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "stock.GetBalance", trace.WithAttributes(
		attribute.Int("filter.material_ids", len(f.MaterialIDs)),
		attribute.Bool("filter.project_scoped", f.ProjectID != nil),
	))
	defer span.End()

	cached, stamp, hit := s.cache.Load(ctx, f)
	if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	var snapshots []BalanceSnapshot
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		refs, err := s.repo.MatchMaterials(ctx, f)
		if err != nil {
			return fmt.Errorf("match materials: %w", err)
		}
		if len(refs) == 0 {
			snapshots = []BalanceSnapshot{}
			return nil
		}

		ids := make([]int64, len(refs))
		for i, ref := range refs {
			ids[i] = ref.ID
		}

		in, err := s.repo.SumStockIn(ctx, ids, f)
		if err != nil {
			return fmt.Errorf("sum stock in: %w", err)
		}
		out, err := s.repo.SumStockOut(ctx, ids, f)
		if err != nil {
			return fmt.Errorf("sum stock out: %w", err)
		}
		installed, err := s.repo.SumInstalled(ctx, ids, f)
		if err != nil {
			return fmt.Errorf("sum installed: %w", err)
		}
		returns, err := s.repo.SumReturns(ctx, ids, f)
		if err != nil {
			return fmt.Errorf("sum returns: %w", err)
		}

		snapshots = make([]BalanceSnapshot, len(refs))
		for i, ref := range refs {
			snapshots[i] = ComputeSnapshot(ref, StreamTotals{
				In:        in[ref.ID],
				Out:       out[ref.ID],
				Terpasang: installed[ref.ID],
				Returns:   returns[ref.ID],
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cache.Store(ctx, f, stamp, snapshots)
	return snapshots, nil
}

// GetMaterialBalance returns the snapshot of a single material.
func (s *Service) GetMaterialBalance(ctx context.Context, materialID int64, projectID *int64) (BalanceSnapshot, bool, error) {
	snaps, err := s.GetBalance(ctx, BalanceFilter{
		MaterialIDs: []int64{materialID},
		ProjectID:   projectID,
		Limit:       1,
	})
	if err != nil || len(snaps) == 0 {
		return BalanceSnapshot{}, false, err
	}
	return snaps[0], true, nil
}

// TotalCurrentStock sums current_stock over snapshots.
func TotalCurrentStock(snapshots []BalanceSnapshot) types.Quantity {
	var total types.Quantity
	for _, s := range snapshots {
		total += s.CurrentStock
	}
	return total
}
