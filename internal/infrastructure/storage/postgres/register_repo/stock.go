// Package register_repo provides the PostgreSQL aggregations behind balances
// and discrepancy checks, and the notifications store.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"jargas/internal/core/types"
	"jargas/internal/domain/registers/stock"
	"jargas/internal/infrastructure/storage/postgres"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	db postgres.QuerierProvider
}

// NewStockRepo creates a balance aggregation repository.
func NewStockRepo(db postgres.QuerierProvider) *StockRepo {
	return &StockRepo{db: db}
}

type materialTotal struct {
	MaterialID int64          `db:"material_id"`
	Total      types.Quantity `db:"total"`
}

type materialReturnTotals struct {
	MaterialID int64 `db:"material_id"`
	stock.ReturnTotals
}

func (r *StockRepo) matchQuery(f stock.BalanceFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select("id", "project_id", "kode_barang", "nama_barang", "satuan").
		From("material")
	q = postgres.NotDeleted(q, "")
	q = postgres.ApplyProjectScope(q, "", f.ProjectID)
	if len(f.MaterialIDs) > 0 {
		q = q.Where(squirrel.Eq{"id": f.MaterialIDs})
	}
	q = postgres.ApplySearch(q, f.Search, "nama_barang", "kode_barang")
	return postgres.ApplyPage(q.OrderBy("nama_barang", "id"), f.Limit, f.Offset)
}

func (r *StockRepo) MatchMaterials(ctx context.Context, f stock.BalanceFilter) ([]stock.MaterialRef, error) {
	sql, args, err := r.matchQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []stock.MaterialRef
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}
	return refs, nil
}

// streamQuery groups one ledger table by material for the page of ids.
// dateCol may be empty for streams the date filter does not apply to.
func streamQuery(table, sumExpr, dateCol string, ids []int64, f stock.BalanceFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select("material_id", sumExpr).
		From(table).
		Where(squirrel.Eq{"material_id": ids})
	q = postgres.NotDeleted(q, "")
	q = postgres.ApplyProjectScope(q, "", f.ProjectID)
	if dateCol != "" {
		q = postgres.ApplyDateRange(q, dateCol, f.DateFrom, f.DateTo)
	}
	return q.GroupBy("material_id")
}

func (r *StockRepo) sumStream(ctx context.Context, q squirrel.SelectBuilder) (map[int64]types.Quantity, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []materialTotal
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, err
	}

	totals := make(map[int64]types.Quantity, len(rows))
	for _, row := range rows {
		totals[row.MaterialID] = row.Total
	}
	return totals, nil
}

const sumQuantity = "COALESCE(SUM(quantity), 0) AS total"

func (r *StockRepo) SumStockIn(ctx context.Context, ids []int64, f stock.BalanceFilter) (map[int64]types.Quantity, error) {
	return r.sumStream(ctx, streamQuery("stock_in", sumQuantity, "tanggal_masuk", ids, f))
}

func (r *StockRepo) SumStockOut(ctx context.Context, ids []int64, f stock.BalanceFilter) (map[int64]types.Quantity, error) {
	return r.sumStream(ctx, streamQuery("stock_out", sumQuantity, "tanggal_keluar", ids, f))
}

func (r *StockRepo) SumInstalled(ctx context.Context, ids []int64, f stock.BalanceFilter) (map[int64]types.Quantity, error) {
	return r.sumStream(ctx, streamQuery("installed", sumQuantity, "", ids, f))
}

const sumReturnColumns = `COALESCE(SUM(quantity_kembali) FILTER (WHERE NOT is_released), 0) AS total_kembali, ` +
	`COALESCE(SUM(quantity_kembali) FILTER (WHERE is_released), 0) AS total_retur_keluar, ` +
	`COALESCE(SUM(quantity_kondisi_baik), 0) AS total_kondisi_baik, ` +
	`COALESCE(SUM(quantity_kondisi_reject), 0) AS total_kondisi_reject`

func (r *StockRepo) SumReturns(ctx context.Context, ids []int64, f stock.BalanceFilter) (map[int64]stock.ReturnTotals, error) {
	sql, args, err := streamQuery("returns", sumReturnColumns, "", ids, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []materialReturnTotals
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, err
	}

	totals := make(map[int64]stock.ReturnTotals, len(rows))
	for _, row := range rows {
		totals[row.MaterialID] = row.ReturnTotals
	}
	return totals, nil
}

var _ stock.Repository = (*StockRepo)(nil)
