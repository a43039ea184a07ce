package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"jargas/internal/domain"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/infrastructure/storage/postgres"
)

// StockOutRepo implements stock_out.Repository.
type StockOutRepo struct {
	baseDocumentRepo[stock_out.StockOut]
}

// NewStockOutRepo creates a stock-out repository.
func NewStockOutRepo(db postgres.QuerierProvider) *StockOutRepo {
	return &StockOutRepo{newBaseDocumentRepo[stock_out.StockOut](db, "stock_out", listSpec{
		dateCol:    "tanggal_keluar",
		searchCols: []string{"nomor_barang_keluar", "keterangan"},
		orderCols:  []string{"id", "nomor_barang_keluar", "tanggal_keluar", "quantity", "created_at"},
		defaultBy:  "tanggal_keluar DESC, id DESC",
	})}
}

func (r *StockOutRepo) Create(ctx context.Context, doc *stock_out.StockOut) error {
	return r.create(ctx, doc, &doc.BaseDocument)
}

func (r *StockOutRepo) GetByID(ctx context.Context, id int64) (*stock_out.StockOut, error) {
	return r.getByID(ctx, id)
}

func (r *StockOutRepo) GetForUpdate(ctx context.Context, id int64) (*stock_out.StockOut, error) {
	return r.getForUpdate(ctx, id)
}

func (r *StockOutRepo) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	return r.softDelete(ctx, id, actor)
}

func (r *StockOutRepo) List(ctx context.Context, f stock_out.ListFilter) (domain.ListResult[*stock_out.StockOut], error) {
	q := r.listQuery(f.ProjectID, f.ListFilter)
	if f.MandorID != nil {
		q = q.Where(squirrel.Eq{"mandor_id": *f.MandorID})
	}
	if f.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *f.MaterialID})
	}
	return r.selectPage(ctx, q, f.ListFilter)
}

const hasActiveDependentsSQL = `
	SELECT EXISTS (
		SELECT 1 FROM installed WHERE stock_out_id = $1 AND is_deleted = 0
	) OR EXISTS (
		SELECT 1 FROM returns WHERE source_stock_out_id = $1 AND is_deleted = 0
	)`

func (r *StockOutRepo) HasActiveDependents(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetQuerier(ctx).QueryRow(ctx, hasActiveDependentsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check stock_out dependents: %w", err)
	}
	return exists, nil
}

var _ stock_out.Repository = (*StockOutRepo)(nil)
