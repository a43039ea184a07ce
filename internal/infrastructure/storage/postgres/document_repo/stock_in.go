package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"jargas/internal/domain"
	"jargas/internal/domain/documents/stock_in"
	"jargas/internal/infrastructure/storage/postgres"
)

// StockInRepo implements stock_in.Repository.
type StockInRepo struct {
	baseDocumentRepo[stock_in.StockIn]
}

// NewStockInRepo creates a stock-in repository.
func NewStockInRepo(db postgres.QuerierProvider) *StockInRepo {
	return &StockInRepo{newBaseDocumentRepo[stock_in.StockIn](db, "stock_in", listSpec{
		dateCol:    "tanggal_masuk",
		searchCols: []string{"nomor_invoice", "supplier", "keterangan"},
		orderCols:  []string{"id", "tanggal_masuk", "quantity", "created_at"},
		defaultBy:  "tanggal_masuk DESC, id DESC",
	})}
}

func (r *StockInRepo) Create(ctx context.Context, doc *stock_in.StockIn) error {
	return r.create(ctx, doc, &doc.BaseDocument)
}

func (r *StockInRepo) GetByID(ctx context.Context, id int64) (*stock_in.StockIn, error) {
	return r.getByID(ctx, id)
}

func (r *StockInRepo) GetForUpdate(ctx context.Context, id int64) (*stock_in.StockIn, error) {
	return r.getForUpdate(ctx, id)
}

func (r *StockInRepo) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	return r.softDelete(ctx, id, actor)
}

func (r *StockInRepo) List(ctx context.Context, f stock_in.ListFilter) (domain.ListResult[*stock_in.StockIn], error) {
	q := r.listQuery(f.ProjectID, f.ListFilter)
	if f.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *f.MaterialID})
	}
	return r.selectPage(ctx, q, f.ListFilter)
}

var _ stock_in.Repository = (*StockInRepo)(nil)
