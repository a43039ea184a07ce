package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"jargas/internal/core/types"
	"jargas/internal/domain"
	"jargas/internal/domain/documents/installed"
	"jargas/internal/infrastructure/storage/postgres"
)

// InstalledRepo implements installed.Repository.
type InstalledRepo struct {
	baseDocumentRepo[installed.Installed]
}

// NewInstalledRepo creates an installed repository.
func NewInstalledRepo(db postgres.QuerierProvider) *InstalledRepo {
	return &InstalledRepo{newBaseDocumentRepo[installed.Installed](db, "installed", listSpec{
		dateCol:    "tanggal_pasang",
		searchCols: []string{"lokasi", "keterangan"},
		orderCols:  []string{"id", "tanggal_pasang", "quantity", "created_at"},
		defaultBy:  "tanggal_pasang DESC, id DESC",
	})}
}

func (r *InstalledRepo) Create(ctx context.Context, doc *installed.Installed) error {
	return r.create(ctx, doc, &doc.BaseDocument)
}

func (r *InstalledRepo) GetByID(ctx context.Context, id int64) (*installed.Installed, error) {
	return r.getByID(ctx, id)
}

func (r *InstalledRepo) GetForUpdate(ctx context.Context, id int64) (*installed.Installed, error) {
	return r.getForUpdate(ctx, id)
}

func (r *InstalledRepo) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	return r.softDelete(ctx, id, actor)
}

func (r *InstalledRepo) List(ctx context.Context, f installed.ListFilter) (domain.ListResult[*installed.Installed], error) {
	q := r.listQuery(f.ProjectID, f.ListFilter)
	if f.StockOutID != nil {
		q = q.Where(squirrel.Eq{"stock_out_id": *f.StockOutID})
	}
	if f.MandorID != nil {
		q = q.Where(squirrel.Eq{"mandor_id": *f.MandorID})
	}
	if f.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *f.MaterialID})
	}
	return r.selectPage(ctx, q, f.ListFilter)
}

func sumQuery(table, column, refColumn string, refID int64) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).
		From(table).
		Where(squirrel.Eq{refColumn: refID})
	return postgres.NotDeleted(q, "")
}

func (r *InstalledRepo) SumByStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error) {
	sql, args, err := sumQuery(r.tableName, "quantity", "stock_out_id", stockOutID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total types.Quantity
	if err := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum installed: %w", err)
	}
	return total, nil
}

var _ installed.Repository = (*InstalledRepo)(nil)
