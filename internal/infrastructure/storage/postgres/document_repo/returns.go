package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"jargas/internal/core/apperror"
	"jargas/internal/core/types"
	"jargas/internal/domain"
	"jargas/internal/domain/documents/returns"
	"jargas/internal/infrastructure/storage/postgres"
)

// ReturnRepo implements returns.Repository.
type ReturnRepo struct {
	baseDocumentRepo[returns.Return]
}

// NewReturnRepo creates a returns repository.
func NewReturnRepo(db postgres.QuerierProvider) *ReturnRepo {
	return &ReturnRepo{newBaseDocumentRepo[returns.Return](db, "returns", listSpec{
		dateCol:    "tanggal_kembali",
		searchCols: []string{"keterangan"},
		orderCols:  []string{"id", "tanggal_kembali", "quantity_kembali", "released_at", "created_at"},
		defaultBy:  "tanggal_kembali DESC, id DESC",
	})}
}

func (r *ReturnRepo) Create(ctx context.Context, doc *returns.Return) error {
	return r.create(ctx, doc, &doc.BaseDocument)
}

func (r *ReturnRepo) GetByID(ctx context.Context, id int64) (*returns.Return, error) {
	return r.getByID(ctx, id)
}

func (r *ReturnRepo) GetForUpdate(ctx context.Context, id int64) (*returns.Return, error) {
	return r.getForUpdate(ctx, id)
}

func (r *ReturnRepo) SoftDelete(ctx context.Context, id int64, actor *int64) error {
	return r.softDelete(ctx, id, actor)
}

func (r *ReturnRepo) List(ctx context.Context, f returns.ListFilter) (domain.ListResult[*returns.Return], error) {
	q := r.listQuery(f.ProjectID, f.ListFilter)
	if f.SourceStockOutID != nil {
		q = q.Where(squirrel.Eq{"source_stock_out_id": *f.SourceStockOutID})
	}
	if f.MandorID != nil {
		q = q.Where(squirrel.Eq{"mandor_id": *f.MandorID})
	}
	if f.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *f.MaterialID})
	}
	if f.IsReleased != nil {
		q = q.Where(squirrel.Eq{"is_released": *f.IsReleased})
	}
	return r.selectPage(ctx, q, f.ListFilter)
}

func (r *ReturnRepo) SumBySourceStockOut(ctx context.Context, stockOutID int64) (types.Quantity, error) {
	sql, args, err := sumQuery(r.tableName, "quantity_kembali", "source_stock_out_id", stockOutID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total types.Quantity
	if err := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum returns: %w", err)
	}
	return total, nil
}

func (r *ReturnRepo) saveReleaseQuery(doc *returns.Return) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(r.tableName).
		Set("is_released", true).
		Set("reissued_stock_out_id", doc.ReissuedStockOutID).
		Set("released_at", doc.ReleasedAt).
		Set("released_by", doc.ReleasedBy).
		Set("updated_by", doc.UpdatedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doc.ID, "is_released": false})
}

func (r *ReturnRepo) SaveRelease(ctx context.Context, doc *returns.Return) error {
	sql, args, err := r.saveReleaseQuery(doc).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("release return: %w", err), r.tableName)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewValidation("return already released").
			WithDetail("returnId", doc.ID)
	}
	return nil
}

var _ returns.Repository = (*ReturnRepo)(nil)
