// Package document_repo provides PostgreSQL implementations of the ledger
// document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/domain"
	"jargas/internal/infrastructure/storage/postgres"
)

// listSpec describes how a table is listed.
type listSpec struct {
	dateCol    string
	searchCols []string
	orderCols  []string
	defaultBy  string
}

// baseDocumentRepo provides the CRUD shared by ledger tables.
type baseDocumentRepo[T any] struct {
	db         postgres.QuerierProvider
	tableName  string
	selectCols []string
	list       listSpec
}

func newBaseDocumentRepo[T any](db postgres.QuerierProvider, tableName string, list listSpec) baseDocumentRepo[T] {
	return baseDocumentRepo[T]{
		db:         db,
		tableName:  tableName,
		selectCols: postgres.DBColumns[T](),
		list:       list,
	}
}

func (r *baseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *baseDocumentRepo[T]) insertQuery(doc any) squirrel.InsertBuilder {
	return postgres.Builder().
		Insert(r.tableName).
		SetMap(postgres.ColumnValues(doc, "id", "created_at", "updated_at", "deleted_by")).
		Suffix("RETURNING id, created_at, updated_at")
}

// create inserts doc and copies the generated columns into base.
func (r *baseDocumentRepo[T]) create(ctx context.Context, doc any, base *entity.BaseDocument) error {
	sql, args, err := r.insertQuery(doc).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	row := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...)
	if err := row.Scan(&base.ID, &base.CreatedAt, &base.UpdatedAt); err != nil {
		return postgres.MapError(fmt.Errorf("insert %s: %w", r.tableName, err), r.tableName)
	}
	return nil
}

func (r *baseDocumentRepo[T]) get(ctx context.Context, id int64, forUpdate bool) (*T, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc T
	if err := pgxscan.Get(ctx, r.db.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, id)
		}
		return nil, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return &doc, nil
}

// getByID returns the row with id, soft-deleted rows included.
func (r *baseDocumentRepo[T]) getByID(ctx context.Context, id int64) (*T, error) {
	return r.get(ctx, id, false)
}

// getForUpdate is getByID holding a row lock until the transaction ends.
func (r *baseDocumentRepo[T]) getForUpdate(ctx context.Context, id int64) (*T, error) {
	return r.get(ctx, id, true)
}

func (r *baseDocumentRepo[T]) softDeleteQuery(id int64, actor *int64) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(r.tableName).
		Set("is_deleted", entity.Deleted).
		Set("deleted_by", actor).
		Set("updated_by", actor).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_deleted": entity.Active})
}

func (r *baseDocumentRepo[T]) softDelete(ctx context.Context, id int64, actor *int64) error {
	sql, args, err := r.softDeleteQuery(id, actor).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("delete %s: %w", r.tableName, err), r.tableName)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, id)
	}
	return nil
}

// listQuery applies the common filter to a project-scoped select.
func (r *baseDocumentRepo[T]) listQuery(projectID int64, f domain.ListFilter) squirrel.SelectBuilder {
	q := postgres.ApplyProjectScope(r.baseSelect(), "", &projectID)
	if !f.IncludeDeleted {
		q = postgres.NotDeleted(q, "")
	}
	if r.list.dateCol != "" {
		q = postgres.ApplyDateRange(q, r.list.dateCol, f.DateFrom, f.DateTo)
	}
	return postgres.ApplySearch(q, f.Search, r.list.searchCols...)
}

// selectPage counts q, then returns the requested ordered page.
func (r *baseDocumentRepo[T]) selectPage(ctx context.Context, q squirrel.SelectBuilder, f domain.ListFilter) (domain.ListResult[*T], error) {
	result := domain.ListResult[*T]{
		Items:  []*T{},
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	orderBy, err := postgres.ParseOrderBy(f.OrderBy, r.list.defaultBy, r.list.orderCols...)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.db.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}

	q = postgres.ApplyPage(q.OrderBy(orderBy), f.Limit, f.Offset)
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}
