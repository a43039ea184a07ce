// Package catalog_repo provides PostgreSQL implementations of the read-only
// catalog repositories (project, material, mandor).
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"jargas/internal/core/apperror"
	"jargas/internal/infrastructure/storage/postgres"
)

// baseCatalogRepo provides lookups shared by the catalog repositories.
type baseCatalogRepo[T any] struct {
	db         postgres.QuerierProvider
	tableName  string
	selectCols []string
}

func newBaseCatalogRepo[T any](db postgres.QuerierProvider, tableName string) baseCatalogRepo[T] {
	return baseCatalogRepo[T]{
		db:         db,
		tableName:  tableName,
		selectCols: postgres.DBColumns[T](),
	}
}

func (r *baseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// getByID returns the row with id, soft-deleted rows included.
func (r *baseCatalogRepo[T]) getByID(ctx context.Context, id int64) (*T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item T
	if err := pgxscan.Get(ctx, r.db.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, id)
		}
		return nil, fmt.Errorf("get %s by id: %w", r.tableName, err)
	}
	return &item, nil
}

func (r *baseCatalogRepo[T]) activeQuery(where squirrel.Sqlizer) squirrel.SelectBuilder {
	q := postgres.NotDeleted(r.baseSelect(), "").
		Where(squirrel.Eq{"is_active": true})
	if where != nil {
		q = q.Where(where)
	}
	return q.OrderBy("id")
}

// selectActive returns live, active rows matching where, ordered by id.
func (r *baseCatalogRepo[T]) selectActive(ctx context.Context, where squirrel.Sqlizer) ([]*T, error) {
	sql, args, err := r.activeQuery(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*T
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return items, nil
}
