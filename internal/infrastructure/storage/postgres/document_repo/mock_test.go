package document_repo

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jargas/internal/infrastructure/storage/postgres"
)

type mockRow struct {
	values []any
	err    error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type mockQuerier struct {
	lastSQL  string
	lastArgs []any

	row     *mockRow
	tag     pgconn.CommandTag
	execErr error
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.lastSQL, m.lastArgs = sql, args
	return m.tag, m.execErr
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.lastSQL, m.lastArgs = sql, args
	return m.row
}

type mockDB struct {
	q *mockQuerier
}

func (d mockDB) GetQuerier(ctx context.Context) postgres.Querier {
	return d.q
}
