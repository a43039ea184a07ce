package numerator

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "jargas/internal/core/numerator"
	"jargas/internal/infrastructure/storage/postgres"
)

type scriptedRow struct {
	value int64
	err   error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	reflect.ValueOf(dest[0]).Elem().SetInt(r.value)
	return nil
}

// scriptedQuerier answers QueryRow calls in order.
type scriptedQuerier struct {
	rows  []scriptedRow
	calls []string
	args  [][]any
}

func (q *scriptedQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected Exec")
}

func (q *scriptedQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (q *scriptedQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, sql)
	q.args = append(q.args, args)
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

type scriptedDB struct{ q *scriptedQuerier }

func (d scriptedDB) GetQuerier(ctx context.Context) postgres.Querier { return d.q }

var day = time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

func TestService_CounterExistingKey(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{{value: 8}}}
	svc := New(scriptedDB{q: q}, corenumerator.StrategyCounter)

	got, err := svc.NextNumber(context.Background(), corenumerator.StockOutConfig(), corenumerator.Scope{Date: day})
	require.NoError(t, err)
	assert.Equal(t, "JRGS-KDL-20250203-0008", got)
	require.Len(t, q.calls, 1)
	assert.Equal(t, bumpCounterSQL, q.calls[0])
	assert.Equal(t, []any{"stock_out:20250203"}, q.args[0])
}

func TestService_CounterSeedsFromIssuedNumbers(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		{err: pgx.ErrNoRows},
		{value: 12},
		{value: 13},
	}}
	svc := New(scriptedDB{q: q}, corenumerator.StrategyCounter)

	scope := corenumerator.Scope{ProjectCode: "PRJ", Date: day}
	got, err := svc.NextNumber(context.Background(), corenumerator.RequestLetterConfig(), scope)
	require.NoError(t, err)
	assert.Equal(t, "JRGS-PRJ-20250203-0013", got)

	require.Len(t, q.calls, 3)
	assert.Equal(t,
		`SELECT COALESCE(MAX(substring("nomor" from $1)::bigint), 0) FROM "letters" WHERE "nomor" ~ $1`,
		q.calls[1])
	assert.Equal(t, []any{"^JRGS-PRJ-[0-9]{8}-([0-9]+)$"}, q.args[1])
	assert.Equal(t, seedCounterSQL, q.calls[2])
	assert.Equal(t, []any{"request_letter:PRJ", int64(13)}, q.args[2])
}

func TestService_ScanStrategy(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{{value: 0}}}
	svc := New(scriptedDB{q: q}, corenumerator.StrategyScan)

	got, err := svc.NextNumber(context.Background(), corenumerator.StockOutConfig(), corenumerator.Scope{Date: day})
	require.NoError(t, err)
	assert.Equal(t, "JRGS-KDL-20250203-0001", got)
	require.Len(t, q.calls, 1)
}

func TestService_ErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	q := &scriptedQuerier{rows: []scriptedRow{{err: boom}}}
	svc := New(scriptedDB{q: q}, corenumerator.StrategyCounter)

	_, err := svc.NextNumber(context.Background(), corenumerator.StockOutConfig(), corenumerator.Scope{Date: day})
	assert.ErrorIs(t, err, boom)
}

func TestService_RejectsIncompleteScope(t *testing.T) {
	svc := New(scriptedDB{q: &scriptedQuerier{}}, corenumerator.StrategyCounter)

	_, err := svc.NextNumber(context.Background(), corenumerator.DeliveryLetterConfig(), corenumerator.Scope{Date: day})
	assert.Error(t, err)
}
