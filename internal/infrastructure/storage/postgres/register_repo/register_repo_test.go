package register_repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/entity"
	"jargas/internal/core/types"
	"jargas/internal/domain/discrepancy"
	"jargas/internal/domain/registers/stock"
	"jargas/internal/infrastructure/storage/postgres"
)

type execRecorder struct {
	sqls []string
	args [][]any
	tag  pgconn.CommandTag
}

func (e *execRecorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sqls = append(e.sqls, sql)
	e.args = append(e.args, args)
	return e.tag, nil
}

func (e *execRecorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}

func (e *execRecorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("unexpected QueryRow")
}

type recorderDB struct{ q *execRecorder }

func (d recorderDB) GetQuerier(ctx context.Context) postgres.Querier { return d.q }

func TestStockRepo_MatchQuery(t *testing.T) {
	project := int64(4)
	r := NewStockRepo(nil)

	sql, args, err := r.matchQuery(stock.BalanceFilter{
		MaterialIDs: []int64{1, 2},
		Search:      "pipa",
		ProjectID:   &project,
		Limit:       50,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, project_id, kode_barang, nama_barang, satuan FROM material"+
			" WHERE is_deleted = $1 AND project_id = $2 AND id IN ($3,$4)"+
			" AND (nama_barang ILIKE $5 OR kode_barang ILIKE $6)"+
			" ORDER BY nama_barang, id LIMIT 50",
		sql)
	assert.Equal(t, []any{entity.Active, project, int64(1), int64(2), "%pipa%", "%pipa%"}, args)
}

func TestStreamQuery_DateFilterOnlyWhereGiven(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f := stock.BalanceFilter{DateFrom: &from}

	sql, args, err := streamQuery("stock_out", sumQuantity, "tanggal_keluar", []int64{9}, f).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT material_id, COALESCE(SUM(quantity), 0) AS total FROM stock_out"+
			" WHERE material_id IN ($1) AND is_deleted = $2 AND tanggal_keluar >= $3 GROUP BY material_id",
		sql)
	assert.Equal(t, []any{int64(9), entity.Active, from}, args)

	sql, args, err = streamQuery("installed", sumQuantity, "", []int64{9}, f).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT material_id, COALESCE(SUM(quantity), 0) AS total FROM installed"+
			" WHERE material_id IN ($1) AND is_deleted = $2 GROUP BY material_id",
		sql)
	assert.Equal(t, []any{int64(9), entity.Active}, args)
}

func TestStreamQuery_ReturnsSplitByRelease(t *testing.T) {
	sql, _, err := streamQuery("returns", sumReturnColumns, "", []int64{9}, stock.BalanceFilter{}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SUM(quantity_kembali) FILTER (WHERE NOT is_released), 0) AS total_kembali")
	assert.Contains(t, sql, "SUM(quantity_kembali) FILTER (WHERE is_released), 0) AS total_retur_keluar")
	assert.Contains(t, sql, "FROM returns WHERE material_id IN ($1) AND is_deleted = $2 GROUP BY material_id")
}

func TestDiscrepancyRepo_IssuedQueryExcludesReissues(t *testing.T) {
	sql, args, err := issuedQuery(3).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT so.mandor_id, so.material_id, COALESCE(SUM(so.quantity), 0) AS total FROM stock_out so"+
			" WHERE so.is_deleted = $1 AND so.project_id = $2"+
			" AND NOT EXISTS (SELECT 1 FROM returns r WHERE r.reissued_stock_out_id = so.id AND r.is_released)"+
			" GROUP BY so.mandor_id, so.material_id",
		sql)
	assert.Equal(t, []any{entity.Active, int64(3)}, args)
}

func TestDiscrepancyRepo_PendingReturnsQuery(t *testing.T) {
	sql, args, err := pendingReturnsQuery(3).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT mandor_id, material_id, COALESCE(SUM(quantity_kembali), 0) AS total FROM returns"+
			" WHERE is_deleted = $1 AND project_id = $2 AND is_released = $3"+
			" GROUP BY mandor_id, material_id",
		sql)
	assert.Equal(t, []any{entity.Active, int64(3), false}, args)
}

func TestDiscrepancyRepo_LockProject(t *testing.T) {
	rec := &execRecorder{}
	r := NewDiscrepancyRepo(recorderDB{q: rec})

	require.NoError(t, r.LockProject(context.Background(), 12))
	require.Len(t, rec.sqls, 1)
	assert.Equal(t, "SELECT pg_advisory_xact_lock($1)", rec.sqls[0])
	assert.Equal(t, []any{int64(0x4a47)<<48 | 12}, rec.args[0])
}

func TestProjectLockKey_DistinctAboveInt32(t *testing.T) {
	low, err := projectLockKey(5)
	require.NoError(t, err)
	high, err := projectLockKey(5 + 1<<32)
	require.NoError(t, err)
	assert.NotEqual(t, low, high)

	for _, id := range []int64{0, -1, 1 << 48} {
		_, err := projectLockKey(id)
		assert.Error(t, err, "project id %d", id)
	}

	rec := &execRecorder{}
	r := NewDiscrepancyRepo(recorderDB{q: rec})
	assert.Error(t, r.LockProject(context.Background(), 1<<48))
	assert.Empty(t, rec.sqls)
}

func TestDiscrepancyRepo_InsertAndUpdate(t *testing.T) {
	rec := &execRecorder{}
	r := NewDiscrepancyRepo(recorderDB{q: rec})
	ctx := context.Background()

	rows := []discrepancy.Notification{
		{ProjectID: 1, Pair: discrepancy.Pair{MandorID: 2, MaterialID: 3}, Selisih: types.NewQuantity(5), Status: discrepancy.StatusWarning, Message: "a"},
		{ProjectID: 1, Pair: discrepancy.Pair{MandorID: 2, MaterialID: 4}, Selisih: types.NewQuantity(1), Status: discrepancy.StatusWarning, Message: "b"},
	}
	require.NoError(t, r.Insert(ctx, rows))
	require.NoError(t, r.Insert(ctx, nil))
	require.Len(t, rec.sqls, 1)
	assert.Equal(t,
		"INSERT INTO notifications (project_id,mandor_id,material_id,barang_keluar,barang_terpasang,selisih,status,message,is_read)"+
			" VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9),($10,$11,$12,$13,$14,$15,$16,$17,$18)",
		rec.sqls[0])

	rows[0].ID = 77
	require.NoError(t, r.Update(ctx, rows[:1]))
	require.Len(t, rec.sqls, 2)
	assert.Equal(t,
		"UPDATE notifications SET barang_keluar = $1, barang_terpasang = $2, selisih = $3, status = $4,"+
			" message = $5, updated_at = NOW() WHERE id = $6 AND project_id = $7",
		rec.sqls[1])
	assert.NotContains(t, rec.sqls[1], "is_read")
}

func TestDiscrepancyRepo_DeleteAndMarkReadScopedToProject(t *testing.T) {
	rec := &execRecorder{tag: pgconn.NewCommandTag("UPDATE 2")}
	r := NewDiscrepancyRepo(recorderDB{q: rec})
	ctx := context.Background()

	require.NoError(t, r.Delete(ctx, 5, []int64{8, 9}))
	assert.Equal(t, "DELETE FROM notifications WHERE id IN ($1,$2) AND project_id = $3", rec.sqls[0])
	assert.Equal(t, []any{int64(8), int64(9), int64(5)}, rec.args[0])

	n, err := r.MarkRead(ctx, 5, []int64{8, 9})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t,
		"UPDATE notifications SET is_read = $1, updated_at = NOW() WHERE id IN ($2,$3) AND is_read = $4 AND project_id = $5",
		rec.sqls[1])

	n, err = r.MarkRead(ctx, 5, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, rec.sqls, 2)
}

func TestDiscrepancyRepo_ListQuery(t *testing.T) {
	mandor := int64(6)
	r := NewDiscrepancyRepo(nil)

	f := discrepancy.ListFilter{ProjectID: 1, UnreadOnly: true, MandorID: &mandor}
	sql, args, err := r.listQuery(f).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM notifications WHERE project_id = $1 AND is_read = $2 AND mandor_id = $3")
	assert.Equal(t, []any{int64(1), false, mandor}, args)
}
