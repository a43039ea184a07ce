package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
)

func TestQueryHelpers_Compose(t *testing.T) {
	project := int64(7)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	q := Builder().Select("so.id").From("stock_out so")
	q = NotDeleted(q, "so")
	q = ApplyProjectScope(q, "so", &project)
	q = ApplyDateRange(q, "so.tanggal_keluar", &from, &to)
	q = ApplySearch(q, "50%", "so.nomor_barang_keluar", "so.keterangan")
	q = ApplyPage(q, 10, 20)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT so.id FROM stock_out so WHERE so.is_deleted = $1 AND so.project_id = $2"+
			" AND so.tanggal_keluar >= $3 AND so.tanggal_keluar <= $4"+
			" AND (so.nomor_barang_keluar ILIKE $5 OR so.keterangan ILIKE $6) LIMIT 10 OFFSET 20",
		sql)
	assert.Equal(t, []any{entity.Active, project, from, to, `%50\%%`, `%50\%%`}, args)
}

func TestQueryHelpers_NoOpsOnEmptyInput(t *testing.T) {
	q := Builder().Select("id").From("material")
	q = ApplyProjectScope(q, "", nil)
	q = ApplyDateRange(q, "tanggal", nil, nil)
	q = ApplySearch(q, "   ", "nama_barang")
	q = ApplyPage(q, 0, 0)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM material", sql)
	assert.Empty(t, args)
}

func TestApplyPage_CapsLimit(t *testing.T) {
	sql, _, err := ApplyPage(Builder().Select("id").From("material"), 10_000, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SELECT id FROM material LIMIT %d", MaxPageSize), sql)
}

func TestParseOrderBy(t *testing.T) {
	allowed := []string{"tanggal_keluar", "id"}

	got, err := ParseOrderBy("", "id DESC", allowed...)
	require.NoError(t, err)
	assert.Equal(t, "id DESC", got)

	got, err = ParseOrderBy("-tanggal_keluar", "id DESC", allowed...)
	require.NoError(t, err)
	assert.Equal(t, "tanggal_keluar DESC", got)

	got, err = ParseOrderBy("+id", "", allowed...)
	require.NoError(t, err)
	assert.Equal(t, "id ASC", got)

	_, err = ParseOrderBy("id; DROP TABLE stock_out", "", allowed...)
	assert.True(t, apperror.IsValidation(err))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "stock_out"))

	plain := errors.New("boom")
	assert.Same(t, plain, MapError(plain, "stock_out"))

	dup := fmt.Errorf("insert stock_out: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_stock_out_nomor"})
	err := MapError(dup, "stock_out")
	require.True(t, apperror.IsDuplicate(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "uq_stock_out_nomor", appErr.Details["constraint"])

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_installed_material"}
	assert.True(t, apperror.IsValidation(MapError(fk, "installed")))

	other := &pgconn.PgError{Code: "40001"}
	appErr, ok := apperror.AsAppError(MapError(other, "returns"))
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDatabase, appErr.Code)
}

type columnsFixture struct {
	entity.BaseDocument
	MaterialID int64          `db:"material_id"`
	Quantity   types.Quantity `db:"quantity"`
	Note       string         `db:"-"`
	internal   string
}

func TestDBColumns_IncludesEmbedded(t *testing.T) {
	cols := DBColumns[columnsFixture]()
	assert.Equal(t, []string{
		"id", "is_deleted", "created_at", "updated_at", "created_by", "updated_by", "deleted_by",
		"project_id", "material_id", "quantity",
	}, cols)
}

func TestColumnValues_Omit(t *testing.T) {
	actor := int64(3)
	row := columnsFixture{
		BaseDocument: entity.NewBaseDocument(9, &actor),
		MaterialID:   11,
		Quantity:     types.NewQuantity(5),
		internal:     "x",
	}

	vals := ColumnValues(&row, "id", "created_at", "updated_at")
	assert.NotContains(t, vals, "id")
	assert.NotContains(t, vals, "created_at")
	assert.Equal(t, int64(9), vals["project_id"])
	assert.Equal(t, int64(11), vals["material_id"])
	assert.Equal(t, types.NewQuantity(5), vals["quantity"])
	assert.Equal(t, &actor, vals["created_by"])
	assert.Equal(t, entity.Active, vals["is_deleted"])

	assert.Nil(t, ColumnValues((*columnsFixture)(nil)))
}
