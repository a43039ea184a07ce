package migration

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_EveryVersionHasUpAndDown(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	var versions []uint
	version, err := src.First()
	require.NoError(t, err)
	for {
		versions = append(versions, version)

		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d up", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d down", version)
		down.Close()

		version, err = src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, []uint{1, 2}, versions)
}

func TestSchema_DeclaresLedgerTables(t *testing.T) {
	body, err := files.ReadFile("sql/0001_schema.up.sql")
	require.NoError(t, err)
	schema := string(body)

	for _, table := range []string{
		"project", "material", "mandor", "stock_in", "stock_out",
		"installed", "returns", "letters", "notifications", "sys_sequences",
	} {
		assert.Contains(t, schema, "CREATE TABLE "+table+" (", table)
	}
	assert.Contains(t, schema, "CREATE UNIQUE INDEX uq_stock_out_nomor")
	assert.Contains(t, schema, "CREATE UNIQUE INDEX uq_letters_nomor")
}

func TestBackfill_AddsReleaseCheckAfterSplit(t *testing.T) {
	const check = "ck_returns_release_complete"

	schema, err := files.ReadFile("sql/0001_schema.up.sql")
	require.NoError(t, err)
	assert.NotContains(t, string(schema), check, "legacy released rows must load before the split")

	up, err := files.ReadFile("sql/0002_backfill.up.sql")
	require.NoError(t, err)
	split := strings.Index(string(up), "DROP COLUMN stock_out_id")
	added := strings.Index(string(up), "ADD CONSTRAINT "+check)
	require.NotEqual(t, -1, split)
	require.NotEqual(t, -1, added)
	assert.Greater(t, added, split)

	down, err := files.ReadFile("sql/0002_backfill.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP CONSTRAINT IF EXISTS "+check)
}

func TestDriverURL(t *testing.T) {
	got, err := driverURL("postgres://jargas:s%40cret@db:5432/jargas?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://jargas:s%40cret@db:5432/jargas?sslmode=disable", got)

	got, err = driverURL("postgresql://db/jargas")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/jargas", got)

	_, err = driverURL("mysql://db/jargas")
	assert.Error(t, err)
}
