package entity

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
)

func TestDeletionState_ScanNullIsActive(t *testing.T) {
	s := Deleted
	require.NoError(t, s.ScanInt64(pgtype.Int8{Valid: false}))
	assert.Equal(t, Active, s)

	require.NoError(t, s.ScanInt64(pgtype.Int8{Int64: 1, Valid: true}))
	assert.Equal(t, Deleted, s)

	assert.Error(t, s.ScanInt64(pgtype.Int8{Int64: 7, Valid: true}))
}

func TestBaseEntity_MarkDeleted(t *testing.T) {
	actor := int64(42)
	var b BaseEntity
	assert.True(t, b.IsLive())

	b.MarkDeleted(&actor)
	assert.False(t, b.IsLive())
	assert.Equal(t, &actor, b.DeletedBy)
}

func TestBaseDocument_ValidateRequiresProject(t *testing.T) {
	d := NewBaseDocument(0, nil)
	err := d.Validate(context.Background())
	assert.True(t, apperror.IsValidation(err))

	d = NewBaseDocument(3, nil)
	assert.NoError(t, d.Validate(context.Background()))
	assert.True(t, d.BelongsTo(3))
}
