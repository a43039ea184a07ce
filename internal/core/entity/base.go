// Package entity provides the fields shared by master data and ledger rows.
package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	Validate(ctx context.Context) error
}

// DeletionState is the soft-delete flag stored in is_deleted.
type DeletionState int16

const (
	Active  DeletionState = 0
	Deleted DeletionState = 1
)

func (s DeletionState) String() string {
	if s == Deleted {
		return "deleted"
	}
	return "active"
}

// ScanInt64 implements pgtype.Int64Scanner. Legacy rows carry NULL, which reads as Active.
func (s *DeletionState) ScanInt64(v pgtype.Int8) error {
	if !v.Valid {
		*s = Active
		return nil
	}
	switch DeletionState(v.Int64) {
	case Active, Deleted:
		*s = DeletionState(v.Int64)
		return nil
	default:
		return fmt.Errorf("invalid is_deleted value %d", v.Int64)
	}
}

// Int64Value implements pgtype.Int64Valuer.
func (s DeletionState) Int64Value() (pgtype.Int8, error) {
	return pgtype.Int8{Int64: int64(s), Valid: true}, nil
}

// BaseEntity contains the identity, soft-delete and audit columns.
type BaseEntity struct {
	ID        int64         `db:"id" json:"id"`
	IsDeleted DeletionState `db:"is_deleted" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy *int64    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy *int64    `db:"updated_by" json:"updatedBy,omitempty"`
	DeletedBy *int64    `db:"deleted_by" json:"deletedBy,omitempty"`
}

// IsLive reports whether the row is not soft-deleted.
func (b *BaseEntity) IsLive() bool {
	return b.IsDeleted == Active
}

// Stamp records the creating actor.
func (b *BaseEntity) Stamp(actor *int64) {
	b.CreatedBy = actor
	b.UpdatedBy = actor
}

// MarkDeleted soft-deletes the row on behalf of actor.
func (b *BaseEntity) MarkDeleted(actor *int64) {
	b.IsDeleted = Deleted
	b.DeletedBy = actor
	b.UpdatedBy = actor
}
