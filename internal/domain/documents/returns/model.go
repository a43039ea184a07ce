// Package returns provides Return records (barang kembali) and the one-way
// release that reissues returned material as a new StockOut.
package returns

import (
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
)

// Return is material brought back from the field against one issuance.
//
// SourceStockOutID never changes. ReissuedStockOutID is set exactly once,
// when the return is released.
type Return struct {
	entity.BaseDocument

	MandorID              int64          `db:"mandor_id" json:"mandorId"`
	MaterialID            int64          `db:"material_id" json:"materialId"`
	SourceStockOutID      int64          `db:"source_stock_out_id" json:"sourceStockOutId"`
	QuantityKembali       types.Quantity `db:"quantity_kembali" json:"quantityKembali"`
	QuantityKondisiBaik   types.Quantity `db:"quantity_kondisi_baik" json:"quantityKondisiBaik"`
	QuantityKondisiReject types.Quantity `db:"quantity_kondisi_reject" json:"quantityKondisiReject"`
	TanggalKembali        time.Time      `db:"tanggal_kembali" json:"tanggalKembali"`
	Keterangan            *string        `db:"keterangan" json:"keterangan,omitempty"`

	IsReleased         bool       `db:"is_released" json:"isReleased"`
	ReissuedStockOutID *int64     `db:"reissued_stock_out_id" json:"reissuedStockOutId,omitempty"`
	ReleasedAt         *time.Time `db:"released_at" json:"releasedAt,omitempty"`
	ReleasedBy         *int64     `db:"released_by" json:"releasedBy,omitempty"`
}

// CreateInput is what a caller supplies to record a return.
type CreateInput struct {
	MandorID   int64
	MaterialID int64
	// StockOutID is the issuance the material comes back from. Required.
	StockOutID      *int64
	QuantityKembali types.Quantity
	// Condition split; nil means zero.
	QuantityKondisiBaik   *types.Quantity
	QuantityKondisiReject *types.Quantity
	TanggalKembali        time.Time
	Keterangan            *string
}

// Validate checks the input without touching the store.
func (in CreateInput) Validate() error {
	if in.StockOutID == nil || *in.StockOutID <= 0 {
		return apperror.NewValidation("stock out is required for a return").
			WithDetail("field", "stockOutId")
	}
	if in.MandorID <= 0 {
		return apperror.NewValidation("mandor is required").
			WithDetail("field", "mandorId")
	}
	if in.MaterialID <= 0 {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}
	if !in.QuantityKembali.IsPositive() {
		return apperror.NewValidation("quantity kembali must be positive").
			WithDetail("field", "quantityKembali").
			WithDetail("quantity", in.QuantityKembali)
	}

	baik, reject := in.conditions()
	if baik.IsNegative() {
		return apperror.NewValidation("quantity kondisi baik must not be negative").
			WithDetail("field", "quantityKondisiBaik")
	}
	if reject.IsNegative() {
		return apperror.NewValidation("quantity kondisi reject must not be negative").
			WithDetail("field", "quantityKondisiReject")
	}
	if baik+reject > in.QuantityKembali {
		return apperror.NewValidation("condition quantities exceed quantity kembali").
			WithDetail("quantityKembali", in.QuantityKembali).
			WithDetail("quantityKondisiBaik", baik).
			WithDetail("quantityKondisiReject", reject)
	}
	if in.TanggalKembali.IsZero() {
		return apperror.NewValidation("tanggal kembali is required").
			WithDetail("field", "tanggalKembali")
	}
	return nil
}

func (in CreateInput) conditions() (baik, reject types.Quantity) {
	if in.QuantityKondisiBaik != nil {
		baik = *in.QuantityKondisiBaik
	}
	if in.QuantityKondisiReject != nil {
		reject = *in.QuantityKondisiReject
	}
	return baik, reject
}

// newReturn builds the row for a validated input.
func newReturn(projectID int64, in CreateInput, actor *int64) *Return {
	baik, reject := in.conditions()
	return &Return{
		BaseDocument:          entity.NewBaseDocument(projectID, actor),
		MandorID:              in.MandorID,
		MaterialID:            in.MaterialID,
		SourceStockOutID:      *in.StockOutID,
		QuantityKembali:       in.QuantityKembali,
		QuantityKondisiBaik:   baik,
		QuantityKondisiReject: reject,
		TanggalKembali:        in.TanggalKembali,
		Keterangan:            in.Keterangan,
	}
}

// MarkReleased records the release on the return.
func (r *Return) MarkReleased(stockOutID int64, at time.Time, actor *int64) {
	r.IsReleased = true
	r.ReissuedStockOutID = &stockOutID
	r.ReleasedAt = &at
	r.ReleasedBy = actor
	r.UpdatedBy = actor
}
