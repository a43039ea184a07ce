// Package installed provides Installed records (barang terpasang): material
// fixed in the field, usually drawn from a specific StockOut.
package installed

import (
	"context"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
)

// Installed is one installation event.
type Installed struct {
	entity.BaseDocument

	MaterialID    int64          `db:"material_id" json:"materialId"`
	MandorID      int64          `db:"mandor_id" json:"mandorId"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
	StockOutID    *int64         `db:"stock_out_id" json:"stockOutId,omitempty"`
	TanggalPasang time.Time      `db:"tanggal_pasang" json:"tanggalPasang"`
	Lokasi        *string        `db:"lokasi" json:"lokasi,omitempty"`
	Keterangan    *string        `db:"keterangan" json:"keterangan,omitempty"`
}

// Validate implements entity.Validatable.
func (i *Installed) Validate(ctx context.Context) error {
	if err := i.BaseDocument.Validate(ctx); err != nil {
		return err
	}
	if i.MaterialID <= 0 {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}
	if i.MandorID <= 0 {
		return apperror.NewValidation("mandor is required").
			WithDetail("field", "mandorId")
	}
	if !i.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", i.Quantity)
	}
	if i.TanggalPasang.IsZero() {
		return apperror.NewValidation("tanggal pasang is required").
			WithDetail("field", "tanggalPasang")
	}
	return nil
}

var _ entity.Validatable = (*Installed)(nil)
