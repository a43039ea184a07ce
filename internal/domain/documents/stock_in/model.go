// Package stock_in provides the StockIn document (barang masuk): material received into the warehouse.
package stock_in

import (
	"context"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
)

// StockIn is one receipt event.
type StockIn struct {
	entity.BaseDocument

	MaterialID   int64          `db:"material_id" json:"materialId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	TanggalMasuk time.Time      `db:"tanggal_masuk" json:"tanggalMasuk"`
	NomorInvoice *string        `db:"nomor_invoice" json:"nomorInvoice,omitempty"`
	Supplier     *string        `db:"supplier" json:"supplier,omitempty"`
	Keterangan   *string        `db:"keterangan" json:"keterangan,omitempty"`
}

// Validate implements entity.Validatable.
func (s *StockIn) Validate(ctx context.Context) error {
	if err := s.BaseDocument.Validate(ctx); err != nil {
		return err
	}
	if s.MaterialID <= 0 {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}
	if !s.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", s.Quantity)
	}
	if s.TanggalMasuk.IsZero() {
		return apperror.NewValidation("tanggal masuk is required").
			WithDetail("field", "tanggalMasuk")
	}
	return nil
}

var _ entity.Validatable = (*StockIn)(nil)
