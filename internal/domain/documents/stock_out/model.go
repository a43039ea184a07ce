// Package stock_out provides the StockOut document (barang keluar): material
// issued from the warehouse to a mandor.
package stock_out

import (
	"context"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
)

// StockOut is one issuance. NomorBarangKeluar is assigned by the service and
// is unique across all projects, deleted rows included.
type StockOut struct {
	entity.BaseDocument

	NomorBarangKeluar string         `db:"nomor_barang_keluar" json:"nomorBarangKeluar"`
	MandorID          int64          `db:"mandor_id" json:"mandorId"`
	MaterialID        int64          `db:"material_id" json:"materialId"`
	Quantity          types.Quantity `db:"quantity" json:"quantity"`
	TanggalKeluar     time.Time      `db:"tanggal_keluar" json:"tanggalKeluar"`
	Keterangan        *string        `db:"keterangan" json:"keterangan,omitempty"`

	// SourceReturnID is set when the issuance was produced by releasing a Return.
	SourceReturnID *int64 `db:"source_return_id" json:"sourceReturnId,omitempty"`
}

// NewStockOut creates an unnumbered StockOut.
func NewStockOut(projectID, mandorID, materialID int64, qty types.Quantity, date time.Time, actor *int64) *StockOut {
	return &StockOut{
		BaseDocument:  entity.NewBaseDocument(projectID, actor),
		MandorID:      mandorID,
		MaterialID:    materialID,
		Quantity:      qty,
		TanggalKeluar: date,
	}
}

// Validate implements entity.Validatable.
func (s *StockOut) Validate(ctx context.Context) error {
	if err := s.BaseDocument.Validate(ctx); err != nil {
		return err
	}
	if s.MandorID <= 0 {
		return apperror.NewValidation("mandor is required").
			WithDetail("field", "mandorId")
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
	if s.TanggalKeluar.IsZero() {
		return apperror.NewValidation("tanggal keluar is required").
			WithDetail("field", "tanggalKeluar")
	}
	return nil
}

// IsReissue reports whether the issuance came from a released Return.
func (s *StockOut) IsReissue() bool {
	return s.SourceReturnID != nil
}

// CheckLinkable returns a validation error unless an Installed or Return row
// of projectID for materialID and mandorID may reference this issuance.
func (s *StockOut) CheckLinkable(projectID, materialID, mandorID int64) error {
	switch {
	case !s.IsLive():
		return apperror.NewValidation("stock out has been deleted").
			WithDetail("stockOutId", s.ID)
	case !s.BelongsTo(projectID):
		return apperror.NewValidation("stock out belongs to another project").
			WithDetail("stockOutId", s.ID).
			WithDetail("projectId", projectID)
	case s.MaterialID != materialID:
		return apperror.NewValidation("material does not match the stock out").
			WithDetail("stockOutId", s.ID).
			WithDetail("expected", s.MaterialID).
			WithDetail("materialId", materialID)
	case s.MandorID != mandorID:
		return apperror.NewValidation("mandor does not match the stock out").
			WithDetail("stockOutId", s.ID).
			WithDetail("expected", s.MandorID).
			WithDetail("mandorId", mandorID)
	}
	return nil
}

var _ entity.Validatable = (*StockOut)(nil)
