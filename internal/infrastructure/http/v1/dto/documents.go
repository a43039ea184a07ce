package dto

import (
	"jargas/internal/core/entity"
	"jargas/internal/core/types"
	"jargas/internal/domain/documents/installed"
	"jargas/internal/domain/documents/letter"
	"jargas/internal/domain/documents/returns"
	"jargas/internal/domain/documents/stock_in"
	"jargas/internal/domain/documents/stock_out"
)

// --- Stock in ---

type CreateStockInRequest struct {
	MaterialID   int64          `json:"materialId" binding:"required,gt=0"`
	Quantity     types.Quantity `json:"quantity"`
	TanggalMasuk Date           `json:"tanggalMasuk"`
	NomorInvoice *string        `json:"nomorInvoice,omitempty"`
	Supplier     *string        `json:"supplier,omitempty"`
	Keterangan   *string        `json:"keterangan,omitempty"`
}

func (r *CreateStockInRequest) ToEntity(projectID int64, actor *int64) *stock_in.StockIn {
	return &stock_in.StockIn{
		BaseDocument: entity.NewBaseDocument(projectID, actor),
		MaterialID:   r.MaterialID,
		Quantity:     r.Quantity,
		TanggalMasuk: r.TanggalMasuk.Time,
		NomorInvoice: r.NomorInvoice,
		Supplier:     r.Supplier,
		Keterangan:   r.Keterangan,
	}
}

type StockInListQuery struct {
	ListQuery
	MaterialID *int64 `form:"materialId"`
}

// --- Stock out ---

type CreateStockOutRequest struct {
	MandorID      int64          `json:"mandorId" binding:"required,gt=0"`
	MaterialID    int64          `json:"materialId" binding:"required,gt=0"`
	Quantity      types.Quantity `json:"quantity"`
	TanggalKeluar Date           `json:"tanggalKeluar"`
	Keterangan    *string        `json:"keterangan,omitempty"`
}

func (r *CreateStockOutRequest) ToEntity(projectID int64, actor *int64) *stock_out.StockOut {
	doc := stock_out.NewStockOut(projectID, r.MandorID, r.MaterialID, r.Quantity, r.TanggalKeluar.Time, actor)
	doc.Keterangan = r.Keterangan
	return doc
}

type StockOutListQuery struct {
	ListQuery
	MandorID   *int64 `form:"mandorId"`
	MaterialID *int64 `form:"materialId"`
}

// --- Installed ---

type CreateInstalledRequest struct {
	MaterialID    int64          `json:"materialId" binding:"required,gt=0"`
	MandorID      int64          `json:"mandorId" binding:"required,gt=0"`
	Quantity      types.Quantity `json:"quantity"`
	StockOutID    *int64         `json:"stockOutId,omitempty"`
	TanggalPasang Date           `json:"tanggalPasang"`
	Lokasi        *string        `json:"lokasi,omitempty"`
	Keterangan    *string        `json:"keterangan,omitempty"`
}

func (r *CreateInstalledRequest) ToEntity(projectID int64, actor *int64) *installed.Installed {
	return &installed.Installed{
		BaseDocument:  entity.NewBaseDocument(projectID, actor),
		MaterialID:    r.MaterialID,
		MandorID:      r.MandorID,
		Quantity:      r.Quantity,
		StockOutID:    r.StockOutID,
		TanggalPasang: r.TanggalPasang.Time,
		Lokasi:        r.Lokasi,
		Keterangan:    r.Keterangan,
	}
}

type InstalledListQuery struct {
	ListQuery
	StockOutID *int64 `form:"stockOutId"`
	MandorID   *int64 `form:"mandorId"`
	MaterialID *int64 `form:"materialId"`
}

// --- Returns ---

type CreateReturnRequest struct {
	MandorID              int64           `json:"mandorId"`
	MaterialID            int64           `json:"materialId"`
	StockOutID            *int64          `json:"stockOutId"`
	QuantityKembali       types.Quantity  `json:"quantityKembali"`
	QuantityKondisiBaik   *types.Quantity `json:"quantityKondisiBaik,omitempty"`
	QuantityKondisiReject *types.Quantity `json:"quantityKondisiReject,omitempty"`
	TanggalKembali        Date            `json:"tanggalKembali"`
	Keterangan            *string         `json:"keterangan,omitempty"`
}

// ToInput leaves field checks to returns.CreateInput.Validate so the
// caller gets the same errors over HTTP as in process.
func (r *CreateReturnRequest) ToInput() returns.CreateInput {
	return returns.CreateInput{
		MandorID:              r.MandorID,
		MaterialID:            r.MaterialID,
		StockOutID:            r.StockOutID,
		QuantityKembali:       r.QuantityKembali,
		QuantityKondisiBaik:   r.QuantityKondisiBaik,
		QuantityKondisiReject: r.QuantityKondisiReject,
		TanggalKembali:        r.TanggalKembali.Time,
		Keterangan:            r.Keterangan,
	}
}

type ReleaseReturnRequest struct {
	ReleaseDate Date `json:"releaseDate"`
}

type ReturnListQuery struct {
	ListQuery
	SourceStockOutID *int64 `form:"stockOutId"`
	MandorID         *int64 `form:"mandorId"`
	MaterialID       *int64 `form:"materialId"`
	IsReleased       *bool  `form:"isReleased"`
}

// ReleaseResponse is the outcome of a release.
type ReleaseResponse struct {
	ReturnID int64               `json:"returnId"`
	StockOut *stock_out.StockOut `json:"stockOut"`
}

// --- Letters ---

type CreateLetterRequest struct {
	Kind       letter.Kind `json:"kind" binding:"required,oneof=request delivery"`
	MandorID   *int64      `json:"mandorId,omitempty"`
	Tanggal    Date        `json:"tanggal"`
	Perihal    string      `json:"perihal" binding:"required"`
	Keterangan *string     `json:"keterangan,omitempty"`
}

func (r *CreateLetterRequest) ToEntity(projectID int64, actor *int64) *letter.Letter {
	return &letter.Letter{
		BaseDocument: entity.NewBaseDocument(projectID, actor),
		Kind:         r.Kind,
		MandorID:     r.MandorID,
		Tanggal:      r.Tanggal.Time,
		Perihal:      r.Perihal,
		Keterangan:   r.Keterangan,
	}
}

type LetterListQuery struct {
	ListQuery
	Kind *letter.Kind `form:"kind" binding:"omitempty,oneof=request delivery"`
}
