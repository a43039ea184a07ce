// Package stock computes material balances from the four ledger streams:
// StockIn, StockOut, Installed and Return.
package stock

import (
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/types"
)

// BalanceFilter selects the materials to compute balances for.
type BalanceFilter struct {
	MaterialIDs []int64
	// Search matches nama_barang or kode_barang (ILIKE)
	Search string

	// DateFrom/DateTo bound tanggal_masuk and tanggal_keluar only.
	// Installed and Return streams are always summed in full.
	DateFrom *time.Time
	DateTo   *time.Time

	// ProjectID scopes materials and every stream. Nil means all projects.
	ProjectID *int64

	Limit  int
	Offset int
}

// Validate checks the filter before it reaches the store.
func (f BalanceFilter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return apperror.NewValidation("dateFrom must not be after dateTo").
			WithDetail("dateFrom", f.DateFrom.Format(time.DateOnly)).
			WithDetail("dateTo", f.DateTo.Format(time.DateOnly))
	}
	if f.Limit < 0 || f.Offset < 0 {
		return apperror.NewValidation("limit and offset must not be negative")
	}
	return nil
}

// MaterialRef is the material part of a balance row.
type MaterialRef struct {
	ID         int64   `db:"id" json:"materialId"`
	ProjectID  int64   `db:"project_id" json:"projectId"`
	KodeBarang *string `db:"kode_barang" json:"kodeBarang,omitempty"`
	NamaBarang string  `db:"nama_barang" json:"namaBarang"`
	Satuan     string  `db:"satuan" json:"satuan"`
}

// ReturnTotals partitions non-deleted returns of one material.
type ReturnTotals struct {
	// Kembali is not yet released: still physically in the warehouse
	Kembali types.Quantity `db:"total_kembali"`
	// ReturKeluar is released: it left again as a new StockOut
	ReturKeluar   types.Quantity `db:"total_retur_keluar"`
	KondisiBaik   types.Quantity `db:"total_kondisi_baik"`
	KondisiReject types.Quantity `db:"total_kondisi_reject"`
}

// StreamTotals holds the raw per-stream sums for one material.
type StreamTotals struct {
	In        types.Quantity
	Out       types.Quantity
	Terpasang types.Quantity
	Returns   ReturnTotals
}

// BalanceSnapshot is the computed balance of one material.
type BalanceSnapshot struct {
	MaterialRef

	TotalIn            types.Quantity `json:"totalIn"`
	TotalOut           types.Quantity `json:"totalOut"`
	TotalTerpasang     types.Quantity `json:"totalTerpasang"`
	TotalKembali       types.Quantity `json:"totalKembali"`
	TotalReturKeluar   types.Quantity `json:"totalReturKeluar"`
	TotalKondisiBaik   types.Quantity `json:"totalKondisiBaik"`
	TotalKondisiReject types.Quantity `json:"totalKondisiReject"`

	KeluarEfektif types.Quantity `json:"keluarEfektif"`
	CurrentStock  types.Quantity `json:"currentStock"`
	StockReady    types.Quantity `json:"stockReady"`
}

// ComputeSnapshot derives the balance of one material.
//
// A released return re-enters the ledger as a new StockOut, so its quantity is
// taken off total_out once. Reject-condition quantity is on the shelf but
// cannot be issued: it lowers stock_ready only.
func ComputeSnapshot(ref MaterialRef, t StreamTotals) BalanceSnapshot {
	keluarEfektif := t.Out - t.Returns.ReturKeluar
	current := t.In - keluarEfektif + t.Returns.Kembali

	return BalanceSnapshot{
		MaterialRef:        ref,
		TotalIn:            t.In,
		TotalOut:           t.Out,
		TotalTerpasang:     t.Terpasang,
		TotalKembali:       t.Returns.Kembali,
		TotalReturKeluar:   t.Returns.ReturKeluar,
		TotalKondisiBaik:   t.Returns.KondisiBaik,
		TotalKondisiReject: t.Returns.KondisiReject,
		KeluarEfektif:      keluarEfektif,
		CurrentStock:       current,
		StockReady:         (current - t.Returns.KondisiReject).ClampZero(),
	}
}
