// Package discrepancy detects issued material that is neither installed nor
// returned, per (mandor, material) pair, and keeps the project's
// notifications in line with it.
package discrepancy

import (
	"fmt"
	"time"

	"jargas/internal/core/types"
)

// Status of a notification.
type Status string

const StatusWarning Status = "warning"

// Pair identifies one mandor/material combination within a project.
type Pair struct {
	MandorID   int64 `db:"mandor_id" json:"mandorId"`
	MaterialID int64 `db:"material_id" json:"materialId"`
}

// PairTotals are the ledger sums of one pair.
type PairTotals struct {
	// Keluar excludes stock-outs produced by releasing a return
	Keluar    types.Quantity
	Terpasang types.Quantity
	// KembaliDicatat counts returns not yet released
	KembaliDicatat types.Quantity
}

// Report is the evaluated discrepancy of one pair.
type Report struct {
	Pair

	MandorNama string `json:"mandorNama"`
	NamaBarang string `json:"namaBarang"`

	TotalKeluar         types.Quantity `json:"totalKeluar"`
	TotalTerpasang      types.Quantity `json:"totalTerpasang"`
	TotalKembaliDicatat types.Quantity `json:"totalKembaliDicatat"`
	SelisihSeharusnya   types.Quantity `json:"selisihSeharusnya"`
	SelisihAktual       types.Quantity `json:"selisihAktual"`

	// Warning is true when issued quantity is still unaccounted for.
	Warning bool `json:"warning"`
}

// Evaluate applies the discrepancy rule to one pair:
//
//	selisih_seharusnya = keluar - terpasang
//	selisih_aktual     = selisih_seharusnya - kembali_dicatat
//
// A warning exists only when both are positive.
func Evaluate(pair Pair, t PairTotals) Report {
	seharusnya := t.Keluar - t.Terpasang
	aktual := seharusnya - t.KembaliDicatat

	return Report{
		Pair:                pair,
		TotalKeluar:         t.Keluar,
		TotalTerpasang:      t.Terpasang,
		TotalKembaliDicatat: t.KembaliDicatat,
		SelisihSeharusnya:   seharusnya,
		SelisihAktual:       aktual,
		Warning:             seharusnya.IsPositive() && aktual.IsPositive(),
	}
}

// Notification is the stored form of an open discrepancy. Only this package writes it.
type Notification struct {
	ID        int64 `db:"id" json:"id"`
	ProjectID int64 `db:"project_id" json:"projectId"`
	Pair

	BarangKeluar    types.Quantity `db:"barang_keluar" json:"barangKeluar"`
	BarangTerpasang types.Quantity `db:"barang_terpasang" json:"barangTerpasang"`
	Selisih         types.Quantity `db:"selisih" json:"selisih"`
	Status          Status         `db:"status" json:"status"`
	Message         string         `db:"message" json:"message"`
	IsRead          bool           `db:"is_read" json:"isRead"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NotificationFor builds the desired notification of a warning report.
func NotificationFor(projectID int64, r Report) Notification {
	return Notification{
		ProjectID:       projectID,
		Pair:            r.Pair,
		BarangKeluar:    r.TotalKeluar,
		BarangTerpasang: r.TotalTerpasang,
		Selisih:         r.SelisihAktual,
		Status:          StatusWarning,
		Message: fmt.Sprintf("%s: %s %s keluar, %s terpasang, %s dikembalikan, selisih %s belum tercatat",
			r.MandorNama, r.NamaBarang, r.TotalKeluar, r.TotalTerpasang, r.TotalKembaliDicatat, r.SelisihAktual),
	}
}

// sameBody reports whether two notifications carry the same content.
// Identity and is_read are not compared.
func (n Notification) sameBody(o Notification) bool {
	return n.BarangKeluar == o.BarangKeluar &&
		n.BarangTerpasang == o.BarangTerpasang &&
		n.Selisih == o.Selisih &&
		n.Status == o.Status &&
		n.Message == o.Message
}
