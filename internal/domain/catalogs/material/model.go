// Package material provides the Material catalog (barang) read by the ledger.
package material

import (
	"context"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
)

// Material is an item tracked by the ledger. It belongs to one project.
type Material struct {
	entity.BaseEntity

	ProjectID  int64   `db:"project_id" json:"projectId"`
	KodeBarang *string `db:"kode_barang" json:"kodeBarang,omitempty"`
	NamaBarang string  `db:"nama_barang" json:"namaBarang"`
	Satuan     string  `db:"satuan" json:"satuan"`
	IsActive   bool    `db:"is_active" json:"isActive"`
}

// Repository is the read side of the material catalog.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Material, error)
	// ListActive returns active, non-deleted materials of a project ordered by id.
	ListActive(ctx context.Context, projectID int64) ([]*Material, error)
}

// CheckUsableIn returns a validation error unless a new ledger row of
// projectID may reference the material.
func (m *Material) CheckUsableIn(projectID int64) error {
	switch {
	case !m.IsLive() || !m.IsActive:
		return apperror.NewValidation("material is not active").
			WithDetail("materialId", m.ID)
	case m.ProjectID != projectID:
		return apperror.NewValidation("material belongs to another project").
			WithDetail("materialId", m.ID).
			WithDetail("projectId", projectID)
	}
	return nil
}
