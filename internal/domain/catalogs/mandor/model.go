// Package mandor provides the Mandor (foreman) catalog read by the ledger.
package mandor

import (
	"context"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
)

// Mandor receives issued material. A mandor without a project is shared by all projects.
type Mandor struct {
	entity.BaseEntity

	ProjectID *int64 `db:"project_id" json:"projectId,omitempty"`
	Nama      string `db:"nama" json:"nama"`
	IsActive  bool   `db:"is_active" json:"isActive"`
}

// Repository is the read side of the mandor catalog.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Mandor, error)
	// ListVisible returns active, non-deleted mandors assigned to projectID or shared.
	ListVisible(ctx context.Context, projectID int64) ([]*Mandor, error)
}

// VisibleTo reports whether the mandor may work in projectID.
func (m *Mandor) VisibleTo(projectID int64) bool {
	return m.ProjectID == nil || *m.ProjectID == projectID
}

// CheckUsableIn returns a validation error unless new ledger rows of
// projectID may reference the mandor.
func (m *Mandor) CheckUsableIn(projectID int64) error {
	switch {
	case !m.IsLive() || !m.IsActive:
		return apperror.NewValidation("mandor is not active").
			WithDetail("mandorId", m.ID)
	case !m.VisibleTo(projectID):
		return apperror.NewValidation("mandor is not assigned to this project").
			WithDetail("mandorId", m.ID).
			WithDetail("projectId", projectID)
	}
	return nil
}
