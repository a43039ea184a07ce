package entity

import (
	"context"

	"jargas/internal/core/apperror"
)

// BaseDocument is embedded by the ledger tables (StockIn, StockOut, Installed,
// Return) and letters. Every document is owned by exactly one project.
type BaseDocument struct {
	BaseEntity

	ProjectID int64 `db:"project_id" json:"projectId"`
}

// NewBaseDocument creates a BaseDocument for projectID stamped with actor.
func NewBaseDocument(projectID int64, actor *int64) BaseDocument {
	d := BaseDocument{ProjectID: projectID}
	d.Stamp(actor)
	return d
}

// Validate implements Validatable.
func (d *BaseDocument) Validate(ctx context.Context) error {
	if d.ProjectID <= 0 {
		return apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}
	return nil
}

// BelongsTo reports whether the document is owned by projectID.
func (d *BaseDocument) BelongsTo(projectID int64) bool {
	return d.ProjectID == projectID
}
