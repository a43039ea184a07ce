package domain

import (
	"context"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/entity"
)

// RequireProject returns the project the request is scoped to.
func RequireProject(ctx context.Context) (int64, error) {
	projectID := appctx.GetProjectID(ctx)
	if projectID <= 0 {
		return 0, apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}
	return projectID, nil
}

// CheckVisible hides soft-deleted documents and documents of other projects
// behind a not-found error.
func CheckVisible(doc *entity.BaseDocument, name string, projectID int64) error {
	if !doc.IsLive() || !doc.BelongsTo(projectID) {
		return apperror.NewNotFound(name, doc.ID)
	}
	return nil
}
