package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
	"jargas/internal/domain/catalogs/project"
	"jargas/internal/infrastructure/storage/postgres"
)

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	baseCatalogRepo[material.Material]
}

// NewMaterialRepo creates a material repository.
func NewMaterialRepo(db postgres.QuerierProvider) *MaterialRepo {
	return &MaterialRepo{newBaseCatalogRepo[material.Material](db, "material")}
}

func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*material.Material, error) {
	return r.getByID(ctx, id)
}

func (r *MaterialRepo) ListActive(ctx context.Context, projectID int64) ([]*material.Material, error) {
	return r.selectActive(ctx, squirrel.Eq{"project_id": projectID})
}

// MandorRepo implements mandor.Repository.
type MandorRepo struct {
	baseCatalogRepo[mandor.Mandor]
}

// NewMandorRepo creates a mandor repository.
func NewMandorRepo(db postgres.QuerierProvider) *MandorRepo {
	return &MandorRepo{newBaseCatalogRepo[mandor.Mandor](db, "mandor")}
}

func (r *MandorRepo) GetByID(ctx context.Context, id int64) (*mandor.Mandor, error) {
	return r.getByID(ctx, id)
}

// ListVisible includes mandors without a project.
func (r *MandorRepo) ListVisible(ctx context.Context, projectID int64) ([]*mandor.Mandor, error) {
	return r.selectActive(ctx, squirrel.Or{
		squirrel.Eq{"project_id": projectID},
		squirrel.Eq{"project_id": nil},
	})
}

// ProjectRepo implements project.Repository.
type ProjectRepo struct {
	baseCatalogRepo[project.Project]
}

// NewProjectRepo creates a project repository.
func NewProjectRepo(db postgres.QuerierProvider) *ProjectRepo {
	return &ProjectRepo{newBaseCatalogRepo[project.Project](db, "project")}
}

func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	return r.getByID(ctx, id)
}

func (r *ProjectRepo) ListActive(ctx context.Context) ([]*project.Project, error) {
	return r.selectActive(ctx, nil)
}

var (
	_ material.Repository = (*MaterialRepo)(nil)
	_ mandor.Repository   = (*MandorRepo)(nil)
	_ project.Repository  = (*ProjectRepo)(nil)
)
