package stock_in

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/entity"
	"jargas/internal/core/tx"
	"jargas/internal/core/types"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/material"
)

const project = int64(1)

var day = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

type memoryRepo struct {
	rows []*StockIn
}

func (m *memoryRepo) Create(_ context.Context, doc *StockIn) error {
	doc.ID = int64(len(m.rows) + 1)
	cp := *doc
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*StockIn, error) {
	if id <= 0 || int(id) > len(m.rows) {
		return nil, apperror.NewNotFound(entityName, id)
	}
	cp := *m.rows[id-1]
	return &cp, nil
}

func (m *memoryRepo) GetForUpdate(ctx context.Context, id int64) (*StockIn, error) {
	return m.GetByID(ctx, id)
}

func (m *memoryRepo) List(_ context.Context, f ListFilter) (domain.ListResult[*StockIn], error) {
	var out []*StockIn
	for _, r := range m.rows {
		if r.ProjectID == f.ProjectID && r.IsLive() {
			out = append(out, r)
		}
	}
	return domain.ListResult[*StockIn]{Items: out, TotalCount: int64(len(out))}, nil
}

func (m *memoryRepo) SoftDelete(_ context.Context, id int64, actor *int64) error {
	m.rows[id-1].MarkDeleted(actor)
	return nil
}

type recordingInvalidator struct {
	projects []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, projectID int64) {
	r.projects = append(r.projects, projectID)
}

func newService() (*Service, *memoryRepo, *recordingInvalidator) {
	repo := &memoryRepo{}
	inv := &recordingInvalidator{}
	materials := &material.MockRepository{Items: []*material.Material{
		{BaseEntity: entity.BaseEntity{ID: 10}, ProjectID: project, IsActive: true},
		{BaseEntity: entity.BaseEntity{ID: 11}, ProjectID: project, IsActive: false},
		{BaseEntity: entity.BaseEntity{ID: 20}, ProjectID: 2, IsActive: true},
	}}
	return NewService(repo, materials, &tx.MockManager{}, inv), repo, inv
}

func receipt(projectID, materialID, qty int64) *StockIn {
	return &StockIn{
		BaseDocument: entity.NewBaseDocument(projectID, nil),
		MaterialID:   materialID,
		Quantity:     types.NewQuantity(qty),
		TanggalMasuk: day,
	}
}

func scoped(projectID int64) context.Context {
	return appctx.WithActor(context.Background(), &appctx.ActorContext{ActorID: 3, ProjectID: projectID})
}

func TestService_Create(t *testing.T) {
	svc, repo, inv := newService()

	doc := receipt(project, 10, 100)
	require.NoError(t, svc.Create(scoped(project), doc))

	assert.Equal(t, int64(1), doc.ID)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, []int64{project}, inv.projects)
}

func TestService_Create_RejectsUnusableMaterial(t *testing.T) {
	tests := []struct {
		name       string
		materialID int64
		quantity   int64
		notFound   bool
	}{
		{name: "inactive material", materialID: 11, quantity: 5},
		{name: "material of another project", materialID: 20, quantity: 5},
		{name: "unknown material", materialID: 99, quantity: 5, notFound: true},
		{name: "zero quantity", materialID: 10, quantity: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, inv := newService()

			err := svc.Create(scoped(project), receipt(project, tt.materialID, tt.quantity))
			require.Error(t, err)
			if tt.notFound {
				assert.True(t, apperror.IsNotFound(err))
			} else {
				assert.True(t, apperror.IsValidation(err))
			}
			assert.Empty(t, repo.rows)
			assert.Empty(t, inv.projects)
		})
	}
}

func TestService_GetByID_HidesOtherProjects(t *testing.T) {
	svc, _, _ := newService()
	require.NoError(t, svc.Create(scoped(project), receipt(project, 10, 10)))

	doc, err := svc.GetByID(scoped(project), 1)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantity(10), doc.Quantity)

	_, err = svc.GetByID(scoped(2), 1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.GetByID(context.Background(), 1)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Delete(t *testing.T) {
	svc, repo, inv := newService()
	ctx := scoped(project)
	require.NoError(t, svc.Create(ctx, receipt(project, 10, 10)))

	require.NoError(t, svc.Delete(ctx, 1))
	assert.False(t, repo.rows[0].IsLive())
	require.NotNil(t, repo.rows[0].DeletedBy)
	assert.Equal(t, int64(3), *repo.rows[0].DeletedBy)
	assert.Equal(t, []int64{project, project}, inv.projects)

	err := svc.Delete(ctx, 1)
	assert.True(t, apperror.IsNotFound(err), "deleted rows are not visible")

	list, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
