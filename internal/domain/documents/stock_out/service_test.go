package stock_out

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/entity"
	"jargas/internal/core/numerator"
	"jargas/internal/core/tx"
	"jargas/internal/core/types"
	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
)

const project = int64(1)

var day = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingInvalidator struct {
	mu       sync.Mutex
	projects []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, projectID int64) {
	r.mu.Lock()
	r.projects = append(r.projects, projectID)
	r.mu.Unlock()
}

type fixture struct {
	svc   *Service
	repo  *MockRepository
	gen   *numerator.MockGenerator
	txm   *tx.MockManager
	inval *recordingInvalidator
}

func newFixture() fixture {
	f := fixture{
		repo:  NewMockRepository(),
		gen:   &numerator.MockGenerator{},
		txm:   &tx.MockManager{},
		inval: &recordingInvalidator{},
	}
	f.svc = NewService(ServiceConfig{
		Repo: f.repo,
		Materials: &material.MockRepository{Items: []*material.Material{
			{BaseEntity: entity.BaseEntity{ID: 10}, ProjectID: project, NamaBarang: "Pipa PE", IsActive: true},
			{BaseEntity: entity.BaseEntity{ID: 11}, ProjectID: 2, NamaBarang: "Pipa PE", IsActive: true},
			{BaseEntity: entity.BaseEntity{ID: 12}, ProjectID: project, NamaBarang: "Lama", IsActive: false},
		}},
		Mandors: &mandor.MockRepository{Items: []*mandor.Mandor{
			{BaseEntity: entity.BaseEntity{ID: 5}, Nama: "Budi", IsActive: true},
		}},
		Numerator:   f.gen,
		TxManager:   f.txm,
		Retry:       &numerator.RetryPolicy{MaxAttempts: 5},
		Invalidator: f.inval,
	})
	return f
}

func scoped() context.Context {
	return appctx.WithActor(context.Background(), &appctx.ActorContext{ActorID: 3, ProjectID: project})
}

func TestService_Create(t *testing.T) {
	f := newFixture()
	doc := NewStockOut(project, 5, 10, types.NewQuantity(40), day, nil)

	require.NoError(t, f.svc.Create(scoped(), doc))

	assert.NotZero(t, doc.ID)
	assert.Equal(t, "JRGS-KDL-20250101-0001", doc.NomorBarangKeluar)
	assert.Equal(t, []int64{project}, f.inval.projects)
}

func TestService_Create_ConcurrentNumbersAreDense(t *testing.T) {
	f := newFixture()
	ctx := scoped()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := NewStockOut(project, 5, 10, types.NewQuantity(1), day, nil)
			assert.NoError(t, f.svc.Create(ctx, doc))
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, r := range f.repo.All() {
		seen[r.NomorBarangKeluar] = true
	}
	require.Len(t, seen, 10)
	for i := int64(1); i <= 10; i++ {
		assert.True(t, seen[numerator.StockOutConfig().Format(numerator.Scope{Date: day}, i)])
	}
}

func TestService_Create_RetriesTakenNumber(t *testing.T) {
	f := newFixture()
	f.repo.Put(&StockOut{
		BaseDocument:      entity.BaseDocument{BaseEntity: entity.BaseEntity{IsDeleted: entity.Deleted}, ProjectID: project},
		NomorBarangKeluar: "JRGS-KDL-20250101-0001",
	})

	doc := NewStockOut(project, 5, 10, types.NewQuantity(2), day, nil)
	require.NoError(t, f.svc.Create(scoped(), doc))

	assert.Equal(t, "JRGS-KDL-20250101-0002", doc.NomorBarangKeluar)
	assert.Equal(t, 2, f.txm.Calls())
}

func TestService_Create_GivesUpAfterRetries(t *testing.T) {
	f := newFixture()
	f.gen.NextNumberFunc = func(context.Context, numerator.Config, numerator.Scope) (string, error) {
		return "JRGS-KDL-20250101-0001", nil
	}
	f.repo.Put(&StockOut{NomorBarangKeluar: "JRGS-KDL-20250101-0001"})

	err := f.svc.Create(scoped(), NewStockOut(project, 5, 10, types.NewQuantity(2), day, nil))
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 5, f.txm.Calls())
	assert.Empty(t, f.inval.projects)
}

func TestService_Create_RejectsReferences(t *testing.T) {
	f := newFixture()
	ctx := scoped()

	err := f.svc.Create(ctx, NewStockOut(project, 5, 11, types.NewQuantity(1), day, nil))
	assert.True(t, apperror.IsValidation(err), "material of another project")

	err = f.svc.Create(ctx, NewStockOut(project, 5, 12, types.NewQuantity(1), day, nil))
	assert.True(t, apperror.IsValidation(err), "inactive material")

	err = f.svc.Create(ctx, NewStockOut(project, 6, 10, types.NewQuantity(1), day, nil))
	assert.True(t, apperror.IsNotFound(err), "unknown mandor")

	err = f.svc.Create(ctx, NewStockOut(project, 5, 10, types.NewQuantity(0), day, nil))
	assert.True(t, apperror.IsValidation(err), "zero quantity")

	assert.Empty(t, f.repo.All())
}

func TestService_GetByID_HidesOtherProjects(t *testing.T) {
	f := newFixture()
	other := f.repo.Put(&StockOut{BaseDocument: entity.BaseDocument{ProjectID: 2}, NomorBarangKeluar: "x"})

	_, err := f.svc.GetByID(scoped(), other.ID)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.GetByID(context.Background(), other.ID)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Delete(t *testing.T) {
	f := newFixture()
	ctx := scoped()

	used := f.repo.Put(&StockOut{BaseDocument: entity.BaseDocument{ProjectID: project}, NomorBarangKeluar: "a"})
	f.repo.Dependents[used.ID] = true
	err := f.svc.Delete(ctx, used.ID)
	assert.True(t, apperror.IsValidation(err))

	free := f.repo.Put(&StockOut{BaseDocument: entity.BaseDocument{ProjectID: project}, NomorBarangKeluar: "b"})
	require.NoError(t, f.svc.Delete(ctx, free.ID))

	stored, err := f.repo.GetByID(ctx, free.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLive())
	assert.Equal(t, int64(3), *stored.DeletedBy)

	err = f.svc.Delete(ctx, free.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStockOut_CheckLinkable(t *testing.T) {
	so := &StockOut{BaseDocument: entity.BaseDocument{ProjectID: project}, MandorID: 5, MaterialID: 10}

	assert.NoError(t, so.CheckLinkable(project, 10, 5))
	assert.True(t, apperror.IsValidation(so.CheckLinkable(2, 10, 5)))
	assert.True(t, apperror.IsValidation(so.CheckLinkable(project, 11, 5)))
	assert.True(t, apperror.IsValidation(so.CheckLinkable(project, 10, 6)))

	so.IsDeleted = entity.Deleted
	assert.True(t, apperror.IsValidation(so.CheckLinkable(project, 10, 5)))
}
