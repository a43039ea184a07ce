package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/numerator"
	"jargas/internal/core/tx"
	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/infrastructure/http/v1/handlers"
)

type apiFixture struct {
	router *httptestRouter
	repo   *stock_out.MockRepository
}

type httptestRouter struct {
	handler http.Handler
}

func (r *httptestRouter) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.handler.ServeHTTP(w, req)
	return w
}

func newAPIFixture(t *testing.T, checks map[string]handlers.Pinger) apiFixture {
	t.Helper()
	repo := stock_out.NewMockRepository()
	svc := stock_out.NewService(stock_out.ServiceConfig{
		Repo: repo,
		Materials: &material.MockRepository{Items: []*material.Material{
			{BaseEntity: entity.BaseEntity{ID: 10}, ProjectID: 1, NamaBarang: "Pipa PE 20mm", Satuan: "m", IsActive: true},
		}},
		Mandors: &mandor.MockRepository{Items: []*mandor.Mandor{
			{BaseEntity: entity.BaseEntity{ID: 5}, Nama: "Budi", IsActive: true},
		}},
		Numerator: &numerator.MockGenerator{},
		TxManager: &tx.MockManager{},
	})

	router, err := NewRouter(RouterConfig{
		AppName:      "jargas",
		MaxBodySize:  1 << 20,
		HealthChecks: checks,
		Services:     Services{StockOut: svc},
	})
	require.NoError(t, err)
	return apiFixture{router: &httptestRouter{handler: router}, repo: repo}
}

var projectOne = map[string]string{"X-Project-ID": "1", "X-Actor-ID": "7"}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestStockOutRoutes_CreateNumbersDocument(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.router.do(t, http.MethodPost, "/api/v1/stock-out",
		`{"mandorId":5,"materialId":10,"quantity":"12.50","tanggalKeluar":"2025-01-09"}`, projectOne)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "JRGS-KDL-20250109-0001", body["nomorBarangKeluar"])
	assert.Equal(t, 12.5, body["quantity"])
	assert.Equal(t, float64(7), body["createdBy"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	stored := f.repo.All()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(1), stored[0].ProjectID)
}

func TestStockOutRoutes_ProjectHeaderRequired(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.router.do(t, http.MethodPost, "/api/v1/stock-out",
		`{"mandorId":5,"materialId":10,"quantity":1,"tanggalKeluar":"2025-01-09"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])
	assert.Empty(t, f.repo.All())
}

func TestStockOutRoutes_MalformedHeaderRejected(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.router.do(t, http.MethodGet, "/api/v1/stock-out", "", map[string]string{"X-Project-ID": "abc"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.Equal(t, "X-Project-ID", body["details"].(map[string]any)["header"])
}

func TestStockOutRoutes_GetIsProjectScoped(t *testing.T) {
	f := newAPIFixture(t, nil)
	doc := f.repo.Put(&stock_out.StockOut{
		BaseDocument:      entity.NewBaseDocument(2, nil),
		NomorBarangKeluar: "JRGS-KDL-20250109-0001",
		MandorID:          5,
		MaterialID:        10,
	})

	w := f.router.do(t, http.MethodGet, "/api/v1/stock-out/1", "", projectOne)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.router.do(t, http.MethodGet, "/api/v1/stock-out/1", "", map[string]string{"X-Project-ID": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, doc.NomorBarangKeluar, decode(t, w)["nomorBarangKeluar"])

	w = f.router.do(t, http.MethodGet, "/api/v1/stock-out/x", "", projectOne)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockOutRoutes_DeleteRefusedWithDependents(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.repo.Put(&stock_out.StockOut{BaseDocument: entity.NewBaseDocument(1, nil), NomorBarangKeluar: "A", MandorID: 5, MaterialID: 10})
	f.repo.Put(&stock_out.StockOut{BaseDocument: entity.NewBaseDocument(1, nil), NomorBarangKeluar: "B", MandorID: 5, MaterialID: 10})
	f.repo.Dependents[1] = true

	w := f.router.do(t, http.MethodDelete, "/api/v1/stock-out/1", "", projectOne)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.router.do(t, http.MethodDelete, "/api/v1/stock-out/2", "", projectOne)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.router.do(t, http.MethodGet, "/api/v1/stock-out", "", projectOne)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["totalCount"])
}

func TestStockOutRoutes_InvalidBody(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.router.do(t, http.MethodPost, "/api/v1/stock-out",
		`{"mandorId":5,"materialId":10,"quantity":1,"tanggalKeluar":"09/01/2025"}`, projectOne)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode(t, w)["message"])
}

func TestUnwiredServicesHaveNoRoutes(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.router.do(t, http.MethodGet, "/api/v1/balance", "", projectOne)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthRoutes(t *testing.T) {
	down := errors.New("connection refused")
	f := newAPIFixture(t, map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(context.Context) error { return nil }),
		"redis":    handlers.PingFunc(func(context.Context) error { return down }),
		"skipped":  nil,
	})

	w := f.router.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.router.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unhealthy: connection refused", checks["redis"])
	assert.NotContains(t, checks, "skipped")
}
