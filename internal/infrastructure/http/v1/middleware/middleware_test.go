package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler(), Actor())
	r.GET("/t", handler)
	return r
}

func serve(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	var seen string
	r := newEngine(func(c *gin.Context) {
		seen = appctx.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := serve(r, map[string]string{HeaderRequestID: "req-42"})
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	w = serve(r, nil)
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

func TestActor_SetsContext(t *testing.T) {
	var actor *appctx.ActorContext
	r := newEngine(func(c *gin.Context) {
		actor = appctx.GetActor(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	serve(r, map[string]string{HeaderActorID: "7", HeaderProjectID: "3"})
	require.NotNil(t, actor)
	assert.Equal(t, int64(7), actor.ActorID)
	assert.Equal(t, int64(3), actor.ProjectID)

	actor = nil
	serve(r, nil)
	assert.Nil(t, actor)

	w := serve(r, map[string]string{HeaderActorID: "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apperror.NewConflict("could not allocate a number, retry").WithDetail("series", "stock_out"))
	})

	w := serve(r, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	b := body(t, w)
	assert.Equal(t, apperror.CodeConflict, b["code"])
	assert.Equal(t, "stock_out", b["details"].(map[string]any)["series"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: password authentication failed"))
	})

	w := serve(r, map[string]string{HeaderRequestID: "req-1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	b := body(t, w)
	assert.Equal(t, apperror.CodeInternal, b["code"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.Equal(t, "req-1", b["details"].(map[string]any)["request_id"])
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		panic("boom")
	})

	w := serve(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body(t, w)["code"])
	assert.NotContains(t, w.Body.String(), "boom")
}
