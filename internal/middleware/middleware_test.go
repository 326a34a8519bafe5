package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
	status int
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	if d.status != 0 {
		w.WriteHeader(d.status)
	}
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID_Generated(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	RequestID(dummy).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/animals", nil))

	require.True(t, dummy.called)
	id := GetRequestIDFromContext(dummy.ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Kept(t *testing.T) {
	dummy := &dummyHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/animals", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	RequestID(dummy).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", GetRequestIDFromContext(dummy.ctx))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestGetRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestID(Logger(zap.New(core))(&dummyHandler{status: http.StatusNotFound}))

	req := httptest.NewRequest(http.MethodDelete, "/api/animals/5", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "DELETE", fields["method"])
	assert.Equal(t, "/api/animals/5", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.EqualValues(t, 2, fields["size"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestLogger_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logger(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
}

func TestCORS(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	CORS(dummy).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/donors", nil))

	assert.False(t, dummy.called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS(dummy).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/donors", nil))
	assert.True(t, dummy.called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
