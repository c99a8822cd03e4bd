package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/refdata"
)

type stubReadiness struct {
	ready bool
	at    time.Time
}

func (s stubReadiness) Ready() bool         { return s.ready }
func (s stubReadiness) LoadedAt() time.Time { return s.at }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]string
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRouter_Health(t *testing.T) {
	h := newRouter(stubReadiness{}, "1.2.3", logger.NewTestLogger(t))

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestRouter_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{"not loaded", stubReadiness{}, http.StatusServiceUnavailable, "loading"},
		{"loaded", stubReadiness{ready: true, at: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)}, http.StatusOK, "ready"},
		{"static provider", refdata.NewStaticProvider(refdata.NewMemoryStore(refdata.Dataset{})), http.StatusOK, "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, newRouter(tt.checker, "dev", logger.NewTestLogger(t)), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, body["status"])
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec, _ := get(t, newRouter(stubReadiness{}, "dev", logger.NewTestLogger(t)), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
