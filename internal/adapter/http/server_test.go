package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/weather-data-etl/internal/adapter/http"
	"github.com/couchcryptid/weather-data-etl/internal/pipeline"
)

type mockRunner struct {
	err      error
	status   pipeline.Status
	deadline time.Time
}

func (m *mockRunner) CheckReadiness(ctx context.Context) error {
	m.deadline, _ = ctx.Deadline()
	return m.err
}

func (m *mockRunner) Status() pipeline.Status { return m.status }

func newTestServer(runner *mockRunner) *httpadapter.Server {
	return httpadapter.NewServer(":0", runner, slog.Default())
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockRunner{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"ready", nil, http.StatusOK, "ready"},
		{"not ready", fmt.Errorf("no run yet"), http.StatusServiceUnavailable, "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&mockRunner{err: tt.err}), "/readyz")

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestReadyzBoundsReadinessCheck(t *testing.T) {
	runner := &mockRunner{}
	start := time.Now()

	rec := get(t, newTestServer(runner), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.False(t, runner.deadline.IsZero(), "readiness check runs without a deadline")
	assert.WithinDuration(t, start.Add(2*time.Second), runner.deadline, time.Second)
}

func TestStatusReturnsRunHistory(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runner := &mockRunner{status: pipeline.Status{
		Runs:          3,
		Failures:      1,
		LastRunAt:     at,
		LastSuccessAt: at,
		LastRows:      24,
	}}

	rec := get(t, newTestServer(runner), "/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got pipeline.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, runner.status, got)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockRunner{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
