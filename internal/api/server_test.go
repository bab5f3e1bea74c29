package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "sitescout_test_total"})
	reg.MustRegister(counter)
	counter.Inc()
	return NewServer(reg, nil)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestReadyzFollowsReadiness(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec := get(t, srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv.SetReady(true)
	rec = get(t, srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsServesRegistry(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sitescout_test_total 1")
}

func TestLatestReport(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec := get(t, srv, "/v1/report/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	payload := []byte(`{"timestamp":"2026-08-27 10:00:00","categories":{}}`)
	srv.SetLatest(payload)

	rec = get(t, srv, "/v1/report/latest")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, payload, rec.Body.Bytes())

	// Publishing a report also flips readiness.
	rec = get(t, srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
