package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/observability"
)

func TestCreateMetricsServer(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	app.replay(t.Context())

	server := createMetricsServer(":0", "/metrics", app.metrics, app.timeline, observability.NopLogger())
	assert.Equal(t, ":0", server.Addr)
	assert.NotZero(t, server.ReadHeaderTimeout)

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "simtest_navigations_total")
	})

	t.Run("timeline", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/timeline", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var events []inspect.Event
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
		assert.NotEmpty(t, events)
	})

	t.Run("routables", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/routables", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var active []inspect.ActiveRoutable
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/timeline", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
	})
}
