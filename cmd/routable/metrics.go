package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/observability"
)

// createMetricsServer creates the HTTP server for metrics and the
// inspection endpoints.
func createMetricsServer(
	addr string,
	path string,
	metrics *observability.Metrics,
	timeline *inspect.Timeline,
	logger observability.Logger,
) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	mux.HandleFunc("/debug/timeline", jsonHandler(func() any { return timeline.Events() }))
	mux.HandleFunc("/debug/routables", jsonHandler(func() any { return timeline.Active() }))

	logger.Info("starting metrics server",
		observability.String("address", addr),
		observability.String("metrics_path", path),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

func jsonHandler(snapshot func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot())
	}
}

// runMetricsServer runs the metrics HTTP server.
func runMetricsServer(server *http.Server, logger observability.Logger) {
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", observability.Error(err))
	}
}

// startMetricsServerIfEnabled starts the metrics server if enabled.
func startMetricsServerIfEnabled(app *application, logger observability.Logger) {
	m := app.config.Observability.Metrics
	if !m.Enabled {
		return
	}

	app.metricsServer = createMetricsServer(m.Address, m.Path, app.metrics, app.timeline, logger)
	go runMetricsServer(app.metricsServer, logger)
}
