package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the dispatcher.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	callbacksTotal     *prometheus.CounterVec
	callbackDuration   *prometheus.HistogramVec
	navigationDuration prometheus.Histogram
	lazyModulesLoaded  prometheus.Counter
	registry           *prometheus.Registry
}

// NewMetrics creates a new Metrics instance with its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "routable"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.navigationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of dispatched navigations by outcome",
		},
		[]string{"outcome"},
	)

	m.callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Total number of lifecycle callbacks by phase and result",
		},
		[]string{"phase", "result"},
	)

	m.callbackDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "callback_duration_seconds",
			Help:      "Lifecycle callback duration in seconds",
			Buckets: []float64{
				.0001, .0005, .001, .005, .01,
				.05, .1, .5, 1, 5,
			},
		},
		[]string{"phase"},
	)

	m.navigationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "navigation_duration_seconds",
			Help:      "Navigation dispatch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.lazyModulesLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lazy_modules_loaded_total",
			Help:      "Total number of lazily loaded routable modules",
		},
	)

	m.registry.MustRegister(
		m.navigationsTotal,
		m.callbacksTotal,
		m.callbackDuration,
		m.navigationDuration,
		m.lazyModulesLoaded,
	)

	return m
}

// RecordNavigation records a finished navigation.
func (m *Metrics) RecordNavigation(outcome string, duration time.Duration) {
	m.navigationsTotal.WithLabelValues(outcome).Inc()
	m.navigationDuration.Observe(duration.Seconds())
}

// RecordCallback records one guard, handler or watcher invocation.
func (m *Metrics) RecordCallback(phase, result string, duration time.Duration) {
	m.callbacksTotal.WithLabelValues(phase, result).Inc()
	m.callbackDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordLazyModuleLoaded records a lazily loaded module.
func (m *Metrics) RecordLazyModuleLoaded() {
	m.lazyModulesLoaded.Inc()
}

// Handler returns an HTTP handler serving the private registry together
// with the default Prometheus registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{m.registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
