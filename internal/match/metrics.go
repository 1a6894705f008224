package match

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// compileMetrics observes the compiled expression cache.
type compileMetrics struct {
	lookups   *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

var (
	compileMetricsInstance *compileMetrics
	compileMetricsOnce     sync.Once
)

func getCompileMetrics() *compileMetrics {
	compileMetricsOnce.Do(func() {
		compileMetricsInstance = &compileMetrics{
			lookups: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "routable",
					Subsystem: "match",
					Name:      "compile_cache_lookups_total",
					Help:      "Compiled expression cache lookups by source kind and result",
				},
				[]string{"kind", "result"},
			),
			evictions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "routable",
					Subsystem: "match",
					Name:      "compile_cache_evictions_total",
					Help:      "Compiled expressions evicted from the cache by source kind",
				},
				[]string{"kind"},
			),
			entries: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "routable",
					Subsystem: "match",
					Name:      "compile_cache_entries",
					Help:      "Compiled expressions held in the cache by source kind",
				},
				[]string{"kind"},
			),
		}
	})
	return compileMetricsInstance
}
