package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the method selector.
type Metrics struct {
	// Selected calculation method per score computation
	MethodSelected *prometheus.CounterVec

	// Verdict cache refreshes
	CacheRefreshes prometheus.Counter

	// End-to-end score computation latency
	ComputeLatency prometheus.Histogram
}

// New creates a new Metrics instance with all selector metrics registered.
func New() *Metrics {
	return &Metrics{
		MethodSelected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pointsgate_selector_method_total",
			Help: "Total score computations by selected calculation method",
		}, []string{"method"}),

		CacheRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pointsgate_selector_cache_refreshes_total",
			Help: "Total rule-check verdict cache refreshes",
		}),

		ComputeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pointsgate_selector_compute_duration_seconds",
			Help:    "Duration of a full score computation including any rule check",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		}),
	}
}

// IncrementMethod records one computation under the given method tag.
func (m *Metrics) IncrementMethod(method string) {
	if m != nil {
		m.MethodSelected.WithLabelValues(method).Inc()
	}
}

// IncrementCacheRefresh records one verdict refresh.
func (m *Metrics) IncrementCacheRefresh() {
	if m != nil {
		m.CacheRefreshes.Inc()
	}
}

// ObserveComputeLatency records the duration of a full computation.
func (m *Metrics) ObserveComputeLatency(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}
