package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rule-consistency monitor.
type Metrics struct {
	// Check outcomes by verdict
	CheckOutcome *prometheus.CounterVec

	// Full check duration including fetch and extraction
	CheckLatency prometheus.Histogram
}

// New creates a new Metrics instance with all monitor metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pointsgate_rulecheck_outcomes_total",
			Help: "Total rule check outcomes by verdict",
		}, []string{"verdict"}), // verdict: "match", "mismatch", "error"

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pointsgate_rulecheck_duration_seconds",
			Help:    "Duration of a full rule check including fetch and extraction",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementOutcome records one check verdict.
func (m *Metrics) IncrementOutcome(verdict string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(verdict).Inc()
	}
}

// ObserveCheckLatency records the duration of a full check.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
