package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Feature packages carry
// their own Metrics structs; this one covers cross-cutting counters.
type Metrics struct {
	ScoresComputed *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ScoresComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pointsgate_scores_computed_total",
			Help: "Total number of eligibility scores computed, by calculation method",
		}, []string{"method"}),
	}
}

// IncrementScoresComputed records one completed score for the given method tag.
func (m *Metrics) IncrementScoresComputed(method string) {
	if m == nil {
		return
	}
	m.ScoresComputed.WithLabelValues(method).Inc()
}
