package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	WarmSuccess = "success"
	WarmFailure = "failure"
	WarmSkipped = "skipped"
)

// WarmMetrics records cache warm cycles.
type WarmMetrics struct {
	duration prometheus.Histogram
	runs     *prometheus.CounterVec
}

// NewWarmMetrics registers the warmer metrics on the provided registerer.
func NewWarmMetrics(reg prometheus.Registerer) *WarmMetrics {
	if reg == nil {
		return &WarmMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_cache_warm_duration_seconds",
		Help:    "Duration of cache warm cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_warm_total",
		Help: "Cache warm cycles by result.",
	}, []string{"result"})
	reg.MustRegister(duration, runs)
	return &WarmMetrics{duration: duration, runs: runs}
}

// ObserveCycle records one completed cycle.
func (m *WarmMetrics) ObserveCycle(result string, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(result)).Inc()
	if result != WarmSkipped && m.duration != nil {
		m.duration.Observe(duration.Seconds())
	}
}
