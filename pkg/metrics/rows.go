package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeFound  = "found"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// RowMetrics records latest-row lookups against the data source.
type RowMetrics struct {
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewRowMetrics registers the row metrics on the provided registerer. A nil
// registerer yields a recorder that drops every observation.
func NewRowMetrics(reg prometheus.Registerer) *RowMetrics {
	if reg == nil {
		return &RowMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_row_fetch_duration_seconds",
		Help:    "Duration of latest-row queries against the data source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_row_cache_total",
		Help: "Row cache lookups by result.",
	}, []string{"table", "result"})
	reg.MustRegister(duration, cache)
	return &RowMetrics{
		duration: duration,
		cache:    cache,
	}
}

// ObserveFetch records one source query for table.
func (m *RowMetrics) ObserveFetch(table, outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(table), normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCache counts one cache lookup for table.
func (m *RowMetrics) IncCache(table, result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(table), normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
