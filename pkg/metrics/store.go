package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records state container and persistence activity.
type StoreMetrics struct {
	actions   *prometheus.CounterVec
	writes    *prometheus.CounterVec
	rehydrate *prometheus.CounterVec
	degraded  *prometheus.CounterVec
	purge     *prometheus.HistogramVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_actions_total",
		Help: "Actions dispatched into the state container.",
	}, []string{"action"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_persist_writes_total",
		Help: "State snapshots written to durable storage.",
	}, []string{"result"})
	rehydrate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_rehydrate_total",
		Help: "Startup rehydration outcomes.",
	}, []string{"outcome"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_persist_degraded_total",
		Help: "Startup persistence failures that fell back to in-memory operation.",
	}, []string{"stage"})
	purge := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_purge_duration_seconds",
		Help:    "Duration of the logout purge sequence.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(actions, writes, rehydrate, degraded, purge)
	return &StoreMetrics{
		actions:   actions,
		writes:    writes,
		rehydrate: rehydrate,
		degraded:  degraded,
		purge:     purge,
	}
}

// IncAction counts a dispatched action by type.
func (m *StoreMetrics) IncAction(action string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncWrite counts a persistence write attempt by result.
func (m *StoreMetrics) IncWrite(result string) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncRehydrate counts a rehydration outcome.
func (m *StoreMetrics) IncRehydrate(outcome string) {
	if m == nil || m.rehydrate == nil {
		return
	}
	m.rehydrate.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDegraded counts a startup stage that fell back to in-memory persistence.
func (m *StoreMetrics) IncDegraded(stage string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.WithLabelValues(normalizeLabel(stage)).Inc()
}

// ObservePurge records how long a logout purge took.
func (m *StoreMetrics) ObservePurge(outcome string, duration time.Duration) {
	if m == nil || m.purge == nil {
		return
	}
	m.purge.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
