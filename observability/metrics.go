package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records state machine activity: how many state changes were
// applied, how many events they produced, how long dispatching took, and how
// many records the write-ahead log appended.
type Metrics struct {
	stateChanges prometheus.Counter
	events       prometheus.Counter
	batchErrors  prometheus.Counter
	latency      prometheus.Histogram
	walAppends   prometheus.Counter
	snapshots    prometheus.Counter
}

var (
	dispatchMetricsOnce sync.Once
	dispatchRegistry    *Metrics
)

// DispatchMetrics returns the lazily-initialised dispatch metrics registry.
func DispatchMetrics() *Metrics {
	dispatchMetricsOnce.Do(func() {
		dispatchRegistry = &Metrics{
			stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paych",
				Subsystem: "state",
				Name:      "changes_applied_total",
				Help:      "Total state changes applied by the state manager.",
			}),
			events: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paych",
				Subsystem: "state",
				Name:      "events_produced_total",
				Help:      "Total events produced by state transitions.",
			}),
			batchErrors: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paych",
				Subsystem: "state",
				Name:      "batch_errors_total",
				Help:      "Total dispatched batches aborted by a transition contract violation.",
			}),
			latency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "paych",
				Subsystem: "state",
				Name:      "dispatch_duration_seconds",
				Help:      "Latency distribution of state change batch dispatches.",
				Buckets:   prometheus.DefBuckets,
			}),
			walAppends: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paych",
				Subsystem: "wal",
				Name:      "appends_total",
				Help:      "Total state change records appended to the write-ahead log.",
			}),
			snapshots: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "paych",
				Subsystem: "wal",
				Name:      "snapshots_total",
				Help:      "Total state snapshots stored in the write-ahead log.",
			}),
		}
		prometheus.MustRegister(
			dispatchRegistry.stateChanges,
			dispatchRegistry.events,
			dispatchRegistry.batchErrors,
			dispatchRegistry.latency,
			dispatchRegistry.walAppends,
			dispatchRegistry.snapshots,
		)
	})
	return dispatchRegistry
}

// ObserveBatch records one successfully dispatched batch.
func (m *Metrics) ObserveBatch(changes, events int, duration time.Duration) {
	if m == nil {
		return
	}
	m.stateChanges.Add(float64(changes))
	m.events.Add(float64(events))
	m.latency.Observe(duration.Seconds())
}

// ObserveBatchError records a batch aborted by a contract violation.
func (m *Metrics) ObserveBatchError() {
	if m == nil {
		return
	}
	m.batchErrors.Inc()
}

// ObserveAppend records one write-ahead log append.
func (m *Metrics) ObserveAppend() {
	if m == nil {
		return
	}
	m.walAppends.Inc()
}

// ObserveSnapshot records one stored snapshot.
func (m *Metrics) ObserveSnapshot() {
	if m == nil {
		return
	}
	m.snapshots.Inc()
}
