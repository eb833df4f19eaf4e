package stock

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics covers the reconciliation path. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	sweeps        prometheus.Counter
	sweepDuration prometheus.Histogram
	drift         prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shop_stock_sweeps_total",
			Help: "Completed reconciliation sweeps over the full registry.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shop_stock_sweep_duration_seconds",
			Help:    "Duration of full reconciliation sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
		drift: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shop_stock_drift_total",
			Help: "Reconciliations that found the cached stock out of date.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.sweeps, m.sweepDuration, m.drift)
	}
	return m
}

func (m *Metrics) ObserveSweep(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sweeps.Inc()
	m.sweepDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDrift() {
	if m == nil {
		return
	}
	m.drift.Inc()
}
