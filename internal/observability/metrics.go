package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingest and forecast loops.
type Metrics struct {
	ReadingsConsumed prometheus.Counter
	ReadingsDropped  prometheus.Counter
	CyclesTotal      prometheus.Counter
	CycleErrors      prometheus.Counter
	ReportsPublished prometheus.Counter

	CycleDuration   prometheus.Histogram
	AlertLevel      prometheus.Gauge
	ForecastRunning prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marinecast",
			Name:      "readings_consumed_total",
			Help:      "Total sensor readings accepted from the telemetry topic.",
		}),
		ReadingsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marinecast",
			Name:      "readings_dropped_total",
			Help:      "Total telemetry messages dropped as unparseable or unknown.",
		}),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marinecast",
			Name:      "forecast_cycles_total",
			Help:      "Total forecast cycles run.",
		}),
		CycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marinecast",
			Name:      "forecast_cycle_errors_total",
			Help:      "Total forecast cycles that failed to publish.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marinecast",
			Name:      "reports_published_total",
			Help:      "Total forecast reports written to the forecast topic.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marinecast",
			Name:      "forecast_cycle_duration_seconds",
			Help:      "Duration of a complete forecast cycle including publish.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		AlertLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marinecast",
			Name:      "alert_level",
			Help:      "Current aggregated alert level from the latest report.",
		}),
		ForecastRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marinecast",
			Name:      "forecast_running",
			Help:      "1 when the forecast loop is active, 0 when shut down.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsConsumed,
		m.ReadingsDropped,
		m.CyclesTotal,
		m.CycleErrors,
		m.ReportsPublished,
		m.CycleDuration,
		m.AlertLevel,
		m.ForecastRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
