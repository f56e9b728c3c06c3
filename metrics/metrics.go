package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the service.
type Metrics struct {
	Registry             *prometheus.Registry
	VerificationsTotal   *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	ActiveVerifications  prometheus.Gauge
	RowsExtractedTotal   prometheus.Counter
	CatalogReadsTotal    *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	verifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcheck_verifications_total",
			Help: "Total verification runs by status and failure kind.",
		},
		[]string{"status", "kind"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shelfcheck_verification_duration_seconds",
			Help:    "End-to-end verification latency, browser launch included.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
	)
	active := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelfcheck_active_verifications",
			Help: "Verification runs currently holding a browser session.",
		},
	)
	rows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shelfcheck_rows_extracted_total",
			Help: "Total table rows accepted during extraction.",
		},
	)
	catalogReads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfcheck_catalog_reads_total",
			Help: "Total catalog file reads by result code.",
		},
		[]string{"result"},
	)

	registry.MustRegister(verifications, duration, active, rows, catalogReads)

	return &Metrics{
		Registry:             registry,
		VerificationsTotal:   verifications,
		VerificationDuration: duration,
		ActiveVerifications:  active,
		RowsExtractedTotal:   rows,
		CatalogReadsTotal:    catalogReads,
	}
}

// ObserveVerification records one finished run.
func (m *Metrics) ObserveVerification(status, kind string, d time.Duration) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "none"
	}
	m.VerificationsTotal.WithLabelValues(status, kind).Inc()
	m.VerificationDuration.Observe(d.Seconds())
}

// IncActive marks a run as holding a browser session.
func (m *Metrics) IncActive() {
	if m == nil {
		return
	}
	m.ActiveVerifications.Inc()
}

// DecActive releases a run's slot in the active gauge.
func (m *Metrics) DecActive() {
	if m == nil {
		return
	}
	m.ActiveVerifications.Dec()
}

// AddRows counts accepted table rows.
func (m *Metrics) AddRows(n int) {
	if m == nil {
		return
	}
	m.RowsExtractedTotal.Add(float64(n))
}

// IncCatalogRead counts a catalog read; result is "ok" or an error code.
func (m *Metrics) IncCatalogRead(result string) {
	if m == nil {
		return
	}
	m.CatalogReadsTotal.WithLabelValues(result).Inc()
}
