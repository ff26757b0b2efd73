package metrics

import "github.com/prometheus/client_golang/prometheus"

// prom.go - prometheus exposition for a Collector.
//
// The bridge reads the atomic counters on every scrape instead of
// double-counting into prometheus types, so the Collector stays the
// single source of truth.

var (
	descSendTotal = prometheus.NewDesc(
		"logship_send_total",
		"Total number of Send calls.",
		nil, nil,
	)
	descSendErrors = prometheus.NewDesc(
		"logship_send_errors_total",
		"Send calls that failed after exhausting every retry.",
		nil, nil,
	)
	descTryErrors = prometheus.NewDesc(
		"logship_attempt_errors_total",
		"Individual failed send attempts, including recovered ones.",
		nil, nil,
	)
	descConnections = prometheus.NewDesc(
		"logship_connections_total",
		"Transports established over the sender lifetime.",
		nil, nil,
	)
	descSendSeconds = prometheus.NewDesc(
		"logship_send_duration_seconds_total",
		"Cumulative wall time spent inside Send, retries included.",
		nil, nil,
	)
)

// PrometheusBridge exposes a Collector's counters as prometheus
// metrics.  It implements prometheus.Collector.
type PrometheusBridge struct {
	c *Collector
}

// NewPrometheusBridge wraps c for registration with a prometheus
// registry.
func NewPrometheusBridge(c *Collector) *PrometheusBridge {
	return &PrometheusBridge{c: c}
}

// Describe implements prometheus.Collector.
func (b *PrometheusBridge) Describe(ch chan<- *prometheus.Desc) {
	ch <- descSendTotal
	ch <- descSendErrors
	ch <- descTryErrors
	ch <- descConnections
	ch <- descSendSeconds
}

// Collect implements prometheus.Collector.
func (b *PrometheusBridge) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		descSendTotal, prometheus.CounterValue, float64(b.c.SendCount()))
	ch <- prometheus.MustNewConstMetric(
		descSendErrors, prometheus.CounterValue, float64(b.c.SendErrorCount()))
	ch <- prometheus.MustNewConstMetric(
		descTryErrors, prometheus.CounterValue, float64(b.c.TryErrorCount()))
	ch <- prometheus.MustNewConstMetric(
		descConnections, prometheus.CounterValue, float64(b.c.ConnectionCount()))
	ch <- prometheus.MustNewConstMetric(
		descSendSeconds, prometheus.CounterValue, b.c.SendDuration().Seconds())
}
