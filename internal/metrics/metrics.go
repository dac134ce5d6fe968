package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	Registry        *prometheus.Registry
	AccessDecisions *prometheus.CounterVec
	RecordsFiltered *prometheus.CounterVec
	DigestRuns      *prometheus.CounterVec
}

// NewMetrics registers the application collectors on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		AccessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitstaff",
			Name:      "access_decisions_total",
			Help:      "Route guard decisions by guard kind and result.",
		}, []string{"kind", "result"}),
		RecordsFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitstaff",
			Name:      "records_filtered_total",
			Help:      "Records hidden from list results by data access rules.",
		}, []string{"data_type"}),
		DigestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitstaff",
			Name:      "report_digest_runs_total",
			Help:      "Scheduled report digest runs by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AccessDecisions,
		m.RecordsFiltered,
		m.DigestRuns,
	)
	return m
}

// ObserveDecision counts one guard decision
func (m *Metrics) ObserveDecision(kind string, allowed bool) {
	if m == nil {
		return
	}
	result := "deny"
	if allowed {
		result = "allow"
	}
	m.AccessDecisions.WithLabelValues(kind, result).Inc()
}

// ObserveFiltered counts records removed by FilterByAccess
func (m *Metrics) ObserveFiltered(dataType string, hidden int) {
	if m == nil || hidden <= 0 {
		return
	}
	m.RecordsFiltered.WithLabelValues(dataType).Add(float64(hidden))
}

// ObserveDigest counts one digest run
func (m *Metrics) ObserveDigest(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DigestRuns.WithLabelValues(result).Inc()
}
