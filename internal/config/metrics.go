package config

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Names of the builtin metrics always present in a built Config. They are
// reserved and cannot be used for user-defined metrics.
const (
	DBErrorsMetricName = "database_errors"
	QueriesMetricName  = "queries"
)

// GlobalMetrics returns the builtin metric definitions: a counter for
// database errors and a counter for query executions by status. Their label
// sets are fixed and exempt from label reconciliation.
func GlobalMetrics() map[string]Metric {
	return map[string]Metric{
		DBErrorsMetricName: {
			Name:        DBErrorsMetricName,
			Type:        "counter",
			Description: "Number of database errors",
			Labels:      []string{DatabaseLabel},
		},
		QueriesMetricName: {
			Name:        QueriesMetricName,
			Type:        "counter",
			Description: "Number of database queries",
			Labels:      []string{DatabaseLabel, "status"},
		},
	}
}

// Collector builds the prometheus vector for the metric, with its effective
// label set. Registration is up to the caller. An enum is reported as a
// gauge holding the active state index.
func (m Metric) Collector() prometheus.Collector {
	switch m.Type {
	case "counter":
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: m.Name,
			Help: m.Description,
		}, m.Labels)
	case "histogram":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    m.Name,
			Help:    m.Description,
			Buckets: m.Buckets,
		}, m.Labels)
	case "summary":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name: m.Name,
			Help: m.Description,
		}, m.Labels)
	default: // gauge, enum
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: m.Name,
			Help: m.Description,
		}, m.Labels)
	}
}
