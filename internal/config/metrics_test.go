package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalMetrics(t *testing.T) {
	metrics := GlobalMetrics()
	require.Contains(t, metrics, DBErrorsMetricName)
	require.Contains(t, metrics, QueriesMetricName)

	errors := metrics[DBErrorsMetricName]
	assert.Equal(t, "counter", errors.Type)
	assert.Equal(t, []string{"database"}, errors.Labels)

	queries := metrics[QueriesMetricName]
	assert.Equal(t, "counter", queries.Type)
	assert.Equal(t, []string{"database", "status"}, queries.Labels)
}

func TestMetricCollector(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
	}{
		{"Counter", Metric{Name: "m1", Type: "counter", Labels: []string{"database"}}},
		{"Gauge", Metric{Name: "m2", Type: "gauge", Labels: []string{"database", "l1"}}},
		{"Enum", Metric{Name: "m3", Type: "enum", Labels: []string{"database"}, States: []string{"on", "off"}}},
		{"Histogram", Metric{Name: "m4", Type: "histogram", Labels: []string{"database"}, Buckets: []float64{10, 100, 1000}}},
		{"Summary", Metric{Name: "m5", Type: "summary", Labels: []string{"database"}}},
	}
	registry := prometheus.NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := tt.metric.Collector()
			require.NotNil(t, collector)
			assert.NoError(t, registry.Register(collector))
		})
	}
}
