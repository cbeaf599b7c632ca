package metric_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klwxsrx/vocab-client/pkg/metric"
)

func TestPrometheus_CountsWithLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := metric.NewPrometheus("vocab", registry)

	metrics.With(metric.Labels{"outcome": "success"}).Increment("http_client_auth_refresh_total")
	metrics.With(metric.Labels{"outcome": "success"}).Increment("http_client_auth_refresh_total")
	metrics.With(metric.Labels{"outcome": "failure"}).Count("http_client_auth_refresh_total", 3)

	count, err := testutil.GatherAndCount(registry, "vocab_http_client_auth_refresh_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	values := map[string]float64{}
	for _, m := range families[0].GetMetric() {
		values[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"success": 2, "failure": 3}, values)
}

func TestPrometheus_ObservesDurations(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := metric.NewPrometheus("", registry)

	metrics.
		With(metric.Labels{"method": "GET"}).
		With(metric.Labels{"code": "200"}).
		Duration("http_client_request_duration_seconds", 120*time.Millisecond)

	count, err := testutil.GatherAndCount(registry, "http_client_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
