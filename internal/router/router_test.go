package router

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterMetricsAreRegistered(t *testing.T) {
	metrics := initRouterMetrics("routertest")

	metrics.requestTotal.WithLabelValues("GET", "/stocks", "200").Inc()
	metrics.requestDuration.WithLabelValues("GET", "/stocks", "200").Observe(0.01)
	metrics.errorTotal.WithLabelValues("GET", "/stocks", "http").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := make(map[string]bool)
	for _, fam := range families {
		found[fam.GetName()] = true
	}

	// Observations must surface through the default registry, which is what
	// the metrics endpoint serves.
	assert.True(t, found["routertest_requests_total"])
	assert.True(t, found["routertest_request_duration_seconds"])
	assert.True(t, found["routertest_errors_total"])
}
