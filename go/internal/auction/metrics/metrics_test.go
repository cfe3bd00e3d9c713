package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	m.RecordInboundEvent("bid_update", false)
	m.RecordInboundEvent("bid_update", false)
	m.RecordInboundEvent("bid_update", true)
	m.RecordDecodeFailure("websocket")
	m.RecordOutboundEvent("place_bid", true)
	m.RecordConnect("websocket", false)
	m.RecordConnect("websocket", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.inboundEvents.WithLabelValues("bid_update", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inboundEvents.WithLabelValues("bid_update", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeFailures.WithLabelValues("websocket")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboundEvents.WithLabelValues("place_bid", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connects.WithLabelValues("websocket", "true")))
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg)
	assert.Error(t, err)
}

func TestNoOpMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoOpMetricsCollector{}

	assert.NotPanics(t, func() {
		mc.RecordInboundEvent("tick", false)
		mc.RecordDecodeFailure("nats")
		mc.RecordOutboundEvent("join_auction", false)
		mc.RecordConnect("nats", true)
	})
}
