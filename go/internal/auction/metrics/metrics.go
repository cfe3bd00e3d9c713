package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector defines the interface for collecting viewer metrics
type MetricsCollector interface {
	RecordInboundEvent(eventType string, ignored bool)
	RecordDecodeFailure(transport string)
	RecordOutboundEvent(eventType string, sent bool)
	RecordConnect(transport string, reconnect bool)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordInboundEvent(eventType string, ignored bool) {}
func (NoOpMetricsCollector) RecordDecodeFailure(transport string)              {}
func (NoOpMetricsCollector) RecordOutboundEvent(eventType string, sent bool)   {}
func (NoOpMetricsCollector) RecordConnect(transport string, reconnect bool)    {}

// PrometheusMetrics implements MetricsCollector using Prometheus
type PrometheusMetrics struct {
	inboundEvents  *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	outboundEvents *prometheus.CounterVec
	connects       *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		inboundEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction_viewer",
			Name:      "inbound_events_total",
			Help:      "Inbound auction events applied to the view state.",
		}, []string{"type", "ignored"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction_viewer",
			Name:      "decode_failures_total",
			Help:      "Inbound frames that could not be decoded and were dropped.",
		}, []string{"transport"}),
		outboundEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction_viewer",
			Name:      "outbound_events_total",
			Help:      "Outbound intents handed to the transport.",
		}, []string{"type", "sent"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction_viewer",
			Name:      "connects_total",
			Help:      "Channel establishments, initial and reconnect.",
		}, []string{"transport", "reconnect"}),
	}

	for _, c := range []prometheus.Collector{m.inboundEvents, m.decodeFailures, m.outboundEvents, m.connects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordInboundEvent(eventType string, ignored bool) {
	m.inboundEvents.WithLabelValues(eventType, strconv.FormatBool(ignored)).Inc()
}

func (m *PrometheusMetrics) RecordDecodeFailure(transport string) {
	m.decodeFailures.WithLabelValues(transport).Inc()
}

func (m *PrometheusMetrics) RecordOutboundEvent(eventType string, sent bool) {
	m.outboundEvents.WithLabelValues(eventType, strconv.FormatBool(sent)).Inc()
}

func (m *PrometheusMetrics) RecordConnect(transport string, reconnect bool) {
	m.connects.WithLabelValues(transport, strconv.FormatBool(reconnect)).Inc()
}
