package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the API. All methods are safe
// on a nil receiver so packages can record without checking for setup.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	FormValidations *prometheus.CounterVec
	AutomationTests *prometheus.CounterVec
	SchemaCache     *prometheus.CounterVec

	WebSocketConnections prometheus.Gauge
	WebSocketMessages    *prometheus.CounterVec
}

var (
	globalMetrics *Metrics
	initOnce      sync.Once
)

// Init registers the collectors with the default registry once.
func Init() *Metrics {
	initOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ora_boards_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			}, []string{"method", "route", "status"}),

			HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "ora_boards_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			}, []string{"method", "route"}),

			FormValidations: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ora_boards_form_validations_total",
				Help: "Form validations by outcome",
			}, []string{"result"}), // valid | invalid

			AutomationTests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ora_boards_automation_tests_total",
				Help: "Automation dry runs by outcome",
			}, []string{"result"}),

			SchemaCache: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ora_boards_schema_cache_lookups_total",
				Help: "Board schema cache lookups by result",
			}, []string{"result"}), // hit | miss

			WebSocketConnections: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "ora_boards_websocket_connections_active",
				Help: "Number of active WebSocket connections",
			}),

			WebSocketMessages: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "ora_boards_websocket_messages_total",
				Help: "WebSocket messages broadcast by type",
			}, []string{"type"}),
		}
	})
	return globalMetrics
}

// Get returns the registered metrics, or nil before Init.
func Get() *Metrics {
	return globalMetrics
}

func (m *Metrics) RecordRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordValidation(valid bool) {
	if m == nil {
		return
	}
	m.FormValidations.WithLabelValues(outcome(valid, "valid", "invalid")).Inc()
}

func (m *Metrics) RecordAutomationTest(success bool) {
	if m == nil {
		return
	}
	m.AutomationTests.WithLabelValues(outcome(success, "passed", "failed")).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	m.SchemaCache.WithLabelValues(outcome(hit, "hit", "miss")).Inc()
}

func (m *Metrics) RecordWebSocketConnect() {
	if m == nil {
		return
	}
	m.WebSocketConnections.Inc()
}

func (m *Metrics) RecordWebSocketDisconnect() {
	if m == nil {
		return
	}
	m.WebSocketConnections.Dec()
}

func (m *Metrics) RecordWebSocketMessage(msgType string) {
	if m == nil {
		return
	}
	m.WebSocketMessages.WithLabelValues(msgType).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
