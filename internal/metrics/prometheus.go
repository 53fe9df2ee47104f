package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the load generator.
type Metrics struct {
	// Upload stream metrics
	PagesSent        prometheus.Counter
	BytesSent        prometheus.Counter
	AudioSecondsSent prometheus.Counter
	CyclesCompleted  prometheus.Counter

	// Connection metrics
	ConnectAttempts   prometheus.Counter
	ActiveConnections prometheus.Gauge
	Reconnects        *prometheus.CounterVec
	ResponseStatus    *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		PagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mock_listener_pages_sent_total",
			Help: "Total number of PCM page frames sent across all listeners",
		}),
		BytesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mock_listener_bytes_sent_total",
			Help: "Total PCM payload bytes sent across all listeners",
		}),
		AudioSecondsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mock_listener_audio_seconds_sent_total",
			Help: "Total seconds of audio streamed across all listeners",
		}),
		CyclesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mock_listener_cycles_completed_total",
			Help: "Total number of full file cycles completed",
		}),

		ConnectAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mock_listener_connect_attempts_total",
			Help: "Total number of upload connection attempts",
		}),
		ActiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mock_listener_active_connections",
			Help: "Current number of established upload connections",
		}),
		Reconnects: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_listener_reconnects_total",
			Help: "Total number of reconnects by fault class",
		}, []string{"cause"}),
		ResponseStatus: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_listener_response_status_total",
			Help: "Total upload responses by HTTP status code",
		}, []string{"status"}),
	}
}

// RecordPageSent records one PCM page and its audio duration.
func (m *Metrics) RecordPageSent(pageBytes int, seconds float64) {
	m.PagesSent.Inc()
	m.BytesSent.Add(float64(pageBytes))
	m.AudioSecondsSent.Add(seconds)
}

// RecordCycleCompleted increments the completed cycles counter.
func (m *Metrics) RecordCycleCompleted() {
	m.CyclesCompleted.Inc()
}

// RecordConnectAttempt increments the connection attempts counter.
func (m *Metrics) RecordConnectAttempt() {
	m.ConnectAttempts.Inc()
}

// RecordConnected records an established connection and its response status.
func (m *Metrics) RecordConnected(status int) {
	m.ActiveConnections.Inc()
	m.ResponseStatus.WithLabelValues(statusLabel(status)).Inc()
}

// RecordDisconnect marks the end of a connection.
func (m *Metrics) RecordDisconnect() {
	m.ActiveConnections.Dec()
}

// RecordReconnect counts a reconnect by fault class ("transient" or
// "unexpected").
func (m *Metrics) RecordReconnect(cause string) {
	m.Reconnects.WithLabelValues(cause).Inc()
}

func statusLabel(status int) string {
	// Small fixed label space; avoids fmt for the hot path.
	switch {
	case status >= 100 && status < 600:
		return statusText[status/100]
	default:
		return "other"
	}
}

var statusText = [6]string{"other", "1xx", "2xx", "3xx", "4xx", "5xx"}
