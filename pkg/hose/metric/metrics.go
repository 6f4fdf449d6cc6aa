// Package metric provides Prometheus instrumentation for the stream
// pipeline. Metrics are optional: a nil *Metrics is safe everywhere,
// so callers that do not scrape pay nothing.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the stream pipeline instruments.
type Metrics struct {
	BytesReceived prometheus.Counter
	ValuesParsed  prometheus.Counter
	ParseErrors   prometheus.Counter
	EventsTotal   *prometheus.CounterVec
	Connects      prometheus.Counter
	Disconnects   *prometheus.CounterVec
	Connected     prometheus.Gauge
}

// NewMetrics creates the stream metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "stream",
			Name:      "bytes_received_total",
			Help:      "Total decompressed bytes received from the stream",
		}),
		ValuesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "stream",
			Name:      "values_parsed_total",
			Help:      "Total complete JSON values framed from the stream",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "stream",
			Name:      "parse_errors_total",
			Help:      "Total malformed values skipped without ending the stream",
		}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "stream",
			Name:      "events_total",
			Help:      "Total classified events dispatched, by kind",
		}, []string{"kind"}),
		Connects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "connection",
			Name:      "connects_total",
			Help:      "Total successful stream connections",
		}),
		Disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hose",
			Subsystem: "connection",
			Name:      "disconnects_total",
			Help:      "Total stream teardowns, by reason",
		}, []string{"reason"}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hose",
			Subsystem: "connection",
			Name:      "connected",
			Help:      "Whether a stream connection is currently live",
		}),
	}
}

// Register registers all instruments with the registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil || reg == nil {
		return nil
	}

	collectors := []prometheus.Collector{
		m.BytesReceived,
		m.ValuesParsed,
		m.ParseErrors,
		m.EventsTotal,
		m.Connects,
		m.Disconnects,
		m.Connected,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// ObserveBytes records decompressed bytes received.
func (m *Metrics) ObserveBytes(n int) {
	if m == nil {
		return
	}
	m.BytesReceived.Add(float64(n))
}

// ObserveValue records one framed value.
func (m *Metrics) ObserveValue() {
	if m == nil {
		return
	}
	m.ValuesParsed.Inc()
}

// ObserveParseError records one skipped malformed value.
func (m *Metrics) ObserveParseError() {
	if m == nil {
		return
	}
	m.ParseErrors.Inc()
}

// ObserveEvent records one dispatched event by kind.
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(kind).Inc()
}

// ObserveConnect records a successful connection.
func (m *Metrics) ObserveConnect() {
	if m == nil {
		return
	}
	m.Connects.Inc()
	m.Connected.Set(1)
}

// ObserveDisconnect records a teardown with its reason.
func (m *Metrics) ObserveDisconnect(reason string) {
	if m == nil {
		return
	}
	m.Disconnects.WithLabelValues(reason).Inc()
	m.Connected.Set(0)
}
