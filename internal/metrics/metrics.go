package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the view hosts and the
// timeline enricher. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Bridge metrics
	InboundMessages  *prometheus.CounterVec
	OutboundMessages *prometheus.CounterVec
	DroppedMessages  *prometheus.CounterVec
	HandlerErrors    *prometheus.CounterVec
	HandlerDuration  *prometheus.HistogramVec

	// View metrics
	ViewsOpened   *prometheus.CounterVec
	ViewsDisposed prometheus.Counter

	// Enrichment metrics
	EnrichFallbacks *prometheus.CounterVec
	EnrichDuration  prometheus.Histogram
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InboundMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_bridge_inbound_total",
				Help: "Inbound bridge messages handled, by view and message type",
			},
			[]string{"view", "type"},
		),
		OutboundMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_bridge_outbound_total",
				Help: "Outbound bridge messages posted, by view and message type",
			},
			[]string{"view", "type"},
		),
		DroppedMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_bridge_dropped_total",
				Help: "Bridge messages dropped because their view was disposed",
			},
			[]string{"direction"},
		),
		HandlerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_bridge_handler_errors_total",
				Help: "Inbound messages whose API call failed",
			},
			[]string{"type"},
		),
		HandlerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giteaview_bridge_handler_duration_seconds",
				Help:    "Time spent handling one inbound message",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		ViewsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_views_opened_total",
				Help: "Views opened, by view kind",
			},
			[]string{"view"},
		),
		ViewsDisposed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "giteaview_detail_views_disposed_total",
				Help: "Detail views disposed, including forced replacement",
			},
		),
		EnrichFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giteaview_enrich_fallbacks_total",
				Help: "Reaction lookups replaced by an empty result, by target",
			},
			[]string{"target"},
		),
		EnrichDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "giteaview_enrich_duration_seconds",
				Help:    "Duration of one timeline enrichment",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
	}
}

// RecordInbound counts one handled inbound message and its handling time.
func (m *Metrics) RecordInbound(view, msgType string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.InboundMessages.WithLabelValues(view, msgType).Inc()
	m.HandlerDuration.WithLabelValues(msgType).Observe(d.Seconds())
	if failed {
		m.HandlerErrors.WithLabelValues(msgType).Inc()
	}
}

// RecordOutbound counts one posted outbound message.
func (m *Metrics) RecordOutbound(view, msgType string) {
	if m == nil {
		return
	}
	m.OutboundMessages.WithLabelValues(view, msgType).Inc()
}

// RecordDropped counts a message discarded by a disposed view.
func (m *Metrics) RecordDropped(direction string) {
	if m == nil {
		return
	}
	m.DroppedMessages.WithLabelValues(direction).Inc()
}

// RecordViewOpened counts a newly opened view.
func (m *Metrics) RecordViewOpened(view string) {
	if m == nil {
		return
	}
	m.ViewsOpened.WithLabelValues(view).Inc()
}

// RecordViewDisposed counts a disposed detail view.
func (m *Metrics) RecordViewDisposed() {
	if m == nil {
		return
	}
	m.ViewsDisposed.Inc()
}

// RecordFallback counts a reaction lookup that fell back to an empty result.
func (m *Metrics) RecordFallback(target string) {
	if m == nil {
		return
	}
	m.EnrichFallbacks.WithLabelValues(target).Inc()
}

// ObserveEnrich records the duration of one enrichment pass.
func (m *Metrics) ObserveEnrich(d time.Duration) {
	if m == nil {
		return
	}
	m.EnrichDuration.Observe(d.Seconds())
}
