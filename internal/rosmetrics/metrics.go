// Package rosmetrics provides Prometheus metrics for roscore.
package rosmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provide Prometheus metrics for the app.
type Metrics struct {
	ServiceCallTotal    *prometheus.CounterVec
	ServiceCallDuration *prometheus.HistogramVec
	ServiceCallErrors   *prometheus.CounterVec

	TopicReconnectTotal *prometheus.CounterVec
	TopicStaleGauge     *prometheus.GaugeVec

	MapPollDuration prometheus.Histogram
	MapPublishTotal prometheus.Counter
	MapSkippedTotal *prometheus.CounterVec
	MapPixelsGauge  *prometheus.GaugeVec

	RuntimeStatusGauge  *prometheus.GaugeVec
	RuntimeCacheWrites  prometheus.Counter
	EventsEmittedTotal  *prometheus.CounterVec
}

const (
	ServiceCallTotalName    = "roscore_service_call_total"
	ServiceCallDurationName = "roscore_service_call_duration_seconds"
	ServiceCallErrorsName   = "roscore_service_call_errors_total"

	TopicReconnectTotalName = "roscore_topic_reconnect_total"
	TopicStaleGaugeName     = "roscore_topic_stale"

	MapPollDurationName = "roscore_map_poll_duration_seconds"
	MapPublishTotalName = "roscore_map_publish_total"
	MapSkippedTotalName = "roscore_map_skipped_total"
	MapPixelsGaugeName  = "roscore_map_pixels"

	RuntimeStatusGaugeName = "roscore_runtime_status"
	RuntimeCacheWritesName = "roscore_runtime_cache_writes_total"
	EventsEmittedTotalName = "roscore_events_emitted_total"
)

// NewMetrics creates a new set of metrics and registers them with the
// supplied registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := Metrics{
		ServiceCallTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: ServiceCallTotalName,
				Help: "Total number of vendor service calls issued, by service name.",
			},
			[]string{"service"},
		),
		ServiceCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    ServiceCallDurationName,
				Help:    "Duration of vendor service calls, by service name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		ServiceCallErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: ServiceCallErrorsName,
				Help: "Total number of vendor service call failures, by service name and error kind.",
			},
			[]string{"service", "kind"},
		),
		TopicReconnectTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: TopicReconnectTotalName,
				Help: "Total number of topic subscriber reconnect attempts, by topic path.",
			},
			[]string{"topic"},
		),
		TopicStaleGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: TopicStaleGaugeName,
				Help: "1 if the topic's latest value is currently stale, 0 otherwise.",
			},
			[]string{"topic"},
		),
		MapPollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MapPollDurationName,
				Help:    "Duration of a full map poll cycle (rooms, positions, walls, raster, build).",
				Buckets: prometheus.DefBuckets,
			},
		),
		MapPublishTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MapPublishTotalName,
				Help: "Total number of maps published since startup.",
			},
		),
		MapSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MapSkippedTotalName,
				Help: "Total number of map polls that skipped publishing, by guardrail reason.",
			},
			[]string{"reason"},
		),
		MapPixelsGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MapPixelsGaugeName,
				Help: "Pixel count of the most recently published map, by layer type.",
			},
			[]string{"layer"},
		),
		RuntimeStatusGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: RuntimeStatusGaugeName,
				Help: "1 for the currently derived status, 0 for all others.",
			},
			[]string{"status"},
		),
		RuntimeCacheWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: RuntimeCacheWritesName,
				Help: "Total number of runtime-state ticks that changed the runtime cache and requested a debounced flush.",
			},
		),
		EventsEmittedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: EventsEmittedTotalName,
				Help: "Total number of change events emitted on the core event stream, by event kind.",
			},
			[]string{"event"},
		),
	}
	m.register(registry)
	return &m
}

// register registers the Metrics with the supplied registry.
func (m *Metrics) register(registry *prometheus.Registry) {
	registry.MustRegister(
		m.ServiceCallTotal,
		m.ServiceCallDuration,
		m.ServiceCallErrors,
		m.TopicReconnectTotal,
		m.TopicStaleGauge,
		m.MapPollDuration,
		m.MapPublishTotal,
		m.MapSkippedTotal,
		m.MapPixelsGauge,
		m.RuntimeStatusGauge,
		m.RuntimeCacheWrites,
		m.EventsEmittedTotal,
	)
}

// ObserveServiceCall records one vendor service call's outcome and
// duration.
func (m *Metrics) ObserveServiceCall(service string, duration time.Duration, errKind string) {
	m.ServiceCallTotal.WithLabelValues(service).Inc()
	m.ServiceCallDuration.WithLabelValues(service).Observe(duration.Seconds())
	if errKind != "" {
		m.ServiceCallErrors.WithLabelValues(service, errKind).Inc()
	}
}

// SetTopicStale records whether topic's latest value is past its
// staleness window.
func (m *Metrics) SetTopicStale(topic string, stale bool) {
	v := 0.0
	if stale {
		v = 1.0
	}
	m.TopicStaleGauge.WithLabelValues(topic).Set(v)
}

// SetMapPixels records the most recently published map's pixel counts.
func (m *Metrics) SetMapPixels(floor, wall int) {
	m.MapPixelsGauge.WithLabelValues("floor").Set(float64(floor))
	m.MapPixelsGauge.WithLabelValues("wall").Set(float64(wall))
}

// SetRuntimeStatus records the currently derived status, zeroing every
// other known status value.
func (m *Metrics) SetRuntimeStatus(current string, allStatuses []string) {
	for _, s := range allStatuses {
		v := 0.0
		if s == current {
			v = 1.0
		}
		m.RuntimeStatusGauge.WithLabelValues(s).Set(v)
	}
}

// Handler returns an http Handler for a metrics endpoint.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
