package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements [PipelineHooks], [CacheHooks] and [HTTPHooks]
// with Prometheus collectors.
type PrometheusHooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	skillsLoaded  prometheus.Counter
	synthBytes    prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks whose collectors are registered with reg.
// A nil reg uses [prometheus.DefaultRegisterer].
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &PrometheusHooks{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "skillweave_stage_duration_seconds",
				Help: "Duration of pipeline stages",
			},
			[]string{"stage"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillweave_stage_errors_total",
				Help: "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		skillsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillweave_skills_loaded_total",
			Help: "Total number of skills in loaded compositions",
		}),
		synthBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillweave_synth_bytes_total",
			Help: "Total size of synthesized documents",
		}),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillweave_cache_events_total",
				Help: "Cache lookups and writes by key type",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillweave_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillweave_http_requests_total",
				Help: "Outgoing HTTP requests by host and status",
			},
			[]string{"host", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "skillweave_http_request_duration_seconds",
				Help: "Duration of outgoing HTTP requests",
			},
			[]string{"host"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillweave_http_errors_total",
				Help: "Outgoing HTTP requests that failed before a response",
			},
			[]string{"host"},
		),
	}
	reg.MustRegister(
		h.stageDuration, h.stageErrors, h.skillsLoaded, h.synthBytes,
		h.cacheEvents, h.cacheBytes,
		h.httpRequests, h.httpDuration, h.httpErrors,
	)
	return h
}

func (h *PrometheusHooks) observe(stage string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (h *PrometheusHooks) OnLoadStart(context.Context, string) {}

func (h *PrometheusHooks) OnLoadComplete(_ context.Context, _ string, skills int, d time.Duration, err error) {
	h.observe("load", d, err)
	if err == nil {
		h.skillsLoaded.Add(float64(skills))
	}
}

func (h *PrometheusHooks) OnDescribe(_ context.Context, _, _ int, d time.Duration) {
	h.observe("describe", d, nil)
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.observe("layout", d, err)
}

func (h *PrometheusHooks) OnSynthStart(context.Context, string) {}

func (h *PrometheusHooks) OnSynthComplete(_ context.Context, _ string, size int, d time.Duration, err error) {
	h.observe("synth", d, err)
	if err == nil {
		h.synthBytes.Add(float64(size))
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
