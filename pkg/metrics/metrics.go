// Package metrics provides Prometheus collectors and fiber middleware for
// monitoring the bridge.
package metrics

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LLMBuckets covers chat completion latencies from 100ms to two minutes.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Upstream call outcomes. Failed calls are labelled with the upstream error
// kind (auth, api, other, no_choices) instead.
const (
	OutcomeOK         = "ok"
	OutcomeRefreshed  = "refreshed"
	OutcomeFailed     = "failed"
	OperationList     = "list_models"
	OperationComplete = "chat_completion"
)

var (
	// RequestsTotal counts local-API requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_requests_total",
			Help: "Total local-API requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records local-API request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the upstream API by operation and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamLatency records upstream call latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LLMBuckets,
		},
		[]string{"operation"},
	)

	// ModelCacheRefreshesTotal counts model-list cache refresh attempts by outcome.
	ModelCacheRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_model_cache_refreshes_total",
			Help: "Model list cache refreshes",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
		ModelCacheRefreshesTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
