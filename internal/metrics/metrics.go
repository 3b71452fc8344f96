// Package metrics holds the gateway's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeBadRequest   = "bad_request"
	OutcomeUnconfigured = "unconfigured"
	OutcomeEmptyReply   = "empty_reply"
	OutcomeUpstream     = "upstream_error"
)

// Document cache results.
const (
	DocumentHit          = "hit"
	DocumentMiss         = "miss"
	DocumentError        = "error"
	DocumentUnconfigured = "unconfigured"
)

var (
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clarity_chat_requests_total",
		Help: "Chat requests by outcome.",
	}, []string{"outcome"})

	DocumentFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clarity_document_fetch_total",
		Help: "Reference document lookups by result.",
	}, []string{"result"})

	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clarity_backend_request_duration_seconds",
		Help:    "Latency of the single language-model call per chat request.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"backend"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
