// Package metrics provides optional Prometheus instrumentation for the
// PostgREST client via a transport decorator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/edgeflare/pgrst/pkg/httputil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgrst_client_requests_total",
			Help: "Total number of requests by HTTP method and response status",
		},
		[]string{"method", "status"},
	)

	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgrst_client_request_errors_total",
			Help: "Total number of transport-level request failures by HTTP method",
		},
		[]string{"method"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pgrst_client_request_duration_seconds",
			Help:    "Duration of requests by HTTP method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Transport decorates an httputil.Doer, recording request totals, failures
// and durations. Wire it in with postgrest.WithTransport(metrics.NewTransport(nil)).
type Transport struct {
	next httputil.Doer
}

// NewTransport wraps next with instrumentation. A nil next uses the default
// transport with a 5s timeout.
func NewTransport(next httputil.Doer) *Transport {
	if next == nil {
		next = httputil.NewTransport(5 * time.Second)
	}
	return &Transport{next: next}
}

func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.Do(req)
	RequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		RequestErrors.WithLabelValues(req.Method).Inc()
		return nil, err
	}
	RequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
