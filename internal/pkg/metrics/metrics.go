/*
Package metrics exposes Prometheus counters for the chat service and an HTTP
middleware that records request counts and latencies per route.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Send outcomes.
const (
	OutcomeSent        = "sent"
	OutcomeNeedProfile = "need_profile"
	OutcomeError       = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nickchat_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nickchat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	sendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nickchat_send_total",
			Help: "Send attempts by outcome.",
		},
		[]string{"outcome"},
	)
	ghostUsersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nickchat_ghost_users_created_total",
			Help: "Users created implicitly on first contact.",
		},
	)
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nickchat_profile_setups_total",
			Help: "Completed profile setups, labelled by whether a photo was stored.",
		},
		[]string{"photo"},
	)
	orphanedFilesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nickchat_orphaned_files_total",
			Help: "Stored photos that could not be removed after a failed or superseded setup.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		sendsTotal,
		ghostUsersCreatedTotal,
		activationsTotal,
		orphanedFilesTotal,
	)
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMetricsMiddleware records request count and latency labelled by the chi route pattern.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func IncSend(outcome string) {
	sendsTotal.WithLabelValues(outcome).Inc()
}

func IncGhostCreated() {
	ghostUsersCreatedTotal.Inc()
}

func IncActivation(withPhoto bool) {
	activationsTotal.WithLabelValues(strconv.FormatBool(withPhoto)).Inc()
}

func IncOrphanedFile() {
	orphanedFilesTotal.Inc()
}
