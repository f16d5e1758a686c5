// Package telemetry holds the Prometheus collectors and the OpenTelemetry
// tracer setup for the portal.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	grantRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_grant_rejections_total",
		Help: "Access grants rejected because a project's company was not granted",
	})

	cascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_cascade_failures_total",
		Help: "Cascading delete failures by sub-step",
	}, []string{"step"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ObserveGrantRejection() {
	grantRejections.Inc()
}

func ObserveCascadeFailure(step string) {
	cascadeFailures.WithLabelValues(step).Inc()
}

// ObserveLogin records "success", "rejected" or "error".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
