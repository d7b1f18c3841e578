// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the YouTube Data API usage.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests processed, by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_analyses_total",
			Help: "Channel analysis requests, by outcome.",
		},
		[]string{"outcome"},
	)

	youtubeAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_calls_total",
			Help: "YouTube Data API calls issued, by endpoint.",
		},
		[]string{"endpoint"},
	)

	youtubeQuotaCost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "youtube_api_quota_cost_total",
			Help: "Cumulative YouTube Data API quota units consumed.",
		},
	)
)

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// RecordAnalysis counts one analysis request by outcome, e.g. "success",
// "validation_error", "not_found" or "error".
func RecordAnalysis(outcome string) {
	analysesTotal.WithLabelValues(outcome).Inc()
}

// RecordAPICall counts one outbound API call, e.g. "channels.list".
func RecordAPICall(endpoint string) {
	youtubeAPICalls.WithLabelValues(endpoint).Inc()
}

// AddQuotaCost adds consumed YouTube API quota units.
func AddQuotaCost(cost int) {
	if cost > 0 {
		youtubeQuotaCost.Add(float64(cost))
	}
}
