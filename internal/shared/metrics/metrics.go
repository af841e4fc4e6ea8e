package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every collector exposed on /metrics.
	Registry = prometheus.NewRegistry()

	analysisStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total document analyses started",
	})
	analysisCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total document analyses completed",
	})
	analysisFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total document analyses failed, by reason",
	}, []string{"reason"})
	analysisIssues = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_issues_total",
		Help: "Issues reported by document analyses, by type and severity",
	}, []string{"type", "severity"})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "Analysis duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000, 5000, 10000},
	})
	guidanceResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guidance_responses_total",
		Help: "Guidance responses generated, by category and escalation",
	}, []string{"category", "escalated"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by route, method and status",
	}, []string{"route", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	httpPanics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_panics_total",
		Help: "Handler panics recovered, by route",
	}, []string{"route"})
	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by group",
	}, []string{"group"})
)

func init() {
	Registry.MustRegister(
		analysisStarted,
		analysisCompleted,
		analysisFailed,
		analysisIssues,
		analysisDuration,
		guidanceResponses,
		httpRequests,
		httpDuration,
		httpPanics,
		rateLimited,
	)
}

// IncHTTPPanic counts a recovered handler panic.
func IncHTTPPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	httpPanics.WithLabelValues(route).Inc()
}

// IncRateLimited counts a request rejected with 429.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter for the given reason.
func IncAnalysisFailed(reason string) {
	analysisFailed.WithLabelValues(reason).Inc()
}

// AddIssue counts one reported issue.
func AddIssue(issueType, severity string) {
	analysisIssues.WithLabelValues(issueType, severity).Inc()
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// IncGuidanceResponse counts a generated guidance response.
func IncGuidanceResponse(category string, escalated bool) {
	guidanceResponses.WithLabelValues(category, strconv.FormatBool(escalated)).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
