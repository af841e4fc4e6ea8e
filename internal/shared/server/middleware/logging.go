package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/shared/metrics"
	"mietrecht-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate resources.
const (
	DocumentIDKey = "documentId"
	AnalysisIDKey = "analysisId"
)

// Logging emits a structured log and HTTP metrics per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(route, c.Request.Method, status, latency)

		isGuest, _ := c.Get(isGuestKey)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"document_id": c.GetString(DocumentIDKey),
			"analysis_id": c.GetString(AnalysisIDKey),
			"is_guest":    isGuest,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
