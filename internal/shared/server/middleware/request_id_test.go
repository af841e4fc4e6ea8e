package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mietrecht-backend/internal/shared/telemetry"
)

func requestIDRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		*seen = RequestIDFromContext(c)
		if telemetry.RequestID(c.Request.Context()) != *seen {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id, got %q", seen)
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("request context does not carry the id")
	}
	if resp.Header().Get("X-Request-Id") != seen {
		t.Fatalf("header %q does not match context %q", resp.Header().Get("X-Request-Id"), seen)
	}
}

func TestRequestIDPropagatesCallerValue(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "frontend-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if seen != "frontend-42" || resp.Header().Get("X-Request-Id") != "frontend-42" {
		t.Fatalf("expected caller id to propagate, got %q", seen)
	}
}

func TestRequestIDReplacesUnsafeValues(t *testing.T) {
	for _, bad := range []string{"has space", strings.Repeat("a", 200), "tab\tid"} {
		var seen string
		router := requestIDRouter(&seen)
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-Id", bad)
		router.ServeHTTP(httptest.NewRecorder(), req)
		if seen == bad {
			t.Fatalf("expected %q to be replaced", bad)
		}
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected generated uuid, got %q", seen)
		}
	}
}
