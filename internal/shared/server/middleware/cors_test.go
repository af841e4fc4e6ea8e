package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/guidance", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func corsRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/guidance", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	resp := corsRequest(corsRouter("http://localhost:5173"), http.MethodOptions, "http://localhost:5173")

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected origin echo, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("expected Max-Age 600, got %q", got)
	}
	if resp.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatalf("expected Allow-Headers")
	}
}

func TestCORSExplicitOriginAllowsCredentials(t *testing.T) {
	resp := corsRequest(corsRouter("http://localhost:5173/"), http.MethodPost, "http://localhost:5173")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials for listed origin")
	}
}

func TestCORSSubdomainPattern(t *testing.T) {
	router := corsRouter("https://*.mietrecht.example")

	if got := corsRequest(router, http.MethodPost, "https://app.mietrecht.example").Header().Get("Access-Control-Allow-Origin"); got != "https://app.mietrecht.example" {
		t.Fatalf("expected subdomain to match, got %q", got)
	}
	for _, origin := range []string{"http://app.mietrecht.example", "https://mietrecht.example", "https://evilmietrecht.example.org"} {
		if got := corsRequest(router, http.MethodPost, origin).Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("origin %s must not match, got %q", origin, got)
		}
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	resp := corsRequest(corsRouter("*"), http.MethodPost, "https://anywhere.example")

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Fatalf("expected origin echo, got %q", got)
	}
	if resp.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatalf("wildcard must not allow credentials")
	}
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	resp := corsRequest(corsRouter("http://localhost:5173"), http.MethodPost, "https://evil.example")

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Allow-Origin, got %q", got)
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("request itself should still be served, got %d", resp.Code)
	}
}
