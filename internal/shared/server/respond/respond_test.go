package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/shared/telemetry"
)

func TestErrorWritesStandardBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "document not found", gin.H{"id": "doc-1"})
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" || body.Error.Message != "document not found" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if resp.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected no-store")
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn-level log for 4xx, got %s", buf.String())
	}
}

func TestServerErrorLoggedAtErrorLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "internal_error", "boom", nil)
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if strings.Contains(resp.Body.String(), "details") {
		t.Fatalf("nil details should be omitted: %s", resp.Body.String())
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error-level log, got %s", buf.String())
	}
}

func TestJSONDisablesCaching(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) { JSON(c, http.StatusCreated, gin.H{"ok": true}) })
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	if resp.Code != http.StatusCreated || resp.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("unexpected response %d %v", resp.Code, resp.Header())
	}
}
