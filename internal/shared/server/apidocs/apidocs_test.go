package apidocs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsedListsEveryRoute(t *testing.T) {
	doc, err := Parsed()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatalf("paths missing")
	}
	for _, p := range []string{"/health", "/me", "/me/role", "/documents", "/documents/current", "/documents/{id}", "/documents/{id}/analyze", "/analyses", "/analyses/{id}", "/guidance"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("path %s missing from openapi.yaml", p)
		}
	}
}

func TestRoutesServeDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/v1"))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/api-docs", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "/api/v1/api-docs/openapi.json") {
		t.Fatalf("unexpected swagger page: %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/api-docs/openapi.yaml", nil))
	if resp.Code != http.StatusOK || !strings.HasPrefix(resp.Body.String(), "openapi: 3.0.3") {
		t.Fatalf("unexpected yaml: %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/api-docs/openapi.json", nil))
	var doc map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("json: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version: %v", doc["openapi"])
	}
}
