package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/shared/auth"
	"mietrecht-backend/internal/shared/server/middleware"
)

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepo, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokens("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	repo := NewMemoryRepo()
	if err := repo.Upsert(context.Background(), User{ID: "google:42", Email: "a@example.com", Name: "A"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	token, err := tokens.Sign(auth.Claims{Sub: "google:42", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := gin.New()
	r.Use(middleware.Auth(tokens))
	NewHandler(NewService(repo)).RegisterRoutes(r.Group("/api/v1"))
	return r, repo, token
}

func TestMeReturnsProfileWithDefaultRole(t *testing.T) {
	r, _, token := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body meResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Role != "tenant" || body.Email != "a@example.com" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestMeRejectsGuests(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Guest-Id", "g")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSetRole(t *testing.T) {
	r, repo, token := setupRouter(t)

	put := func(role string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"role": role})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/me/role", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	if resp := put("Landlord"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	user, _ := repo.GetByID(context.Background(), "google:42")
	if user.Role != legal.RoleLandlord {
		t.Fatalf("expected landlord, got %q", user.Role)
	}

	if resp := put("caretaker"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUpsertPreservesRole(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_ = repo.Upsert(ctx, User{ID: "u", Email: "u@example.com"})
	_ = repo.UpdateRole(ctx, "u", legal.RoleLandlord)
	_ = repo.Upsert(ctx, User{ID: "u", Email: "new@example.com"})

	user, err := repo.GetByID(ctx, "u")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Role != legal.RoleLandlord || user.Email != "new@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
