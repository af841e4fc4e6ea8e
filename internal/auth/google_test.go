package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	sharedauth "mietrecht-backend/internal/shared/auth"
	"mietrecht-backend/internal/users"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() GoogleConfig {
	return GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
		UIRedirect:   "http://localhost:5173/auth",
	}
}

func testTokens(t *testing.T) *sharedauth.Tokens {
	t.Helper()
	tokens, err := sharedauth.NewTokens(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	return tokens
}

func newRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	return r
}

type recordingUsers struct {
	upserted []users.User
}

func (r *recordingUsers) UpsertFromAuth(_ context.Context, user users.User) error {
	r.upserted = append(r.upserted, user)
	return nil
}

func TestStartRedirectsToGoogle(t *testing.T) {
	states := NewMemoryStateStore()
	svc := NewGoogleService(testConfig(), testTokens(t), nil, states)

	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if !strings.Contains(loc.Host, "google") {
		t.Fatalf("expected google host, got %s", loc.Host)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state parameter")
	}
	ok, err := states.Consume(context.Background(), state)
	if err != nil || !ok {
		t.Fatalf("expected state to be stored: %v", err)
	}
	if ok, _ := states.Consume(context.Background(), state); ok {
		t.Fatalf("state must be single use")
	}
}

func TestStartWithoutConfigFails(t *testing.T) {
	svc := NewGoogleService(GoogleConfig{}, nil, nil, nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	svc := NewGoogleService(testConfig(), testTokens(t), nil, nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=x&code=y", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCallbackReportsDeniedConsent(t *testing.T) {
	svc := NewGoogleService(testConfig(), testTokens(t), nil, nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?error=access_denied", nil))
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "auth_denied") {
		t.Fatalf("expected auth_denied, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestCallbackIssuesTokenAndUpsertsUser(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-1", "token_type": "Bearer", "expires_in": 3600})
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer at-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "42", "email": "vermieterin@example.org", "name": "Anna Schmidt"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer provider.Close()

	tokens := testTokens(t)
	store := &recordingUsers{}
	states := NewMemoryStateStore()
	svc := NewGoogleService(testConfig(), tokens, store, states)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"}
	svc.userInfoURL = provider.URL + "/userinfo"

	if err := states.Put(context.Background(), "state-1", time.Minute); err != nil {
		t.Fatalf("put state: %v", err)
	}

	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=state-1&code=c-1", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d %s", resp.Code, resp.Body.String())
	}

	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Host != "localhost:5173" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	claims, err := tokens.Verify(loc.Query().Get("token"))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "google:42" || claims.Email != "vermieterin@example.org" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if len(store.upserted) != 1 || store.upserted[0].ID != "google:42" || store.upserted[0].Name != "Anna Schmidt" {
		t.Fatalf("unexpected upserts %+v", store.upserted)
	}
}

func TestMemoryStateExpires(t *testing.T) {
	store := NewMemoryStateStore()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	if err := store.Put(context.Background(), "old", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	if ok, _ := store.Consume(context.Background(), "old"); ok {
		t.Fatalf("expired state must be rejected")
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://localhost:5173/auth?next=%2Fdocs", "abc")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("token") != "abc" || u.Query().Get("next") != "/docs" {
		t.Fatalf("unexpected url: %s", got)
	}
	if _, err := appendToken("", "abc"); err == nil {
		t.Fatalf("expected error for empty redirect")
	}
}
