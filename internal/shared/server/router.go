package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/account"
	"mietrecht-backend/internal/analyses"
	googleauth "mietrecht-backend/internal/auth"
	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/guidance"
	"mietrecht-backend/internal/services/health"
	"mietrecht-backend/internal/shared/auth"
	"mietrecht-backend/internal/shared/config"
	"mietrecht-backend/internal/shared/metrics"
	"mietrecht-backend/internal/shared/server/apidocs"
	"mietrecht-backend/internal/shared/server/middleware"
	"mietrecht-backend/internal/shared/server/respond"
	"mietrecht-backend/internal/shared/telemetry"
	"mietrecht-backend/internal/users"
)

const (
	apiPrefix = "/api/v1"

	GroupDefault = "DEFAULT"
	GroupAnalyze = "ANALYZE"
	groupPublic  = "PUBLIC"
)

// RouterDeps carries everything NewRouter mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Tokens          *auth.Tokens
	Limiter         middleware.Limiter
	Health          *health.Service
	DocumentHandler *documents.Handler
	AnalysisHandler *analyses.Handler
	GuidanceHandler *guidance.Handler
	UserHandler     *users.Handler
	AccountHandler  *account.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	cfg := deps.Config
	// ClientIP keys guest rate limits, so forwarding headers are only
	// honoured from configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		telemetry.Warn("server.trusted_proxies_invalid", map[string]any{"error": err})
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(deps.Tokens),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				GroupDefault: {Rate: cfg.RateLimitDefault.Rate, Burst: cfg.RateLimitDefault.Burst},
				GroupAnalyze: {Rate: cfg.RateLimitAnalyze.Rate, Burst: cfg.RateLimitAnalyze.Burst},
			},
			DefaultGroup: GroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	api.GET("/metrics", metrics.Handler())
	apidocs.Register(api)

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.GuidanceHandler != nil {
		deps.GuidanceHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup maps the matched route to its bucket group.
func rateLimitGroup(c *gin.Context) string {
	route := c.FullPath()
	switch {
	case c.Request.Method == http.MethodPost && route == apiPrefix+"/documents/:id/analyze":
		return GroupAnalyze
	case c.Request.Method == http.MethodPost && route == apiPrefix+"/guidance":
		return GroupAnalyze
	case route == apiPrefix+"/health", route == apiPrefix+"/metrics", strings.HasPrefix(route, apiPrefix+"/api-docs"):
		return groupPublic
	default:
		return GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
