package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"mietrecht-backend/internal/account"
	"mietrecht-backend/internal/analyses"
	"mietrecht-backend/internal/analyses/rules"
	googleauth "mietrecht-backend/internal/auth"
	"mietrecht-backend/internal/classify"
	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/extract"
	"mietrecht-backend/internal/guidance"
	"mietrecht-backend/internal/policy"
	"mietrecht-backend/internal/services/health"
	"mietrecht-backend/internal/shared/auth"
	"mietrecht-backend/internal/shared/config"
	"mietrecht-backend/internal/shared/server"
	"mietrecht-backend/internal/shared/server/middleware"
	"mietrecht-backend/internal/shared/storage/db"
	"mietrecht-backend/internal/shared/storage/object"
	localstore "mietrecht-backend/internal/shared/storage/object/local"
	s3store "mietrecht-backend/internal/shared/storage/object/s3"
	"mietrecht-backend/internal/shared/telemetry"
	"mietrecht-backend/internal/users"
)

const (
	rateLimitPrefix  = "mietrecht:ratelimit:"
	oauthStatePrefix = "mietrecht:oauth:"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Redis    *redis.Client
	Store    object.ObjectStore
	Tokens   *auth.Tokens
	Health   *health.Service
	Analyzer *analyses.Analyzer
	Guidance *guidance.Generator
	Users    *users.Service
}

// Build connects infrastructure, wires services and handlers, and mounts
// the router. Call Close when done.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB, Health: health.NewService()}

	if err := app.buildInfra(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.buildServices(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) buildInfra(ctx context.Context) error {
	store, err := buildStore(ctx, a.Config)
	if err != nil {
		return err
	}
	a.Store = store
	a.Health.Register("store", store)

	if a.DB != nil {
		a.Health.Register("db", health.PingFunc(a.DB.PingContext))
	}

	if url := strings.TrimSpace(a.Config.RedisURL); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		a.Health.Register("redis", health.PingFunc(func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}))
	}

	tokens, err := auth.NewTokens(a.Config.EffectiveJWTSecret(), a.Config.JWTTTL)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	a.Tokens = tokens
	return nil
}

func (a *App) buildServices() error {
	cfg := a.Config

	thresholds, err := rules.LoadThresholds(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	contentPolicy, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}
	classifier, err := classify.New(classify.Options{
		Provider:        cfg.ClassifierProvider,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
	})
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	var (
		docRepo      documents.DocumentsRepo
		analysisRepo analyses.Repo
		userRepo     users.Repo
		accountSvc   = &account.Service{DB: a.DB}
	)
	if a.DB != nil {
		docRepo = &documents.PGRepo{DB: a.DB}
		analysisRepo = &analyses.PGRepo{DB: a.DB}
		userRepo = &users.PGRepo{DB: a.DB}
	} else {
		memDocs := documents.NewMemoryRepo()
		memAnalyses := analyses.NewMemoryRepo()
		docRepo, analysisRepo = memDocs, memAnalyses
		accountSvc.Documents, accountSvc.Analyses = memDocs, memAnalyses
		userRepo = users.NewMemoryRepo()
	}

	docSvc := &documents.Service{Store: a.Store, Repo: docRepo}
	a.Analyzer = &analyses.Analyzer{
		Repo:       analysisRepo,
		Documents:  docRepo,
		Extractor:  &extract.ContractExtractor{Store: a.Store, Recorder: docRepo},
		Thresholds: thresholds,
	}
	a.Guidance = guidance.NewGenerator(contentPolicy)
	a.Users = users.NewService(userRepo)

	var (
		limiter middleware.Limiter
		states  googleauth.StateStore
	)
	if a.Redis != nil {
		limiter = middleware.NewRedisRateLimiter(a.Redis, rateLimitPrefix)
		states = googleauth.NewRedisStateStore(a.Redis, oauthStatePrefix)
	}

	a.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Tokens:          a.Tokens,
		Limiter:         limiter,
		Health:          a.Health,
		DocumentHandler: documents.NewHandler(docSvc),
		AnalysisHandler: analyses.NewHandler(a.Analyzer),
		GuidanceHandler: guidance.NewHandler(a.Guidance, classifier, a.Users),
		UserHandler:     users.NewHandler(a.Users),
		AccountHandler:  account.NewHandler(accountSvc),
		GoogleAuth: googleauth.NewGoogleService(googleauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			UIRedirect:   cfg.UIRedirectURL,
		}, a.Tokens, a.Users, states),
	})
	return nil
}

// Close releases database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			telemetry.Warn("bootstrap.redis_close_failed", map[string]any{"error": err})
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err})
		}
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case s3store.ProviderName:
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
