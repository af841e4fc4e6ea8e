package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// RateLimit configures one token bucket group.
type RateLimit struct {
	Rate  float64
	Burst int
}

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowOrigin    []string
	TrustedProxies     []string
	DatabaseURL        string
	RedisURL           string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	JWTSecret          string
	JWTTTL             time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	RulesPath          string
	PolicyPath         string
	ClassifierProvider string
	AnthropicAPIKey    string
	AnthropicModel     string
	RateLimitDefault   RateLimit
	RateLimitAnalyze   RateLimit
}

// Load reads configuration from environment variables with sensible defaults.
// It never fails; call Validate before serving.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                normalizeEnv(getEnv("ENV", EnvDev)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		TrustedProxies:     splitAndTrim(os.Getenv("TRUSTED_PROXIES")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		RulesPath:          getEnv("RULES_PATH", ""),
		PolicyPath:         getEnv("POLICY_PATH", ""),
		ClassifierProvider: normalizeClassifier(getEnv("CLASSIFIER_PROVIDER", "keyword")),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", ""),
		RateLimitDefault: RateLimit{
			Rate:  getFloat("RATE_LIMIT_DEFAULT_RATE", 5),
			Burst: getInt("RATE_LIMIT_DEFAULT_BURST", 30),
		},
		RateLimitAnalyze: RateLimit{
			Rate:  getFloat("RATE_LIMIT_ANALYZE_RATE", 0.2),
			Burst: getInt("RATE_LIMIT_ANALYZE_BURST", 5),
		},
	}
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == EnvDev || c.Env == EnvLocal
}

// IsProduction reports whether the deployment context is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// parsed reads key with parse, falling back to def when the variable is
// unset or malformed.
func parsed[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := parse(raw)
	if err != nil {
		return def
	}
	return val
}

func getInt(key string, def int) int {
	return parsed(key, def, strconv.Atoi)
}

func getFloat(key string, def float64) float64 {
	return parsed(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getDuration(key string, def time.Duration) time.Duration {
	return parsed(key, def, time.ParseDuration)
}

func splitAndTrim(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return EnvProduction
	case "staging":
		return EnvStaging
	case "local":
		return EnvLocal
	default:
		return EnvDev
	}
}

func normalizeStoreType(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "s3") {
		return "s3"
	}
	return "local"
}

func normalizeClassifier(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "anthropic", "claude":
		return "anthropic"
	default:
		return "keyword"
	}
}
