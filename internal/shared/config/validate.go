package config

import (
	"fmt"
	"strconv"
	"strings"

	"mietrecht-backend/internal/analyses/rules"
	"mietrecht-backend/internal/policy"
	"mietrecht-backend/internal/shared/auth"
)

// ValidationError lists every configuration problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the configuration for the selected environment. It returns a
// *ValidationError describing all problems, or nil.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if port, err := strconv.Atoi(strings.TrimSpace(c.Port)); err != nil || port <= 0 || port > 65535 {
		add("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.IsProduction() {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			add("DATABASE_URL is required in production")
		}
		if auth.IsInsecureSecret(c.JWTSecret) {
			add("JWT_SECRET must be set to a non-default value of at least 32 bytes in production")
		}
		for _, origin := range c.CORSAllowOrigin {
			if origin == "*" {
				add("CORS_ALLOW_ORIGINS must not contain * in production")
				break
			}
		}
	}

	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		add("S3_BUCKET is required when OBJECT_STORE=s3")
	}
	if c.ClassifierProvider == "anthropic" && strings.TrimSpace(c.AnthropicAPIKey) == "" {
		add("ANTHROPIC_API_KEY is required when CLASSIFIER_PROVIDER=anthropic")
	}
	if c.JWTTTL <= 0 {
		add("JWT_TTL must be positive")
	}
	if c.RateLimitDefault.Rate <= 0 || c.RateLimitDefault.Burst <= 0 {
		add("RATE_LIMIT_DEFAULT_RATE and RATE_LIMIT_DEFAULT_BURST must be positive")
	}
	if c.RateLimitAnalyze.Rate <= 0 || c.RateLimitAnalyze.Burst <= 0 {
		add("RATE_LIMIT_ANALYZE_RATE and RATE_LIMIT_ANALYZE_BURST must be positive")
	}

	if _, err := rules.LoadThresholds(c.RulesPath); err != nil {
		add("RULES_PATH: %v", err)
	}
	if _, err := policy.Load(c.PolicyPath); err != nil {
		add("POLICY_PATH: %v", err)
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// EffectiveJWTSecret returns the signing secret, falling back to the dev
// default outside production.
func (c Config) EffectiveJWTSecret() string {
	if c.JWTSecret == "" && !c.IsProduction() {
		return auth.DevSecret
	}
	return c.JWTSecret
}
