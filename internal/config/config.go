package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

var globalConfig *Config

// Config holds all environment backed configuration for the club API.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Auth (external identity provider, verified via JWKS)
	JWKSURL             string        `env:"JWKS_URL"`
	OIDCDiscoveryURL    string        `env:"OIDC_DISCOVERY_URL"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE" envDefault:"authenticated"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`

	// LLM provider
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel         string        `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel    string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	ChatTemperature   float32       `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	ChatMaxTokens     int           `env:"CHAT_MAX_TOKENS" envDefault:"1000"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"120s"`

	// Retrieval
	StewardMatchCount      int     `env:"STEWARD_MATCH_COUNT" envDefault:"5"`
	StewardMinSimilarity   float64 `env:"STEWARD_MIN_SIMILARITY" envDefault:"0.7"`
	CategoryMatchCount     int     `env:"CATEGORY_MATCH_COUNT" envDefault:"2"`
	CategoryMinSimilarity  float64 `env:"CATEGORY_MIN_SIMILARITY" envDefault:"0.7"`
	ContextMaxChunks       int     `env:"CONTEXT_MAX_CHUNKS" envDefault:"3"`
	SearchDefaultThreshold float64 `env:"SEARCH_DEFAULT_THRESHOLD" envDefault:"0.78"`
	SearchMaxResults       int     `env:"SEARCH_MAX_RESULTS" envDefault:"5"`

	// Guest quota. Email capture grants the difference between the two
	// limits, so the second limit is the hard ceiling.
	GuestFreeQuota int `env:"GUEST_FREE_QUOTA" envDefault:"3"`
	GuestHardQuota int `env:"GUEST_HARD_QUOTA" envDefault:"6"`

	// Media / avatar storage (S3 compatible)
	S3Endpoint    string `env:"S3_ENDPOINT"`
	S3Region      string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket      string `env:"S3_BUCKET" envDefault:"daosail-media"`
	S3AccessKey   string `env:"S3_ACCESS_KEY"`
	S3SecretKey   string `env:"S3_SECRET_KEY"`
	S3PublicBase  string `env:"S3_PUBLIC_BASE_URL"`
	AvatarMaxSize int64  `env:"AVATAR_MAX_SIZE_BYTES" envDefault:"2097152"`

	// Background sweeps
	SweepSchedule        string        `env:"SWEEP_SCHEDULE" envDefault:"*/30 * * * *"`
	SweepLookback        time.Duration `env:"SWEEP_LOOKBACK" envDefault:"24h"`
	DeletedSessionMaxAge time.Duration `env:"DELETED_SESSION_MAX_AGE" envDefault:"720h"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"club-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"daosail"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate   bool `env:"AUTO_MIGRATE" envDefault:"true"`
	EnableSwagger bool `env:"ENABLE_SWAGGER" envDefault:"true"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWKSURL == "" && cfg.OIDCDiscoveryURL == "" {
		return nil, errors.New("either JWKS_URL or OIDC_DISCOVERY_URL must be provided")
	}

	if cfg.JWKSURL != "" {
		if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	}

	if cfg.OIDCDiscoveryURL != "" {
		if _, err := url.ParseRequestURI(cfg.OIDCDiscoveryURL); err != nil {
			return nil, fmt.Errorf("invalid OIDC_DISCOVERY_URL: %w", err)
		}
	}

	if cfg.GuestHardQuota < cfg.GuestFreeQuota {
		return nil, fmt.Errorf("GUEST_HARD_QUOTA (%d) must be >= GUEST_FREE_QUOTA (%d)", cfg.GuestHardQuota, cfg.GuestFreeQuota)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// ResolveJWKSURL returns the JWKS endpoint using either the explicit JWKS_URL or the OIDC discovery document.
func (c *Config) ResolveJWKSURL(ctx context.Context) (string, error) {
	if c.JWKSURL != "" {
		return c.JWKSURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OIDCDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("oidc discovery request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc discovery unexpected status: %s", resp.Status)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode oidc discovery: %w", err)
	}

	if doc.JWKSURL == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}

	return doc.JWKSURL, nil
}

// GetGlobal returns the global config instance for backwards compatibility.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
