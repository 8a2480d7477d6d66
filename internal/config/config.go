package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const insecureDefaultSecret = "your-secret-key"

// Config holds all configuration for the application
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// Database Configuration
	Database DatabaseConfig

	// Session and admin credential configuration
	Session SessionConfig
	Admin   AdminConfig

	// Logging Configuration
	Logging LoggingConfig

	// Observability
	Metrics MetricsConfig
	Tracing TracingConfig

	// Background jobs
	Jobs JobsConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port                    int    `validate:"min=1,max=65535"`
	Environment             string `validate:"required"`
	FrontendURL             string `validate:"required,url"`
	LoginRateLimitPerMinute int    `validate:"min=0"`

	// Proxies whose X-Forwarded-For is believed. Empty trusts no one, so the
	// client IP is always the TCP peer.
	TrustedProxies []string `validate:"dive,ip|cidr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `validate:"required"` // SQLite path or postgres:// URL
}

// SessionConfig holds cookie session settings
type SessionConfig struct {
	Secret     string        `validate:"required"`
	CookieName string        `validate:"required"`
	TTL        time.Duration `validate:"gt=0"`
}

// AdminConfig holds the single admin credential pair
type AdminConfig struct {
	Email        string `validate:"required"`
	Password     string
	PasswordHash string // bcrypt hash, takes precedence over Password
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json console"` // json, console
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// TracingConfig controls OTLP trace export
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64 `validate:"gte=0,lte=1"`
}

// JobsConfig holds cron schedules for background jobs
type JobsConfig struct {
	SessionPurgeSchedule string `validate:"required"`
}

// IsProduction reports whether cookies must be marked Secure
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// UsesDefaultSecret reports whether the session secret was left at its placeholder
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == insecureDefaultSecret
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return FromEnv(os.Getenv)
}

// FromEnv builds a validated Config from the given lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(env("PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	rateLimit, err := strconv.Atoi(env("LOGIN_RATE_LIMIT_PER_MINUTE", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT_PER_MINUTE: %w", err)
	}

	ttl, err := time.ParseDuration(env("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	metricsEnabled, err := strconv.ParseBool(env("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	otelEnabled, err := strconv.ParseBool(env("OTEL_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}

	otelInsecure, err := strconv.ParseBool(env("OTEL_INSECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_INSECURE: %w", err)
	}

	sampleRatio, err := strconv.ParseFloat(env("OTEL_SAMPLE_RATIO", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLE_RATIO: %w", err)
	}

	var trustedProxies []string
	for _, proxy := range strings.Split(getenv("TRUSTED_PROXIES"), ",") {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			trustedProxies = append(trustedProxies, proxy)
		}
	}

	// APP_ENV wins, NODE_ENV kept for existing deployments
	environment := env("APP_ENV", env("NODE_ENV", "development"))

	cfg := &Config{
		Server: ServerConfig{
			Port:                    port,
			Environment:             environment,
			FrontendURL:             env("FRONTEND_URL", "http://localhost:3000"),
			LoginRateLimitPerMinute: rateLimit,
			TrustedProxies:          trustedProxies,
		},
		Database: DatabaseConfig{
			URL: env("DATABASE_URL", "realestate.sqlite"),
		},
		Session: SessionConfig{
			Secret:     env("SESSION_SECRET", insecureDefaultSecret),
			CookieName: env("SESSION_COOKIE_NAME", "realestate.sid"),
			TTL:        ttl,
		},
		Admin: AdminConfig{
			Email:        env("ADMIN_EMAIL", "admin@gmail.com"),
			Password:     env("ADMIN_PASSWORD", "1234"),
			PasswordHash: getenv("ADMIN_PASSWORD_HASH"),
		},
		Logging: LoggingConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: strings.ToLower(env("LOG_FORMAT", "json")),
		},
		Metrics: MetricsConfig{
			Enabled: metricsEnabled,
		},
		Tracing: TracingConfig{
			Enabled:     otelEnabled,
			Endpoint:    env("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    otelInsecure,
			SampleRatio: sampleRatio,
		},
		Jobs: JobsConfig{
			SessionPurgeSchedule: env("SESSION_PURGE_SCHEDULE", "@every 1h"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("invalid configuration: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	return cfg, nil
}
