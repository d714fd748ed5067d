package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/EmmanuelKeifala/LMS-SERVER/pkg/config"
)

const devSecretPlaceholder = "change-this-to-a-secure-secret"

// Config holds all configuration for the LMS server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"lms"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"lms_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"lms_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tokens. Access, refresh, and activation tokens are signed with distinct
	// secrets so a token of one kind can never pass validation as another.
	AccessTokenSecret     string        `env:"ACCESS_TOKEN_SECRET" envDefault:"change-this-to-a-secure-secret"`
	RefreshTokenSecret    string        `env:"REFRESH_TOKEN_SECRET" envDefault:"change-this-to-a-secure-secret"`
	ActivationTokenSecret string        `env:"ACTIVATION_TOKEN_SECRET" envDefault:"change-this-to-a-secure-secret"`
	AccessTokenTTL        time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"5m"`
	RefreshTokenTTL       time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"59m"`
	ActivationTokenTTL    time.Duration `env:"ACTIVATION_TOKEN_TTL" envDefault:"5m"`

	// Session and course caches
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CourseCacheTTL time.Duration `env:"COURSE_CACHE_TTL" envDefault:"1h"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// In non-development environments, require explicitly set, strong secrets.
	if cfg.Environment != "development" {
		secrets := map[string]string{
			"ACCESS_TOKEN_SECRET":     cfg.AccessTokenSecret,
			"REFRESH_TOKEN_SECRET":    cfg.RefreshTokenSecret,
			"ACTIVATION_TOKEN_SECRET": cfg.ActivationTokenSecret,
		}
		for name, secret := range secrets {
			if secret == devSecretPlaceholder {
				return nil, fmt.Errorf("%s must be explicitly set via environment variable in %q mode", name, cfg.Environment)
			}
			if len(secret) < 32 {
				return nil, fmt.Errorf("%s must be at least 32 characters long, got %d", name, len(secret))
			}
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
