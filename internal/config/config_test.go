package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

const strongSecret = "this-is-a-very-secure-secret-key-for-production-use-1234"

func TestLoad_Development_AcceptsDefaultSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, devSecretPlaceholder, cfg.AccessTokenSecret)
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":             "production",
		"ACCESS_TOKEN_SECRET":     strongSecret,
		"REFRESH_TOKEN_SECRET":    strongSecret + "-refresh",
		"ACTIVATION_TOKEN_SECRET": devSecretPlaceholder,
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ACTIVATION_TOKEN_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":             "production",
		"ACCESS_TOKEN_SECRET":     "short-but-not-default-secret",
		"REFRESH_TOKEN_SECRET":    strongSecret,
		"ACTIVATION_TOKEN_SECRET": strongSecret + "-act",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET must be at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":             "production",
		"ACCESS_TOKEN_SECRET":     strongSecret,
		"REFRESH_TOKEN_SECRET":    strongSecret + "-refresh",
		"ACTIVATION_TOKEN_SECRET": strongSecret + "-act",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, strongSecret, cfg.AccessTokenSecret)
}

func TestLoad_Production_AcceptsExactly32CharSecret(t *testing.T) {
	// Exactly 32 characters -- boundary case.
	secret := "abcdefghijklmnopqrstuvwxyz123456"
	assert.Equal(t, 32, len(secret), "test fixture must be exactly 32 chars")

	setEnvs(t, map[string]string{
		"ENVIRONMENT":             "production",
		"ACCESS_TOKEN_SECRET":     secret,
		"REFRESH_TOKEN_SECRET":    secret,
		"ACTIVATION_TOKEN_SECRET": secret,
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, secret, cfg.AccessTokenSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 59*time.Minute, cfg.RefreshTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.ActivationTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.CourseCacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db",
		PostgresPort: 5432,
		PostgresUser: "lms",
		PostgresPass: "pw",
		PostgresDB:   "lms_db",
		PostgresSSL:  "disable",
	}
	assert.Equal(t, "postgres://lms:pw@db:5432/lms_db?sslmode=disable", cfg.PostgresDSN())
}
