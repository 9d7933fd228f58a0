package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("MAIL_FROM", "hello@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "hello@example.com", cfg.Mail.From)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 300, cfg.Database.ConnMaxLifetimeSec)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "outbox/", cfg.Mail.OutboxPrefix)
	assert.Equal(t, "grpc", cfg.Tracing.Protocol)
	assert.Equal(t, 1.0, cfg.Tracing.SamplerArg)
	assert.NotEmpty(t, cfg.Analytics.CountersID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric pool size", key: "DB_MAX_OPEN_CONNS", value: "many"},
		{name: "bad bool", key: "MINIO_USE_SSL", value: "sometimes"},
		{name: "bcrypt cost too low", key: "AUTH_BCRYPT_COST", value: "2"},
		{name: "bcrypt cost too high", key: "AUTH_BCRYPT_COST", value: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Asia/Jakarta"}
	loc := cfg.Location()
	assert.Equal(t, "Asia/Jakarta", loc.String())

	cfg.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, cfg.Location())
}
