package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" envDefault:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" envDefault:"300"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// MailConfig controls the welcome email and where outgoing messages are queued.
type MailConfig struct {
	From         string `env:"MAIL_FROM" envDefault:"no-reply@travelapi.local"`
	OutboxPrefix string `env:"MAIL_OUTBOX_PREFIX" envDefault:"outbox/"`
	AppName      string `env:"MAIL_APP_NAME" envDefault:"Travel"`
	BaseURL      string `env:"MAIL_BASE_URL" envDefault:"http://localhost:8080"`
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// AnalyticsConfig names the counters document updated by signups.
type AnalyticsConfig struct {
	CountersID string `env:"ANALYTICS_COUNTERS_ID" envDefault:"00000000-0000-0000-0000-000000000001"`
}

// TracingConfig mirrors the standard OTEL_* variables the exporter setup cares about.
type TracingConfig struct {
	Disabled    bool    `env:"OTEL_SDK_DISABLED" envDefault:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"travelapi"`
	Protocol    string  `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"grpc"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Sampler     string  `env:"OTEL_TRACES_SAMPLER" envDefault:"parentbased_traceidratio"`
	SamplerArg  float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string `env:"APP_HOST" envDefault:"localhost:8080"`
	Port      string `env:"PORT" envDefault:"8080"`
	Timezone  string `env:"APP_TIMEZONE" envDefault:"UTC"`
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Mail      MailConfig
	Auth      AuthConfig
	Analytics AnalyticsConfig
	Tracing   TracingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31, got %d", cfg.Auth.BcryptCost)
	}
	return &cfg, nil
}

// Location resolves APP_TIMEZONE, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
