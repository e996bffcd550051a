// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned outside development when JWT_SECRET is empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development")

// ErrMissingGoogleClientID is returned outside development when GOOGLE_CLIENT_ID is empty.
var ErrMissingGoogleClientID = errors.New("GOOGLE_CLIENT_ID is required outside development")

// Config is the full process configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// FrontendURL is the base of confirmation and password reset links.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	// FEHosts lists the origins allowed by CORS.
	FEHosts []string `env:"FE_HOSTS" envSeparator:","`

	SentryDSN string `env:"SENTRY_DSN"`

	Auth      AuthConfig
	Google    GoogleConfig
	DB        DBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret                  string `env:"JWT_SECRET"`
	LoginTokenTTLHours         int    `env:"LOGIN_TOKEN_TTL_HOURS" envDefault:"168"`
	ConfirmationTokenTTLHours  int    `env:"CONFIRMATION_TOKEN_TTL_HOURS" envDefault:"3"`
	PasswordResetTokenTTLHours int    `env:"PASSWORD_RESET_TOKEN_TTL_HOURS" envDefault:"24"`
}

// GoogleConfig holds Google token verification settings.
type GoogleConfig struct {
	ClientID     string        `env:"GOOGLE_CLIENT_ID"`
	TokenInfoURL string        `env:"GOOGLE_TOKENINFO_URL" envDefault:"https://oauth2.googleapis.com/tokeninfo"`
	Timeout      time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host           string        `env:"DB_HOST" envDefault:"localhost"`
	Port           string        `env:"DB_PORT" envDefault:"5432"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME"`
	SSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"false"`
}

// RedisConfig holds Redis settings. An empty Host disables caching.
type RedisConfig struct {
	Host           string        `env:"REDIS_HOST"`
	Port           string        `env:"REDIS_PORT" envDefault:"6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	FollowCacheTTL time.Duration `env:"FOLLOW_CACHE_TTL" envDefault:"30s"`
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	LoginPerSecond float64 `env:"LOGIN_RATE_LIMIT_PER_SECOND" envDefault:"5"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// The .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" && !cfg.IsDevelopment() {
		return nil, ErrMissingJWTSecret
	}
	if cfg.Google.ClientID == "" && !cfg.IsDevelopment() {
		return nil, ErrMissingGoogleClientID
	}
	return &cfg, nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// TTL converts an hour count into a duration.
func TTL(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}
