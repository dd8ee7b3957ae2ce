// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fightpurse/fightpursed/internal/xaman"
)

// MinJWTSecretBytes guards against weak HS256 keys.
const MinJWTSecretBytes = 32

var (
	ErrDatabaseURLRequired  = errors.New("DATABASE_URL is required")
	ErrJWTSecretTooShort    = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidJWTExpiry     = errors.New("JWT_EXP_MINUTES must be positive")
	ErrInvalidXamanMode     = errors.New("XAMAN_MODE must be stub or api")
	ErrXamanCredentialsMissing = errors.New("XAMAN_API_KEY and XAMAN_API_SECRET are required in api mode")
	ErrInvalidXamanTimeout  = errors.New("XAMAN_TIMEOUT_SECONDS must be positive")
)

// Config is the full runtime configuration.
type Config struct {
	AppName    string
	AppEnv     string
	ListenAddr string

	DatabaseURL            string
	DBAutoMigrateOnStartup bool

	JWTSecret  string
	JWTExpiry  time.Duration

	XamanMode         string
	XamanAPIBaseURL   string
	XamanAPIKey       string
	XamanAPISecret    string
	XamanTimeout      time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "FightPurse API")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LISTEN_ADDR", ":8000")
	v.SetDefault("JWT_SECRET", "change-me-in-production-min-32-chars")
	v.SetDefault("JWT_EXP_MINUTES", 60)
	v.SetDefault("XAMAN_MODE", xaman.ModeStub)
	v.SetDefault("XAMAN_API_BASE_URL", "https://xumm.app")
	v.SetDefault("XAMAN_TIMEOUT_SECONDS", 10)

	appEnv := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	v.SetDefault("DB_AUTO_MIGRATE_ON_STARTUP", isDevLikeEnv(appEnv))

	cfg := &Config{
		AppName:                v.GetString("APP_NAME"),
		AppEnv:                 appEnv,
		ListenAddr:             v.GetString("LISTEN_ADDR"),
		DatabaseURL:            v.GetString("DATABASE_URL"),
		DBAutoMigrateOnStartup: v.GetBool("DB_AUTO_MIGRATE_ON_STARTUP"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTExpiry:              time.Duration(v.GetInt("JWT_EXP_MINUTES")) * time.Minute,
		XamanMode:              strings.ToLower(strings.TrimSpace(v.GetString("XAMAN_MODE"))),
		XamanAPIBaseURL:        v.GetString("XAMAN_API_BASE_URL"),
		XamanAPIKey:            v.GetString("XAMAN_API_KEY"),
		XamanAPISecret:         v.GetString("XAMAN_API_SECRET"),
		XamanTimeout:           time.Duration(v.GetInt("XAMAN_TIMEOUT_SECONDS")) * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	if len(c.JWTSecret) < MinJWTSecretBytes {
		return ErrJWTSecretTooShort
	}
	if c.JWTExpiry <= 0 {
		return ErrInvalidJWTExpiry
	}
	if c.XamanMode != xaman.ModeStub && c.XamanMode != xaman.ModeAPI {
		return ErrInvalidXamanMode
	}
	if c.XamanMode == xaman.ModeAPI && (c.XamanAPIKey == "" || c.XamanAPISecret == "") {
		return ErrXamanCredentialsMissing
	}
	if c.XamanTimeout <= 0 {
		return ErrInvalidXamanTimeout
	}
	return nil
}

func isDevLikeEnv(appEnv string) bool {
	switch appEnv {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}
