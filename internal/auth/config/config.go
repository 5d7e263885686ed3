package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// JWT configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"campus-facilities-auth"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Redis configuration for the session store
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Cookie configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"campus_auth_token"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	switch strings.ToLower(cfg.CookieSameSite) {
	case "lax":
		cfg.CookieSameSite = "Lax"
	case "strict":
		cfg.CookieSameSite = "Strict"
	case "none":
		cfg.CookieSameSite = "None"
	default:
		return nil, errors.New("COOKIE_SAME_SITE must be one of 'Lax', 'Strict', or 'None'")
	}

	return cfg, nil
}
