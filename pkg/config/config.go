package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOREFRONT"

	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvPort              = "STOREFRONT_APP_PORT"
	EnvLogLevel          = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat         = "STOREFRONT_LOG_FORMAT"
	EnvCatalogPath       = "STOREFRONT_CATALOG_PATH"
	EnvToastMaxVisible   = "STOREFRONT_TOAST_MAX_VISIBLE"
	EnvToastDisplay      = "STOREFRONT_TOAST_DISPLAY"
	EnvToastFade         = "STOREFRONT_TOAST_FADE"
	EnvSessionIdleTTL    = "STOREFRONT_SESSION_IDLE_TTL"
	EnvSessionSweepEvery = "STOREFRONT_SESSION_SWEEP_INTERVAL"
	EnvSessionMaxOpen    = "STOREFRONT_SESSION_MAX_OPEN"
	EnvCORSOrigins       = "STOREFRONT_CORS_ORIGINS"
	EnvRedisURL          = "STOREFRONT_REDIS_URL"
	EnvRateLimitWindow   = "STOREFRONT_RATE_LIMIT_WINDOW"
	EnvRateLimitActions  = "STOREFRONT_RATE_LIMIT_ACTIONS"

	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Toast     ToastConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Toast.validate(); err != nil {
		return nil, err
	}
	if cfg.Session.MaxOpen < 1 {
		return nil, fmt.Errorf("%s must be at least 1", EnvSessionMaxOpen)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	// CORSOrigins is comma separated.
	CORSOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:8080"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at an optional YAML catalog. Empty means the built-in collection.
type CatalogConfig struct {
	Path string `envconfig:"STOREFRONT_CATALOG_PATH"`
}

type ToastConfig struct {
	MaxVisible int           `envconfig:"STOREFRONT_TOAST_MAX_VISIBLE" default:"3"`
	Display    time.Duration `envconfig:"STOREFRONT_TOAST_DISPLAY" default:"2400ms"`
	Fade       time.Duration `envconfig:"STOREFRONT_TOAST_FADE" default:"400ms"`
}

func (t ToastConfig) validate() error {
	if t.MaxVisible < 1 {
		return fmt.Errorf("%s must be at least 1", EnvToastMaxVisible)
	}
	if t.Display <= 0 {
		return fmt.Errorf("%s must be positive", EnvToastDisplay)
	}
	if t.Fade < 0 {
		return fmt.Errorf("%s cannot be negative", EnvToastFade)
	}
	return nil
}

type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"1m"`
	MaxOpen       int           `envconfig:"STOREFRONT_SESSION_MAX_OPEN" default:"10000"`
}

// RedisConfig is optional; an empty URL and address disable Redis-backed features.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	Window  time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_WINDOW" default:"1m"`
	Actions int           `envconfig:"STOREFRONT_RATE_LIMIT_ACTIONS" default:"120"`
}
