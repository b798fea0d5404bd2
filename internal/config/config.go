package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

const devJWTSecret = "dev-only-secret"

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName          string        `env:"APP_NAME"            envDefault:"LusoConnect Onboarding"`
	AppEnv           string        `env:"APP_ENV"             envDefault:"development"`
	Port             string        `env:"PORT"                envDefault:"8080"`
	LogLevel         string        `env:"LOG_LEVEL"           envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT"          envDefault:"json"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS"        envDefault:"10"`
	DBStatementLimit time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"5s"`
	RedisURL         string        `env:"REDIS_URL"`
	KafkaBrokers     string        `env:"KAFKA_BROKERS"`
	KafkaTopic       string        `env:"KAFKA_TOPIC"         envDefault:"member.events"`
	JWTSecret        string        `env:"JWT_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL"    envDefault:"15m"`
	ShutdownPeriod   time.Duration `env:"SHUTDOWN_TIMEOUT"    envDefault:"10s"`
	IdempotencyTTL   time.Duration `env:"IDEMPOTENCY_TTL"     envDefault:"24h"`
	WizardIdleTTL    time.Duration `env:"WIZARD_IDLE_TTL"     envDefault:"30m"`
	SubmitRatePerMin int           `env:"SUBMIT_RATE_PER_MIN" envDefault:"5"`
	Prices           PriceOverrides
}

// PriceOverrides replaces plan prices, in pence. Unset values keep the defaults.
type PriceOverrides struct {
	CommunityMonthly  int64 `env:"PRICE_COMMUNITY_MONTHLY"`
	CommunityAnnual   int64 `env:"PRICE_COMMUNITY_ANNUAL"`
	AmbassadorMonthly int64 `env:"PRICE_AMBASSADOR_MONTHLY"`
	AmbassadorAnnual  int64 `env:"PRICE_AMBASSADOR_ANNUAL"`
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.IsDev() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
		return cfg, nil
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// PricingOverrides converts the configured prices for the resolver.
func (c Config) PricingOverrides() pricing.Overrides {
	return pricing.Overrides{
		CommunityMonthly:  c.Prices.CommunityMonthly,
		CommunityAnnual:   c.Prices.CommunityAnnual,
		AmbassadorMonthly: c.Prices.AmbassadorMonthly,
		AmbassadorAnnual:  c.Prices.AmbassadorAnnual,
	}
}
