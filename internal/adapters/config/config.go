package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"saju/pkg/errors"
)

type Config struct {
	App           AppConfig
	Engine        EngineConfig
	Redis         RedisConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"saju"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// EngineConfig holds chart computation defaults. Per-birth flags override
// the boolean defaults on the CLI.
type EngineConfig struct {
	ReferenceLongitude float64 `envconfig:"SAJU_REFERENCE_LONGITUDE" default:"126.978"`
	StandardMeridian   float64 `envconfig:"SAJU_STANDARD_MERIDIAN" default:"135"`
	UseTrueSolarTime   bool    `envconfig:"SAJU_TRUE_SOLAR_TIME" default:"false"`
	ApplyDST           bool    `envconfig:"SAJU_APPLY_DST" default:"true"`
	MidnightMode       string  `envconfig:"SAJU_MIDNIGHT_MODE" default:"late"`

	IncludeHiddenStems    bool    `envconfig:"SAJU_INCLUDE_HIDDEN_STEMS" default:"true"`
	MonthHiddenMultiplier float64 `envconfig:"SAJU_MONTH_HIDDEN_MULTIPLIER" default:"2"`

	BatchConcurrency int `envconfig:"SAJU_BATCH_CONCURRENCY" default:"8"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_REPORT_TTL" default:"720h"`

	ConnectRetries int           `envconfig:"REDIS_CONNECT_RETRIES" default:"3"`
	ConnectBackoff time.Duration `envconfig:"REDIS_CONNECT_BACKOFF" default:"200ms"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	var errs errors.MultiError

	if c.Engine.MidnightMode != "late" && c.Engine.MidnightMode != "early" {
		errs.Add(errors.NewValidationError("SAJU_MIDNIGHT_MODE", "must be late or early", c.Engine.MidnightMode))
	}
	if c.Engine.ReferenceLongitude < -180 || c.Engine.ReferenceLongitude > 180 {
		errs.Add(errors.NewValidationError("SAJU_REFERENCE_LONGITUDE", "must be within -180..180", c.Engine.ReferenceLongitude))
	}
	if c.Engine.MonthHiddenMultiplier <= 0 {
		errs.Add(errors.NewValidationError("SAJU_MONTH_HIDDEN_MULTIPLIER", "must be positive", c.Engine.MonthHiddenMultiplier))
	}
	if c.Engine.BatchConcurrency < 1 {
		errs.Add(errors.NewValidationError("SAJU_BATCH_CONCURRENCY", "must be at least 1", c.Engine.BatchConcurrency))
	}
	if c.Redis.Enabled && c.Redis.TTL < 0 {
		errs.Add(errors.NewValidationError("REDIS_REPORT_TTL", "must not be negative", c.Redis.TTL))
	}

	return errs.ToError()
}
