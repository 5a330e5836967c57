package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvProduction = "production"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config contains runtime configuration values.
type Config struct {
	APIURL      string `env:"EMPATHY_API_URL,required,notEmpty"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"1s"`

	FanoutBatchSize  int           `env:"FANOUT_BATCH_SIZE" envDefault:"10"`
	FanoutBatchPause time.Duration `env:"FANOUT_BATCH_PAUSE" envDefault:"500ms"`

	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionKey     string        `env:"SESSION_KEY" envDefault:"empathy:session:token"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"0s"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	AnnounceCron      string `env:"ANNOUNCE_CRON"`
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// Load builds a Config from the environment, reading a .env file first if present.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Production reports whether diagnostics should be kept quiet.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}

func (c *Config) validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MAX_RETRIES must not be negative", ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: RETRY_DELAY must not be negative", ErrInvalidConfig)
	}
	if c.FanoutBatchSize <= 0 {
		return fmt.Errorf("%w: FANOUT_BATCH_SIZE must be positive", ErrInvalidConfig)
	}
	switch c.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis session backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown SESSION_BACKEND %q", ErrInvalidConfig, c.SessionBackend)
	}
	return nil
}
