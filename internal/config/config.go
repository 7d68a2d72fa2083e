// Package config loads bot configuration from an optional .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/example/sacsbot/internal/calc"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingToken is returned when the bot is started without a token.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

var validate = validator.New()

// Config holds environment-driven configuration.
type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramDebug bool   `envconfig:"TELEGRAM_DEBUG" default:"false"`
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"60" validate:"gte=0"`

	Port       string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"memory" validate:"oneof=memory mongo"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m" validate:"gt=0"`
	MongoURI       string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017" validate:"required_if=SessionBackend mongo"`
	MongoDB        string        `envconfig:"MONGO_DB" default:"sacsbot" validate:"required_if=SessionBackend mongo"`

	RateLimitRPM   int `envconfig:"RATE_LIMIT_RPM" default:"30" validate:"gte=0"`
	RateLimitBurst int `envconfig:"RATE_LIMIT_BURST" default:"5" validate:"gte=1"`

	LinesMin int `envconfig:"LINES_MIN" default:"1" validate:"gte=1,lte=17"`
	LinesMax int `envconfig:"LINES_MAX" default:"17" validate:"gtefield=LinesMin,lte=17"`
	BagsMin  int `envconfig:"BAGS_MIN" default:"1" validate:"gte=1,lte=100"`
	BagsMax  int `envconfig:"BAGS_MAX" default:"10" validate:"gtefield=BagsMin,lte=100"`
}

// LoadDotEnv loads variables from path (".env" when empty). A missing file
// is not an error; variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Limits returns the configured input ranges.
func (c Config) Limits() calc.Limits {
	return calc.Limits{
		Lines: calc.Range{Min: c.LinesMin, Max: c.LinesMax},
		Bags:  calc.Range{Min: c.BagsMin, Max: c.BagsMax},
	}
}

// RequireToken fails when no bot token is configured.
func (c Config) RequireToken() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}
