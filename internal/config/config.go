// Package config handles flag and environment configuration for the
// sampler.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/irondsd/pagespeed/internal/pagespeed"
)

// Strategies accepted by the PageSpeed API.
const (
	StrategyMobile  = "mobile"
	StrategyDesktop = "desktop"
)

// ErrInvalidOptions indicates a configuration error caught before any network activity
var ErrInvalidOptions = errors.New("invalid options")

var validate = validator.New()

// Options are the per-run settings collected from command line flags.
type Options struct {
	URL      string `validate:"required"`
	Count    int    `validate:"min=1"`
	Strategy string `validate:"oneof=mobile desktop"`
	Output   string `validate:"oneof=table json yaml"`
}

// Validate checks the options against their allowed values, failing
// fast with a named configuration error.
func (o *Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "URL":
			return fmt.Errorf("%w: --url is required", ErrInvalidOptions)
		case "Count":
			return fmt.Errorf("%w: --count must be a positive integer", ErrInvalidOptions)
		case "Strategy":
			return fmt.Errorf("%w: --strategy must be %q or %q", ErrInvalidOptions, StrategyMobile, StrategyDesktop)
		case "Output":
			return fmt.Errorf("%w: --output must be table, json or yaml", ErrInvalidOptions)
		}
	}

	return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
}

// Settings holds the environment-backed configuration.
type Settings struct {
	APIKey   string
	Endpoint string
	Interval time.Duration
}

// LoadSettings reads configuration from environment variables and a
// .env file when one is present.
func LoadSettings() (*Settings, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	s := &Settings{
		APIKey:   os.Getenv("PAGESPEED_API_KEY"),
		Endpoint: getEnv("PAGESPEED_ENDPOINT", pagespeed.DefaultEndpoint),
		Interval: time.Second,
	}

	if raw := os.Getenv("PAGESPEED_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAGESPEED_INTERVAL: %w", err)
		}
		s.Interval = interval
	}

	return s, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
