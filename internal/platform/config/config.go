// Package config loads the bot's configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, populated from CHRONICLER_* vars.
//
// GatewayURL is optional: without it the bot runs HTTP-only, which is the
// useful mode for local development.
type Config struct {
	GatewayURL   string `env:"CHRONICLER_GATEWAY_URL"`
	GatewayToken string `env:"CHRONICLER_GATEWAY_TOKEN"`
	PublicURL    string `env:"CHRONICLER_PUBLIC_URL"`
	HTTPAddr     string `env:"CHRONICLER_HTTP_ADDR" envDefault:":8080"`
	MeritDir     string `env:"CHRONICLER_MERIT_DIR" envDefault:"./merits"`
	LogLevel     string `env:"CHRONICLER_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and parses the configuration.
func Load() (Config, error) {
	// A missing .env file is not an error; the environment may already
	// be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
