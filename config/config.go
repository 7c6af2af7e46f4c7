// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration.
type Config struct {
	Addr             string        `env:"GEOQUIZ_ADDR" envDefault:":8080"`
	Table            string        `env:"GEOQUIZ_TABLE,required,notEmpty"`
	RefIndex         string        `env:"GEOQUIZ_REF_INDEX"`
	DynamoDBEndpoint string        `env:"GEOQUIZ_DYNAMODB_ENDPOINT"`
	JWTSecret        string        `env:"GEOQUIZ_JWT_SECRET,required,notEmpty"`
	TokenTTL         time.Duration `env:"GEOQUIZ_TOKEN_TTL" envDefault:"24h"`
	BcryptCost       int           `env:"GEOQUIZ_BCRYPT_COST" envDefault:"10"`
	LogLevel         slog.Level    `env:"GEOQUIZ_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("GEOQUIZ_TOKEN_TTL must be positive, got %v", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("GEOQUIZ_BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
