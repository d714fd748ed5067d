// Package config loads configuration structs from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg using `env` struct tags.
//
//	type Config struct {
//	    Port       int           `env:"HTTP_PORT" envDefault:"8080"`
//	    SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
//	}
//
// Slice fields split on the tag's envSeparator; time.Duration fields accept
// any value time.ParseDuration understands.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
