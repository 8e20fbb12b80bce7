// Package config loads application configuration from an optional TOML
// file with environment-variable overrides. Env vars win over the file,
// the file wins over defaults, so the same binary runs from a checked-in
// config.toml in development and plain env vars in production.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Images   ImagesConfig   `toml:"images"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig contains token-signing settings. JWTSecret has no default:
// the server refuses to start without one.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// ImagesConfig contains the album cover directory.
type ImagesConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used when neither the file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "data/recordcrate.db"},
		Images:   ImagesConfig{Dir: "data/images/albums"},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (a
// missing file is fine), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env and defaults
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("IMAGES_DIR"); v != "" {
		c.Images.Dir = v
	}
	return nil
}
