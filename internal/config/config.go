package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTokenTTL is the canonical access token lifetime.
const DefaultTokenTTL = 30 * time.Minute

var ErrSecretRequired = errors.New("auth.jwt_secret (or JWT_SECRET) must be set when server.mode is release")

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"` // "debug" or "release"
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int64  `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`
}

// LoadConfig reads configuration from the specified YAML file and applies
// environment overrides (PORT, DATABASE_URL, JWT_SECRET).
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	if config.Server.Port == "" {
		config.Server.Port = ":8000"
	}
	if config.Uploads.Dir == "" {
		config.Uploads.Dir = "uploads"
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate rejects configurations that must not reach production. A missing
// signing secret is tolerated only in debug mode, where an insecure
// development key is substituted.
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.Server.Mode == "release" {
			return ErrSecretRequired
		}
		c.Auth.JWTSecret = "dev-only-insecure-secret"
	}
	return nil
}

// TokenTTL returns the configured token lifetime, falling back to the
// canonical 30 minute default.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return DefaultTokenTTL
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
