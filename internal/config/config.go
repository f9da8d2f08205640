// Package config loads server configuration with viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DBConfig holds database configuration.
type DBConfig struct {
	Path string
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// Load reads configuration from config.yaml (if present) and the
// environment, applying defaults. Environment variables use the
// HISAAB_ prefix with underscores (e.g. HISAAB_AUTH_JWTSECRET).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("DB.Path", "./data/hisaab.db")
	v.SetDefault("Auth.JWTSecret", "") // env-only keys must be known to viper
	v.SetDefault("Auth.TokenDuration", "24h")
	v.SetDefault("Log.Level", "info")

	v.SetEnvPrefix("HISAAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtsecret is required")
	}
	if cfg.Auth.TokenDuration <= 0 {
		return nil, fmt.Errorf("auth.tokenduration must be positive")
	}
	return &cfg, nil
}
