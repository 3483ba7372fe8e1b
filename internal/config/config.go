package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the file-backed server configuration. Flags layered on top
// in cmd override any of these values.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
	Expiry  ExpiryConfig  `json:"expiry"`
}

// ServerConfig is the HTTP server section.
type ServerConfig struct {
	Bind         string `json:"bind"`
	Port         int    `json:"port"`
	DatabasePath string `json:"database_path"`
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// ExpiryConfig is the expired-post sweep section. Schedule is a cron
// expression; an empty string disables the sweep.
type ExpiryConfig struct {
	Schedule string `json:"schedule"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind:         "",
			Port:         8080,
			DatabasePath: "./palaver.db",
		},
		Logging: LoggingConfig{
			File:       "",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Expiry: ExpiryConfig{
			Schedule: "@hourly",
		},
	}
}

// Load reads the JSON config at path, layering it over the defaults. A
// missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
