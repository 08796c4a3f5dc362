// Package config loads apogee's runtime configuration from .apogee.yaml,
// APOGEE_* environment variables, and CLI flags via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for an apogee invocation.
type Config struct {
	MissionPath   string `mapstructure:"mission_path"`
	Workers       int    `mapstructure:"workers"`
	KeepTop       int    `mapstructure:"keep_top"`
	HistoryDB     string `mapstructure:"history_db"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	NoColor       bool   `mapstructure:"no_color"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("mission_path", "mission.toml")
	viper.SetDefault("workers", 0) // 0 = one per CPU
	viper.SetDefault("keep_top", 10)
	viper.SetDefault("history_db", ".apogee/history.db")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("no_color", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
