// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play     PlayConfig     `toml:"play"`
	Adaptive AdaptiveConfig `toml:"adaptive"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Level    *int    `toml:"level"`
	Trials   *int    `toml:"trials"`
	Alphabet *string `toml:"alphabet"`
	Sound    *bool   `toml:"sound"`
	Player   *string `toml:"player"`
	ShowMs   *int    `toml:"show-ms"`
	GapMs    *int    `toml:"gap-ms"`
}

// AdaptiveConfig maps level-adjustment settings.
type AdaptiveConfig struct {
	Enabled       *bool `toml:"enabled"`
	UpThreshold   *int  `toml:"up-threshold"`
	DownThreshold *int  `toml:"down-threshold"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
