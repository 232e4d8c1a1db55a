// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	App     AppConfig     `toml:"app"`
	Relax   RelaxConfig   `toml:"relax"`
	Blocker BlockerConfig `toml:"blocker"`
	Chat    ChatConfig    `toml:"chat"`
	Monitor MonitorConfig `toml:"monitor"`
}

// AppConfig maps process-wide settings.
type AppConfig struct {
	Snapshot *string `toml:"snapshot"`
	LogLevel *string `toml:"log-level"`
	LogFile  *string `toml:"log-file"`
}

// RelaxConfig maps relaxation settings.
type RelaxConfig struct {
	Volume *int `toml:"volume"`
}

// BlockerConfig maps focus blocker settings.
type BlockerConfig struct {
	Minutes *int `toml:"minutes"`
}

// ChatConfig maps chat settings.
type ChatConfig struct {
	ReplyDelayMs *int `toml:"reply-delay-ms"`
}

// MonitorConfig maps usage monitor settings.
type MonitorConfig struct {
	DailyGoalMinutes *int `toml:"daily-goal-minutes"`
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
