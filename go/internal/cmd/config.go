package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arenaops/paddock/go/internal/arena"
)

// Config is the YAML settings file for arena defaults.
type Config struct {
	Arena struct {
		Slots           int    `yaml:"slots"`
		RunMinutes      int    `yaml:"run_minutes"`
		TeamPrefix      string `yaml:"team_prefix"`
		AutoCreateTeams *bool  `yaml:"auto_create_teams"`
	} `yaml:"arena"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// arenaConfig converts the file settings into the façade's config, falling
// back to the stock arena for anything unset.
func arenaConfig(cfg *Config) arena.Config {
	out := arena.DefaultConfig()
	if cfg == nil {
		return out
	}
	if cfg.Arena.Slots > 0 {
		out.SlotCount = cfg.Arena.Slots
	}
	if cfg.Arena.RunMinutes > 0 {
		out.RunDuration = time.Duration(cfg.Arena.RunMinutes) * time.Minute
	}
	if cfg.Arena.TeamPrefix != "" {
		out.TeamPrefix = cfg.Arena.TeamPrefix
	}
	if cfg.Arena.AutoCreateTeams != nil {
		out.AutoCreateTeams = *cfg.Arena.AutoCreateTeams
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
