package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the hosecat configuration file. Credentials and endpoints
// live here so they stay out of shell history.
type Config struct {
	// Endpoint is the streaming endpoint URL.
	Endpoint string `yaml:"endpoint"`
	// Username and Password form the Basic auth credentials shared by
	// every endpoint.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// RulesEndpoint, SearchEndpoint, and UsageEndpoint address the
	// collaborator REST APIs. Each is required only by its subcommand.
	RulesEndpoint  string `yaml:"rules_endpoint"`
	SearchEndpoint string `yaml:"search_endpoint"`
	UsageEndpoint  string `yaml:"usage_endpoint"`

	// UserAgent overrides the User-Agent header on every request.
	UserAgent string `yaml:"user_agent"`

	// IdleTimeout is the stream silence window. Must exceed 30s when
	// set.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// BackfillMinutes requests replay of recent history on connect.
	BackfillMinutes *int `yaml:"backfill_minutes"`
	// Partition selects a stream partition.
	Partition *int `yaml:"partition"`

	// MetricsListen, when set, serves Prometheus metrics on this
	// address while streaming (for example ":9102").
	MetricsListen string `yaml:"metrics_listen"`
}

// loadConfig reads and decodes the YAML configuration file.
func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("config %s: endpoint is required", path)
	}

	return &cfg, nil
}
