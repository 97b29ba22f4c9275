package app

import (
	"errors"
	"fmt"
)

// Strategy names.
const (
	StrategyNative = "native"
	StrategyPlan   = "plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl files or directories
	// Instances lists the (compact) IRIs to build. Empty builds every config.
	Instances []string
	Strategy  string
	// Variables maps (compact) variable IRIs to their values.
	Variables map[string]any

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyNative
	}
	if cfg.Strategy != StrategyNative && cfg.Strategy != StrategyPlan {
		return nil, fmt.Errorf("unknown strategy %q: must be '%s' or '%s'", cfg.Strategy, StrategyNative, StrategyPlan)
	}
	return &cfg, nil
}
