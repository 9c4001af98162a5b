// Package am manages ANNX core configuration ("I am").
//
// Configuration is resolved by viper from, in order of precedence:
// environment variables (ANNX_ prefix), an explicit config file, annx.toml
// in the working directory, and built-in defaults.
package am

import "fmt"

// Config is the root configuration structure.
type Config struct {
	Predictor PredictorConfig `mapstructure:"predictor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PredictorConfig parametrizes the batch pipeline.
type PredictorConfig struct {
	ContextKind         string  `mapstructure:"context_kind"`           // outer grouping annotation kind
	ChildKind           string  `mapstructure:"child_kind"`             // batched child annotation kind
	BatchSize           int     `mapstructure:"batch_size"`             // max contexts per model invocation
	PadID               int64   `mapstructure:"pad_id"`                 // fill value for short child rows
	Workers             int     `mapstructure:"workers"`                // concurrent packs
	ModelCallsPerSecond float64 `mapstructure:"model_calls_per_second"` // 0 = unthrottled
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	JSON bool `mapstructure:"json"` // JSON output instead of console
}

// Validate checks configuration invariants that viper cannot express.
func (c *Config) Validate() error {
	if c.Predictor.BatchSize < 1 {
		return fmt.Errorf("predictor.batch_size must be positive, got %d", c.Predictor.BatchSize)
	}
	if c.Predictor.Workers < 1 {
		return fmt.Errorf("predictor.workers must be positive, got %d", c.Predictor.Workers)
	}
	if c.Predictor.ContextKind == "" || c.Predictor.ChildKind == "" {
		return fmt.Errorf("predictor.context_kind and predictor.child_kind must be set")
	}
	return nil
}
