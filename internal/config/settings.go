// Package config loads runtime settings for the evolver from flags,
// environment variables (EVOLVER_ prefix), and an optional config file,
// in that precedence order.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultMaxIterations = 25
	DefaultSolverNodeCap = 10000
	DefaultMergePolicy   = "union"
	DefaultVerbosity     = 0
)

// Settings are the runtime knobs of the evolver.
type Settings struct {
	// MaxIterations caps a fixpoint run before it is reported as
	// non-convergent.
	MaxIterations int `mapstructure:"maxIterations"`

	// SolverNodeCap bounds the branch-and-bound node count per MILP; an
	// exhausted cap is reported as a solver timeout.
	SolverNodeCap int `mapstructure:"solverNodeCap"`

	// MergePolicy is "union" or "intersect".
	MergePolicy string `mapstructure:"mergePolicy"`

	// Verbosity is the log level: 0 info, 1 debug, 2 trace.
	Verbosity int `mapstructure:"verbosity"`
}

// Validate checks for invalid setting values.
func (s *Settings) Validate() error {
	if s.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations must be > 0, got %d", s.MaxIterations)
	}
	if s.SolverNodeCap <= 0 {
		return fmt.Errorf("solverNodeCap must be > 0, got %d", s.SolverNodeCap)
	}
	switch s.MergePolicy {
	case "union", "intersect":
	default:
		return fmt.Errorf("mergePolicy must be \"union\" or \"intersect\", got %q", s.MergePolicy)
	}
	if s.Verbosity < 0 {
		return fmt.Errorf("verbosity must be >= 0, got %d", s.Verbosity)
	}
	return nil
}

// NewViper returns a viper instance with the evolver's defaults and
// environment binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("maxIterations", DefaultMaxIterations)
	v.SetDefault("solverNodeCap", DefaultSolverNodeCap)
	v.SetDefault("mergePolicy", DefaultMergePolicy)
	v.SetDefault("verbosity", DefaultVerbosity)
	v.SetEnvPrefix("EVOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves settings from the given viper instance, reading the
// optional config file first when one is set.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
