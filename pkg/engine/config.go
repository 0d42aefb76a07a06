// Package engine wires pkg/simple, pkg/pql, pkg/pkb, pkg/cfg, and
// pkg/query together behind the driver contract of §6: Parse retains a
// PKB/CFG for one source file, Evaluate runs one PQL query against it.
package engine

import (
	"github.com/hashicorp/go-hclog"
)

// Version is the driver contract's stable entry-point version, bumped
// whenever Parse/Evaluate's observable behaviour changes.
const Version = "1.0.0"

// Config holds engine-wide tuning knobs. Following DefaultSolverConfig's
// factory-plus-struct idiom, NewConfig returns sane defaults that
// ConfigOption funcs then override.
type Config struct {
	// MaxAffectsMemo is stored but not read by the engine: memoised
	// Affects/AffectsStar result sets are never capped or evicted.
	MaxAffectsMemo int

	// StrictNextStarReflexivity names the stricter of the two Next*
	// semantics discussed for loop headers (see DESIGN.md), which the
	// pkg/cfg build always uses. The engine does not read this field;
	// setting it changes no result and logs nothing.
	StrictNextStarReflexivity bool

	// Logger receives structured log output. Defaults to a discard
	// logger if unset.
	Logger hclog.Logger
}

// ConfigOption mutates a Config during construction.
type ConfigOption func(*Config)

// NewConfig builds a Config with defaults, applying opts in order.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		MaxAffectsMemo:            0,
		StrictNextStarReflexivity: true,
		Logger:                    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the engine's hclog.Logger.
func WithLogger(l hclog.Logger) ConfigOption {
	return func(c *Config) { c.Logger = l }
}

// WithMaxAffectsMemo sets Config.MaxAffectsMemo (not read by the engine).
func WithMaxAffectsMemo(n int) ConfigOption {
	return func(c *Config) { c.MaxAffectsMemo = n }
}

// WithStrictNextStarReflexivity sets Config.StrictNextStarReflexivity (not
// read by the engine).
func WithStrictNextStarReflexivity(strict bool) ConfigOption {
	return func(c *Config) { c.StrictNextStarReflexivity = strict }
}
