// Package config maps loxgo's build-time flags (spec §6) onto
// environment variables, using caarlos0/env's struct-tag convention
// rather than hand-rolled os.Getenv calls.
package config

import "github.com/caarlos0/env/v6"

// Config holds every build-time flag spec §6 names. They're runtime
// environment variables here rather than C preprocessor defines, but
// the effect on behavior is the same: each gates a distinct piece of
// the interpreter's diagnostic or numeric-formatting behavior.
type Config struct {
	// IntegerOnly switches printed number formatting to integral
	// style; loxgo's one numeric type stays float64 either way (see
	// DESIGN.md's Open Question note).
	IntegerOnly bool `env:"LOXGO_INTEGER_ONLY" envDefault:"false"`

	// DebugTraceExecution prints each dispatched instruction and the
	// stack before it executes.
	DebugTraceExecution bool `env:"LOXGO_DEBUG_TRACE_EXECUTION" envDefault:"false"`

	// DebugPrintCode disassembles every function's chunk right after
	// it finishes compiling, before any of it runs.
	DebugPrintCode bool `env:"LOXGO_DEBUG_PRINT_CODE" envDefault:"false"`

	// DebugStressGC forces a collection before every single
	// allocation, to shake out GC root-marking bugs.
	DebugStressGC bool `env:"LOXGO_DEBUG_STRESS_GC" envDefault:"false"`

	// DebugLogGC prints each collection's before/after byte counts.
	DebugLogGC bool `env:"LOXGO_DEBUG_LOG_GC" envDefault:"false"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
