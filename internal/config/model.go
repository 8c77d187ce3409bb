package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Log Log
	// Output is the default output format: text, json or yaml.
	Output string
	// Configuration is the build configuration used when a command does not
	// name one. Empty selects each configuration list's default.
	Configuration string
	// Roots maps source tree folders (SOURCE_ROOT, SDKROOT, ...) to
	// directories on disk.
	Roots map[pbx.SourceTreeFolder]string
	// Env supplies values for build setting references no configuration
	// defines.
	Env       map[string]string
	CacheSize int
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
	outputFormats = []string{"text", "json", "yaml"}
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file sets a value.
func Default() *Model {
	return &Model{
		Log:       Log{Level: "info", Format: "text"},
		Output:    "text",
		Roots:     map[pbx.SourceTreeFolder]string{},
		Env:       map[string]string{},
		CacheSize: 8,
	}
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	c := *m
	c.Roots = maps.Clone(m.Roots)
	c.Env = maps.Clone(m.Env)
	return &c
}

// Validate checks enumerated values and numeric ranges.
func (m *Model) Validate() error {
	var errs []error
	if !slices.Contains(logLevels, m.Log.Level) {
		errs = append(errs, fmt.Errorf("%w: log level %q, want one of %v", ErrInvalid, m.Log.Level, logLevels))
	}
	if !slices.Contains(logFormats, m.Log.Format) {
		errs = append(errs, fmt.Errorf("%w: log format %q, want one of %v", ErrInvalid, m.Log.Format, logFormats))
	}
	if !slices.Contains(outputFormats, m.Output) {
		errs = append(errs, fmt.Errorf("%w: output %q, want one of %v", ErrInvalid, m.Output, outputFormats))
	}
	if m.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("%w: cache size %d must be positive", ErrInvalid, m.CacheSize))
	}
	return errors.Join(errs...)
}
