// Package config defines core configuration types for gdasset.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import "time"

// OutputFormat specifies how results are rendered.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON:
		return true
	default:
		return false
	}
}

// DefaultExtensions are the asset document extensions scanned by default.
func DefaultExtensions() []string {
	return []string{".tscn", ".tres", ".godot", ".import", ".cfg"}
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// Debounce is how long to wait for a burst of edits to settle.
	Debounce time.Duration `yaml:"debounce"`
}

// Config is the root configuration structure.
type Config struct {
	// LogLevel is the logger level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`

	// Jobs is the number of parallel parse workers; 0 means runtime.NumCPU().
	Jobs int `yaml:"jobs"`

	// Extensions lists file extensions (with leading dot) treated as asset documents.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for paths to skip.
	Ignore []string `yaml:"ignore"`

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// Watch configures the watch command.
	Watch WatchConfig `yaml:"watch"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Details includes property symbols in text output.
	Details bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Jobs:       0,
		Extensions: DefaultExtensions(),
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Format: FormatText,
	}
}
