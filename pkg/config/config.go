// Package config loads the hourglass CLI configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default settings.
const (
	// DefaultTickInterval is the engine tick polling interval.
	DefaultTickInterval = Duration(100 * time.Millisecond)

	// DefaultLogLevel is the slog level name used when unset.
	DefaultLogLevel = "info"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "250ms" or "1m30s" as well as from plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("duration: expected string or integer, got %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the CLI configuration.
type Config struct {
	// StateDir is the directory holding one snapshot file per timer.
	StateDir string `yaml:"state_dir"`

	// JournalPath is the CBOR event journal file. Empty disables the
	// journal.
	JournalPath string `yaml:"journal,omitempty"`

	// TickInterval is the engine tick polling interval.
	TickInterval Duration `yaml:"tick_interval,omitempty"`

	// NotifyCommand is an external command run when a timer expires,
	// with the timer's name appended as the final argument. Empty means
	// notifications go to the log only.
	NotifyCommand string `yaml:"notify_command,omitempty"`

	// NotifyArgs are extra arguments passed before the timer name.
	NotifyArgs []string `yaml:"notify_args,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists. State lives
// under the user config directory, falling back to the working directory
// when it cannot be resolved.
func Default() Config {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return Config{
		StateDir:     filepath.Join(base, "hourglass", "timers"),
		TickInterval: DefaultTickInterval,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; fields left unset in the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick_interval must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: must be debug, info, warn, or error", c.LogLevel)
	}
	return nil
}
