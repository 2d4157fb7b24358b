package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"mpvstatusd/internal/pathutil"
)

// Config represents the top-level configuration. It is immutable for the
// daemon's lifetime.
type Config struct {
	// SocketPath is the player's IPC socket (mpv --input-ipc-server=...).
	SocketPath string `json:"socket_path"`
	// ClientID tags observe requests so property-change events can be
	// correlated back to this daemon.
	ClientID int `json:"client_id"`
	// Format is the output template; {name} placeholders are replaced
	// with property values.
	Format string `json:"format"`
	// Empty is printed while no player is connected.
	Empty string `json:"empty"`
	// Custom maps a property name to its display rule.
	Custom map[string]DisplayRule `json:"custom"`

	Watcher WatcherConfig `json:"watcher"`
	Logging LoggingConfig `json:"logging"`
}

// DisplayRule is the per-property formatting configuration.
type DisplayRule struct {
	// Format is the inner template; {prop} is replaced with the
	// processed property value.
	Format string `json:"format"`
	// MaxLength caps the processed value's length in runes, including
	// the shorten suffix.
	MaxLength int `json:"max_length"`
	// ShortenStr is appended when the value is truncated.
	ShortenStr string `json:"shorten_str"`
	// Replace maps literal substrings to replacements, applied before
	// truncation in lexicographic key order.
	Replace map[string]string `json:"replace"`
}

// WatcherConfig represents socket-watcher configuration.
type WatcherConfig struct {
	// PollInterval is the existence-check cadence used when filesystem
	// notification is unavailable.
	PollInterval Duration `json:"poll_interval"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `json:"level"`
}

// Duration parses JSON strings like "500ms" or "1s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DefaultDisplayRule returns the rule applied when a custom entry omits
// fields: pass the value through unchanged, capped at 50 runes.
func DefaultDisplayRule() DisplayRule {
	return DisplayRule{
		Format:     "{prop}",
		MaxLength:  50,
		ShortenStr: "...",
	}
}

// UnmarshalJSON fills omitted display-rule fields with their defaults,
// while letting an explicit empty string override them.
func (r *DisplayRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Format     *string           `json:"format"`
		MaxLength  *int              `json:"max_length"`
		ShortenStr *string           `json:"shorten_str"`
		Replace    map[string]string `json:"replace"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = DefaultDisplayRule()
	if raw.Format != nil {
		r.Format = *raw.Format
	}
	if raw.MaxLength != nil {
		r.MaxLength = *raw.MaxLength
	}
	if raw.ShortenStr != nil {
		r.ShortenStr = *raw.ShortenStr
	}
	r.Replace = raw.Replace
	return nil
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval: Duration(time.Second),
	}
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: "warn",
	}
}

// LoadWithFs reads and parses a configuration file using the provided
// filesystem. Malformed JSON or wrong types for known fields are fatal:
// the daemon must not start rendering from a partially-parsed config.
func LoadWithFs(path string, afs afero.Fs) (*Config, error) {
	expanded := pathutil.ExpandTilde(path)

	data, err := afero.ReadFile(afs, expanded)
	if err != nil {
		return nil, err
	}

	// Start with defaults
	config := &Config{
		SocketPath: "/tmp/mpvsocket",
		ClientID:   1,
		Watcher:    DefaultWatcherConfig(),
		Logging:    DefaultLoggingConfig(),
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SocketPath = pathutil.ExpandTilde(config.SocketPath)

	if config.ClientID < 1 {
		return nil, fmt.Errorf("invalid config: client_id must be >= 1, got %d", config.ClientID)
	}
	if time.Duration(config.Watcher.PollInterval) <= 0 {
		return nil, fmt.Errorf("invalid config: watcher.poll_interval must be positive")
	}

	return config, nil
}
