package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"mpvstatusd/internal/testutil"
)

func TestLoadWithFs_ValidConfig(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	configJSON := `{
  "socket_path": "/run/user/1000/mpv.sock",
  "client_id": 3,
  "format": "{volume}% {media-title}",
  "empty": "no player",
  "custom": {
    "volume": {
      "format": "{prop}% vol",
      "max_length": 10
    },
    "media-title": {
      "shorten_str": "…",
      "replace": {"&": "+"}
    }
  },
  "watcher": {
    "poll_interval": "250ms"
  },
  "logging": {
    "level": "debug"
  }
}`
	afero.WriteFile(fs, configPath, []byte(configJSON), 0644)

	cfg, err := LoadWithFs(configPath, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SocketPath != "/run/user/1000/mpv.sock" {
		t.Errorf("SocketPath = %q", cfg.SocketPath)
	}
	if cfg.ClientID != 3 {
		t.Errorf("ClientID = %d, want 3", cfg.ClientID)
	}
	if cfg.Format != "{volume}% {media-title}" {
		t.Errorf("Format = %q", cfg.Format)
	}
	if cfg.Empty != "no player" {
		t.Errorf("Empty = %q", cfg.Empty)
	}

	vol, ok := cfg.Custom["volume"]
	if !ok {
		t.Fatal("missing custom rule for volume")
	}
	if vol.Format != "{prop}% vol" || vol.MaxLength != 10 {
		t.Errorf("volume rule = %+v", vol)
	}
	// Omitted fields keep their defaults.
	if vol.ShortenStr != "..." {
		t.Errorf("volume ShortenStr = %q, want default %q", vol.ShortenStr, "...")
	}

	title := cfg.Custom["media-title"]
	if title.Format != "{prop}" || title.MaxLength != 50 {
		t.Errorf("media-title rule defaults not applied: %+v", title)
	}
	if title.ShortenStr != "…" {
		t.Errorf("media-title ShortenStr = %q", title.ShortenStr)
	}
	if title.Replace["&"] != "+" {
		t.Errorf("media-title Replace = %v", title.Replace)
	}

	if time.Duration(cfg.Watcher.PollInterval) != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.Watcher.PollInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithFs_DefaultValues(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(`{"format": "{media-title}"}`), 0644)

	cfg, err := LoadWithFs(configPath, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SocketPath != "/tmp/mpvsocket" {
		t.Errorf("expected default socket path, got %q", cfg.SocketPath)
	}
	if cfg.ClientID != 1 {
		t.Errorf("expected default client_id 1, got %d", cfg.ClientID)
	}
	if cfg.Empty != "" {
		t.Errorf("expected default empty string, got %q", cfg.Empty)
	}
	if time.Duration(cfg.Watcher.PollInterval) != time.Second {
		t.Errorf("expected default poll interval 1s, got %v", cfg.Watcher.PollInterval)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected default level 'warn', got %q", cfg.Logging.Level)
	}
}

func TestLoadWithFs_FileNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadWithFs(testutil.Path("/", "nonexistent.json"), fs)
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadWithFs_InvalidJSON(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(`{"format": "{volume}"`), 0644)

	_, err := LoadWithFs(configPath, fs)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadWithFs_WrongFieldType(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(`{"client_id": "one"}`), 0644)

	_, err := LoadWithFs(configPath, fs)
	if err == nil {
		t.Error("expected error for wrong field type")
	}
}

func TestLoadWithFs_InvalidClientID(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(`{"client_id": 0}`), 0644)

	_, err := LoadWithFs(configPath, fs)
	if err == nil || !strings.Contains(err.Error(), "client_id") {
		t.Errorf("expected client_id error, got %v", err)
	}
}

func TestLoadWithFs_InvalidPollInterval(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(`{"watcher": {"poll_interval": "nope"}}`), 0644)

	if _, err := LoadWithFs(configPath, fs); err == nil {
		t.Error("expected error for unparsable poll interval")
	}
}

func TestLoadWithFs_EmbeddedDefaultParses(t *testing.T) {
	configPath := testutil.Path("/", "config.json")

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, configPath, []byte(defaultConfigContent), 0644)

	cfg, err := LoadWithFs(configPath, fs)
	if err != nil {
		t.Fatalf("embedded default config does not parse: %v", err)
	}
	if cfg.Format == "" {
		t.Error("embedded default config has no format")
	}
	if _, ok := cfg.Custom["volume"]; !ok {
		t.Error("embedded default config missing volume rule")
	}
	loop, ok := cfg.Custom["loop-file"]
	if !ok {
		t.Fatal("embedded default config missing loop-file rule")
	}
	if got := loop.Replace["false"]; got != "" {
		t.Errorf("loop-file replaces false with %q, want empty string", got)
	}
	if got := loop.Replace["inf"]; got != " (r)" {
		t.Errorf("loop-file replaces inf with %q, want %q", got, " (r)")
	}
}

func TestDefaultDisplayRule(t *testing.T) {
	r := DefaultDisplayRule()
	if r.Format != "{prop}" {
		t.Errorf("Format = %q, want {prop}", r.Format)
	}
	if r.MaxLength != 50 {
		t.Errorf("MaxLength = %d, want 50", r.MaxLength)
	}
	if r.ShortenStr != "..." {
		t.Errorf("ShortenStr = %q, want ...", r.ShortenStr)
	}
}
