package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
settings:
  log_level: debug
  device_pattern: nanokontrol
  default_scale: 1.5
`)

	l := &Loader{configPath: path}
	cfg, err := l.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Settings.LogLevel != "debug" {
		t.Errorf("got log level %q, want debug", cfg.Settings.LogLevel)
	}
	if cfg.Settings.DevicePattern != "nanokontrol" {
		t.Errorf("got device pattern %q", cfg.Settings.DevicePattern)
	}
	if cfg.Settings.DefaultScale != 1.5 {
		t.Errorf("got scale %g, want 1.5", cfg.Settings.DefaultScale)
	}

	// Untouched settings keep their defaults.
	if cfg.Settings.PollIntervalMS != 250 {
		t.Errorf("got poll interval %d, want the default 250", cfg.Settings.PollIntervalMS)
	}
	if cfg.Version != "1" {
		t.Errorf("got version %q, want the default", cfg.Version)
	}
	if !cfg.Settings.FeedbackOn() {
		t.Error("feedback defaults to on when unset")
	}
}

func TestLoadFromFileFeedbackFalse(t *testing.T) {
	path := writeConfig(t, `
settings:
  feedback_enabled: false
`)

	l := &Loader{configPath: path}
	cfg, err := l.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings.FeedbackOn() {
		t.Error("explicit feedback_enabled: false must survive the merge")
	}
}

func TestLoadFromFileTraceSettings(t *testing.T) {
	path := writeConfig(t, `
settings:
  trace:
    enabled: true
    storage_path: /tmp/journal.db
`)

	l := &Loader{configPath: path}
	cfg, err := l.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Settings.Trace.Enabled {
		t.Error("trace should be enabled")
	}
	if cfg.Settings.Trace.StoragePath != "/tmp/journal.db" {
		t.Errorf("got storage path %q", cfg.Settings.Trace.StoragePath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	l := &Loader{configPath: filepath.Join(t.TempDir(), "config.yaml")}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("missing settings file must not be an error: %v", err)
	}
	want := DefaultConfig()
	if cfg.Settings.LogLevel != want.Settings.LogLevel ||
		cfg.Settings.DefaultScale != want.Settings.DefaultScale ||
		cfg.Settings.PollIntervalMS != want.Settings.PollIntervalMS {
		t.Errorf("got %+v, want the defaults", cfg.Settings)
	}
}

func TestLoadFromFileRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "settings: [not a mapping")
	l := &Loader{configPath: path}
	if _, err := l.LoadFromFile(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestRulesPath(t *testing.T) {
	l := &Loader{configPath: "/home/u/.faderctl/config.yaml"}

	cfg := DefaultConfig()
	if got := l.RulesPath(cfg); got != "/home/u/.faderctl/rules.conf" {
		t.Errorf("got %q, want the default next to the settings file", got)
	}

	cfg.Settings.RulesPath = "/etc/faderctl/rules.conf"
	if got := l.RulesPath(cfg); got != "/etc/faderctl/rules.conf" {
		t.Errorf("got %q, want the configured path", got)
	}
}
