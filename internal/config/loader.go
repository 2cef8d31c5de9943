package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDir      = ".faderctl"
	configFileName = "config.yaml"
	rulesFileName  = "rules.conf"
)

// Loader handles loading the settings file and resolving default paths
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader rooted in the user's home
// directory.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return &Loader{
		configPath: filepath.Join(homeDir, configDir, configFileName),
	}, nil
}

// Load loads the settings file on top of the defaults. A missing file is
// not an error; the defaults apply.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, err := l.loadFile(l.configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if fileCfg != nil {
		cfg = mergeConfigs(cfg, fileCfg)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file, still merged over
// the defaults.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	fileCfg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}
	return mergeConfigs(DefaultConfig(), fileCfg), nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// mergeConfigs merges two configurations, with override taking precedence
func mergeConfigs(base, override *Config) *Config {
	result := &Config{
		Version: coalesce(override.Version, base.Version),
		Settings: Settings{
			LogLevel:        coalesce(override.Settings.LogLevel, base.Settings.LogLevel),
			LogFile:         coalesce(override.Settings.LogFile, base.Settings.LogFile),
			DevicePattern:   coalesce(override.Settings.DevicePattern, base.Settings.DevicePattern),
			FeedbackEnabled: base.Settings.FeedbackEnabled,
			DefaultScale:    base.Settings.DefaultScale,
			PollIntervalMS:  base.Settings.PollIntervalMS,
			RulesPath:       coalesce(override.Settings.RulesPath, base.Settings.RulesPath),
			Trace:           mergeTraceSettings(base.Settings.Trace, override.Settings.Trace),
		},
	}

	if override.Settings.FeedbackEnabled != nil {
		result.Settings.FeedbackEnabled = override.Settings.FeedbackEnabled
	}
	if override.Settings.DefaultScale > 0 {
		result.Settings.DefaultScale = override.Settings.DefaultScale
	}
	if override.Settings.PollIntervalMS > 0 {
		result.Settings.PollIntervalMS = override.Settings.PollIntervalMS
	}

	return result
}

// mergeTraceSettings merges trace settings, with override taking precedence
// for set values
func mergeTraceSettings(base, override TraceSettings) TraceSettings {
	result := base
	if override.Enabled || override.StoragePath != "" {
		result.Enabled = override.Enabled
	}
	if override.StoragePath != "" {
		result.StoragePath = override.StoragePath
	}
	return result
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ConfigPath returns the path to the settings file
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// RulesPath returns the configured rules file path, or the default next to
// the settings file.
func (l *Loader) RulesPath(cfg *Config) string {
	if cfg.Settings.RulesPath != "" {
		return cfg.Settings.RulesPath
	}
	return filepath.Join(filepath.Dir(l.configPath), rulesFileName)
}

// Exists checks if a config file exists at the given path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
