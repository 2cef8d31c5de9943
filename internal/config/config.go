package config

// Config represents the complete faderctl configuration
type Config struct {
	Version  string   `yaml:"version"`
	Settings Settings `yaml:"settings"`
}

// Settings contains global configuration settings
type Settings struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`

	// DevicePattern selects the preferred MIDI device when several ports
	// are available. Matched case-insensitively as a substring.
	DevicePattern string `yaml:"device_pattern,omitempty"`

	// FeedbackEnabled globally gates outbound messages to the control
	// surface. Individual rules still opt in via sendFeedback. A pointer
	// distinguishes "not set" (defaults to on) from an explicit false.
	FeedbackEnabled *bool `yaml:"feedback_enabled,omitempty"`

	// DefaultScale is the scale factor applied to rules that do not set
	// their own. Must be positive.
	DefaultScale float64 `yaml:"default_scale,omitempty"`

	// PollIntervalMS bounds the audio event wait that drives the main
	// loop tick. It is also the resolution of the learn-mode test window.
	PollIntervalMS int `yaml:"poll_interval_ms,omitempty"`

	RulesPath string `yaml:"rules_path,omitempty"`

	Trace TraceSettings `yaml:"trace,omitempty"`
}

// TraceSettings controls the optional translation journal
type TraceSettings struct {
	Enabled     bool   `yaml:"enabled"`
	StoragePath string `yaml:"storage_path,omitempty"`
}

// FeedbackOn reports whether outbound control-surface feedback is enabled.
func (s Settings) FeedbackOn() bool {
	return s.FeedbackEnabled == nil || *s.FeedbackEnabled
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Settings: Settings{
			LogLevel:       "info",
			DefaultScale:   1.0,
			PollIntervalMS: 250,
		},
	}
}
