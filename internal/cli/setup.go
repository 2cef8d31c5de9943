package cli

import (
	"fmt"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/logger"
)

// loadConfig loads the settings file (honoring --config) and initializes
// logging from it.
func loadConfig() (*config.Config, *config.Loader, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	var cfg *config.Config
	if configFile != "" {
		cfg, err = loader.LoadFromFile(configFile)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		_ = logger.Init("debug", cfg.Settings.LogFile)
	} else {
		_ = logger.Init(cfg.Settings.LogLevel, cfg.Settings.LogFile)
	}

	return cfg, loader, nil
}

// resolveRulesPath returns the effective rules file path, honoring --rules.
func resolveRulesPath(cfg *config.Config, loader *config.Loader) string {
	if rulesFile != "" {
		return rulesFile
	}
	return loader.RulesPath(cfg)
}

// loadRules reads the rule set if the file exists. A missing rules file is
// fine: the bridge runs with an empty set (learn mode populates it).
func loadRules(cfg *config.Config, path string) ([]config.Rule, error) {
	if !config.Exists(path) {
		logger.Warn().Str("path", path).Msg("No rules file, starting with an empty rule set")
		return nil, nil
	}
	rules, err := config.LoadRules(path, cfg.Settings.DefaultScale)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("rules", len(rules)).Str("path", path).Msg("Loaded rule set")
	return rules, nil
}
