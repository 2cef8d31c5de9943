package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faderctl/faderctl/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the configured rule set",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, loader, err := loadConfig()
	if err != nil {
		return err
	}

	path := resolveRulesPath(cfg, loader)
	if !config.Exists(path) {
		fmt.Printf("No rules file at %s\n", path)
		return nil
	}

	rules, err := config.LoadRules(path, cfg.Settings.DefaultScale)
	if err != nil {
		return err
	}

	fmt.Printf("%d rule(s) in %s\n\n", len(rules), path)
	for _, rule := range rules {
		fmt.Printf("[%s]\n", rule.Name)
		fmt.Printf("  control:  %s\n", rule.Address())
		fmt.Printf("  action:   %s on %s (scale %g)\n", rule.Action, rule.EndpointKind, rule.ScaleFactor)
		if rule.MatchByName != "" {
			fmt.Printf("  match:    name ~ %s\n", rule.MatchByName)
		}
		if rule.PropertyName != "" {
			fmt.Printf("  match:    %s ~ %s\n", rule.PropertyName, rule.PropertyValuePattern)
		}
		if rule.SendFeedback {
			fmt.Printf("  feedback: on\n")
		}
		if err := rule.Validate(); err != nil {
			fmt.Printf("  WARNING:  %v\n", err)
		}
		fmt.Println()
	}

	return nil
}
