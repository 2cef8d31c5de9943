package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/engine"
	"github.com/faderctl/faderctl/internal/logger"
)

var learnOutput string

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Build rules interactively from live hardware and mixer activity",
	Long: `Learn new mappings interactively.

Touch a control on the surface, confirm the prompts, then change the target
device or stream in your mixer. The candidate rule goes live for a 30 second
test window; afterwards you decide whether to keep it. On completion the
complete rule set is written back out.`,
	RunE: runLearn,
}

func init() {
	learnCmd.Flags().StringVarP(&learnOutput, "output", "o", "", "Rules file to write (defaults to the active rules file)")
	rootCmd.AddCommand(learnCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	var (
		session *engine.Session
		loaded  []config.Rule
		outPath string
	)

	b, cleanup, err := buildBridge(func(cfg *config.Config, rules *engine.RuleSet, b *engine.Bridge) {
		// Snapshot the configured rules before the session appends
		// candidates; only these plus explicitly saved rules persist.
		loaded = append(loaded, rules.Rules()...)
		session = engine.NewSession(rules, NewStdinPrompter(), cfg.Settings.DefaultScale)
		b.SetSession(session)

		outPath = learnOutput
		if outPath == "" {
			loader, lerr := config.NewLoader()
			if lerr == nil {
				outPath = resolveRulesPath(cfg, loader)
			}
		}
	})
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("Learn mode: touch the control you want to map.")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := b.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted mid-session: nothing is flushed, unsaved
			// candidates are lost.
			logger.Info().Msg("Learn session interrupted, nothing written")
			return nil
		}
		return err
	}

	saved := session.SavedRules()
	if len(saved) == 0 {
		fmt.Println("No rules saved.")
		return nil
	}
	if outPath == "" {
		return fmt.Errorf("no output path for the learned rules")
	}

	all := append(loaded, saved...)
	if err := config.SaveRules(outPath, all); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rule(s) to %s\n", len(all), outPath)
	return nil
}
