package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/engine"
	"github.com/faderctl/faderctl/internal/logger"
	"github.com/faderctl/faderctl/internal/midi"
	"github.com/faderctl/faderctl/internal/pulse"
	"github.com/faderctl/faderctl/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bridge with the configured rules",
	Long: `Run the bridge: listen to the MIDI control surface and the PulseAudio
event stream, and apply every configured rule until interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	b, cleanup, err := buildBridge(nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info().Msg("Bridge running, press Ctrl+C to stop")
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildBridge wires config, rule set, MIDI and PulseAudio into a bridge.
// Failing to open either transport is the only fatal condition; everything
// past this point degrades gracefully. onReady, when set, receives the live
// rule set before producers start (learn mode hooks its session in there).
func buildBridge(onReady func(*config.Config, *engine.RuleSet, *engine.Bridge)) (*engine.Bridge, func(), error) {
	cfg, loader, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	rulesPath := resolveRulesPath(cfg, loader)
	rules, err := loadRules(cfg, rulesPath)
	if err != nil {
		return nil, nil, err
	}
	ruleSet := engine.NewRuleSet(rules)

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*engine.Bridge, func(), error) {
		cleanup()
		return nil, nil, err
	}

	midiDrv, err := midi.New()
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, midiDrv.Close)

	inputs, err := midiDrv.ListInputs()
	if err != nil {
		return fail(err)
	}
	inName, ok := midi.PickPreferred(inputs, cfg.Settings.DevicePattern)
	if !ok {
		if len(inputs) == 0 {
			return fail(fmt.Errorf("no MIDI input devices found"))
		}
		inName = inputs[0]
		logger.Info().Str("device", inName).Msg("No device matched the configured pattern, using the first input")
	}

	audio, err := pulse.Connect("")
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() { _ = audio.Close() })

	var feedback engine.FeedbackPort
	if cfg.Settings.FeedbackOn() {
		outputs, err := midiDrv.ListOutputs()
		if err != nil {
			return fail(err)
		}
		if outName, ok := midi.PickPreferred(outputs, cfg.Settings.DevicePattern); ok {
			out, err := midiDrv.OpenOutput(outName)
			if err != nil {
				logger.Warn().Err(err).Str("device", outName).Msg("Feedback output unavailable")
			} else {
				cleanups = append(cleanups, func() { _ = out.Close() })
				feedback = out
			}
		} else {
			logger.Info().Msg("No matching MIDI output, feedback disabled")
		}
	}

	var journal engine.Journal
	if cfg.Settings.Trace.Enabled {
		store, err := trace.NewStore(cfg.Settings.Trace.StoragePath)
		if err != nil {
			logger.Warn().Err(err).Msg("Trace journal unavailable")
		} else {
			cleanups = append(cleanups, func() { _ = store.Close() })
			journal = store
		}
	}

	translator := engine.NewTranslator(audio, feedback, journal)
	interval := time.Duration(cfg.Settings.PollIntervalMS) * time.Millisecond
	b := engine.NewBridge(ruleSet, translator, audio, interval)

	if onReady != nil {
		onReady(cfg, ruleSet, b)
	}

	stopInput, err := midiDrv.OpenInput(inName, b.EnqueueControl)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, stopInput)

	if err := audio.Subscribe(b.EnqueueAudio); err != nil {
		return fail(err)
	}

	return b, cleanup, nil
}
