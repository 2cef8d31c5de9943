package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/faderctl/faderctl/internal/trace"
)

var traceLimit int

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show recent journaled translations",
	Long: `Show the most recent entries from the translation journal.

The journal is off by default; enable it in the settings file:

  settings:
    trace:
      enabled: true`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVarP(&traceLimit, "limit", "n", 50, "Number of entries to show")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := trace.NewStore(cfg.Settings.Trace.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(traceLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No journaled translations.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-14s %-18s %-16s %-24s %.3f\n",
			humanize.Time(e.At), e.RuleName, e.Direction, e.Endpoint, e.Value)
	}
	return nil
}
