package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information set via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	verbose    bool
	configFile string
	rulesFile  string
)

var rootCmd = &cobra.Command{
	Use:   "faderctl",
	Short: "Bridge a MIDI control surface to the PulseAudio mixer",
	Long: `Faderctl maps the knobs, sliders and buttons of a MIDI control surface
onto PulseAudio volume and mute controls, and can light buttons or move
motorized faders to reflect the current audio state.

Mappings live in a rules file with one section per rule:

  [music]
  controlEvent   = control-change
  controlChannel = 0
  controlNumber  = 7
  endpointKind   = sink-input
  matchByName    = spotify
  action         = volume
  scaleFactor    = 1.0

Use "faderctl learn" to build rules interactively from live hardware and
mixer interaction.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("faderctl %s\n", Version)
		fmt.Printf("  commit: %s\n", Commit)
		fmt.Printf("  built:  %s\n", Date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Override config file path")
	rootCmd.PersistentFlags().StringVarP(&rulesFile, "rules", "r", "", "Override rules file path")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
