package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/midi"
	"github.com/faderctl/faderctl/internal/pulse"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI ports and audio endpoints",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	if _, _, err := loadConfig(); err != nil {
		return err
	}

	midiDrv, err := midi.New()
	if err != nil {
		return err
	}
	defer midiDrv.Close()

	inputs, err := midiDrv.ListInputs()
	if err != nil {
		return err
	}
	fmt.Println("MIDI inputs:")
	if len(inputs) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range inputs {
		fmt.Printf("  %d: %s\n", i+1, name)
	}

	outputs, err := midiDrv.ListOutputs()
	if err != nil {
		return err
	}
	fmt.Println("MIDI outputs:")
	if len(outputs) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range outputs {
		fmt.Printf("  %d: %s\n", i+1, name)
	}

	audio, err := pulse.Connect("")
	if err != nil {
		return err
	}
	defer audio.Close()

	for _, kind := range event.EndpointKinds {
		endpoints, err := audio.ListEndpoints(kind)
		if err != nil {
			fmt.Printf("%ss: error: %v\n", kind, err)
			continue
		}
		fmt.Printf("%ss:\n", kind)
		if len(endpoints) == 0 {
			fmt.Println("  (none)")
		}
		for _, ep := range endpoints {
			state := ""
			if ep.Muted {
				state = " [muted]"
			}
			fmt.Printf("  #%d %s (%.0f%%)%s\n", ep.Index, ep.Name, ep.Volume*100, state)
		}
	}

	return nil
}
