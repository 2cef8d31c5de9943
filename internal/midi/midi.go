// Package midi wraps the rtmidi-backed gomidi driver behind the small
// transport surface the bridge needs: list ports, open an input with an
// event callback, open an output for feedback.
package midi

import (
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// Driver owns the underlying rtmidi driver. Call Close when done.
type Driver struct {
	drv *rtmididrv.Driver
}

// New initializes the rtmidi driver.
func New() (*Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &Driver{drv: drv}, nil
}

// Close shuts down the rtmidi driver and every port opened through it.
func (d *Driver) Close() {
	_ = d.drv.Close()
}

// ListInputs returns the names of the available MIDI input ports, in driver
// order.
func (d *Driver) ListInputs() ([]string, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

// ListOutputs returns the names of the available MIDI output ports.
func (d *Driver) ListOutputs() ([]string, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

// PickPreferred returns the first name containing pattern
// (case-insensitive). With an empty pattern a single available port wins.
func PickPreferred(names []string, pattern string) (string, bool) {
	if pattern != "" {
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), strings.ToLower(pattern)) {
				return name, true
			}
		}
		return "", false
	}
	if len(names) == 1 {
		return names[0], true
	}
	return "", false
}

// OpenInput opens the named input port and delivers decoded control events
// to onEvent, in hardware order, from the driver's listener goroutine. The
// returned stop function closes the listener and the port.
func (d *Driver) OpenInput(name string, onEvent func(event.ControlEvent)) (func(), error) {
	in, err := d.findIn(name)
	if err != nil {
		return nil, err
	}
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open midi input %q: %w", name, err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		ev, ok := decode(msg)
		if !ok {
			logger.Debug().Str("msg", msg.String()).Msg("Unhandled MIDI message, dropping")
			return
		}
		onEvent(ev)
	}, gomidi.HandleError(func(listenErr error) {
		logger.Warn().Err(listenErr).Str("device", name).Msg("MIDI listener error")
	}))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("listen on %q: %w", name, err)
	}

	logger.Info().Str("device", name).Msg("MIDI input connected")
	return func() {
		stop()
		_ = in.Close()
	}, nil
}

// Output is an open MIDI output port used for control-surface feedback.
type Output struct {
	name string
	port drivers.Out
	send func(gomidi.Message) error
}

// OpenOutput opens the named output port.
func (d *Driver) OpenOutput(name string) (*Output, error) {
	out, err := d.findOut(name)
	if err != nil {
		return nil, err
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("open midi output %q: %w", name, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("sender for %q: %w", name, err)
	}
	logger.Info().Str("device", name).Msg("MIDI output connected")
	return &Output{name: name, port: out, send: send}, nil
}

// Send encodes and transmits one control event.
func (o *Output) Send(ev event.ControlEvent) error {
	var msg gomidi.Message
	switch ev.Kind {
	case event.ControlChange:
		msg = gomidi.ControlChange(ev.Channel, ev.Control, ev.Value)
	case event.Note:
		if ev.Value > 0 {
			msg = gomidi.NoteOn(ev.Channel, ev.Control, ev.Value)
		} else {
			msg = gomidi.NoteOff(ev.Channel, ev.Control)
		}
	case event.ProgramChange:
		msg = gomidi.ProgramChange(ev.Channel, ev.Control)
	default:
		return fmt.Errorf("cannot encode control kind %q", ev.Kind)
	}
	if err := o.send(msg); err != nil {
		return fmt.Errorf("send to %q: %w", o.name, err)
	}
	return nil
}

// Close closes the output port.
func (o *Output) Close() error {
	return o.port.Close()
}

// decode maps the MIDI messages the bridge understands onto control events.
// Note-offs surface as the note with value 0 so momentary button releases
// are visible to mute rules (which ignore them) without a separate kind.
func decode(msg gomidi.Message) (event.ControlEvent, bool) {
	var ch, key, vel, cc, val, prog uint8

	switch {
	case msg.GetControlChange(&ch, &cc, &val):
		return event.ControlEvent{Kind: event.ControlChange, Channel: ch, Control: cc, Value: val}, true
	case msg.GetNoteStart(&ch, &key, &vel):
		return event.ControlEvent{Kind: event.Note, Channel: ch, Control: key, Value: vel}, true
	case msg.GetNoteEnd(&ch, &key):
		return event.ControlEvent{Kind: event.Note, Channel: ch, Control: key, Value: 0}, true
	case msg.GetProgramChange(&ch, &prog):
		// Program selectors act like momentary presses.
		return event.ControlEvent{Kind: event.ProgramChange, Channel: ch, Control: prog, Value: event.MaxControlValue}, true
	}
	return event.ControlEvent{}, false
}

func (d *Driver) findIn(name string) (drivers.In, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}
	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("midi input %q not found", name)
}

func (d *Driver) findOut(name string) (drivers.Out, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	for _, out := range outs {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("midi output %q not found", name)
}
