package config

import (
	"fmt"

	"github.com/faderctl/faderctl/internal/event"
)

// Action identifies what a rule does to its audio endpoint.
type Action string

const (
	ActionVolume Action = "volume"
	ActionMute   Action = "mute"
)

// Rule is a single mapping between one control-surface address and one
// audio-endpoint selector.
//
// The control address (ControlEvent, ControlChannel, ControlNumber) does not
// have to be unique: several rules may share it, fanning one physical
// control out to several endpoints.
type Rule struct {
	Name           string
	ControlEvent   event.ControlKind
	ControlChannel uint8
	ControlNumber  uint8

	// SendFeedback echoes audio-state changes back to the control surface
	// when an output port is open and feedback is globally enabled.
	SendFeedback bool

	EndpointKind event.EndpointKind

	// MatchByName is an optional regex matched (unanchored) against the
	// endpoint name. PropertyName/PropertyValuePattern optionally match one
	// endpoint property. At least one predicate must be set; a rule with
	// neither can never resolve to a device and is inert.
	MatchByName          string
	PropertyName         string
	PropertyValuePattern string

	Action Action

	// ScaleFactor multiplies the normalized control value to produce a
	// volume, allowing settings above 100%.
	ScaleFactor float64
}

// DefaultRule returns the base rule that configuration sections and learned
// candidates are overlaid on.
func DefaultRule() Rule {
	return Rule{
		ControlEvent: event.ControlChange,
		EndpointKind: event.Sink,
		Action:       ActionVolume,
		ScaleFactor:  1.0,
	}
}

// HasAudioPredicate reports whether the rule can resolve to an endpoint at
// all.
func (r Rule) HasAudioPredicate() bool {
	return r.MatchByName != "" || (r.PropertyName != "" && r.PropertyValuePattern != "")
}

// Validate reports the first configuration defect in the rule. Invalid rules
// are kept but never matched.
func (r Rule) Validate() error {
	switch r.ControlEvent {
	case event.ControlChange, event.Note, event.ProgramChange:
	default:
		return fmt.Errorf("unknown control event kind %q", r.ControlEvent)
	}
	if !event.ValidEndpointKind(r.EndpointKind) {
		return fmt.Errorf("unknown endpoint kind %q", r.EndpointKind)
	}
	switch r.Action {
	case ActionVolume, ActionMute:
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
	if r.ScaleFactor <= 0 {
		return fmt.Errorf("scale factor must be positive, got %v", r.ScaleFactor)
	}
	if !r.HasAudioPredicate() {
		return fmt.Errorf("no audio predicate: set matchByName or propertyName+propertyValuePattern")
	}
	return nil
}

// Address returns the rule's control address string, matching
// event.ControlEvent.Address for the same triple.
func (r Rule) Address() string {
	return fmt.Sprintf("%s:%d:%d", r.ControlEvent, r.ControlChannel, r.ControlNumber)
}
