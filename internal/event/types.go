// Package event holds the domain types shared between the MIDI transport,
// the audio subsystem, and the translation engine.
package event

import "fmt"

// ControlKind identifies the kind of MIDI message a control emits.
type ControlKind string

const (
	ControlChange ControlKind = "control-change"
	Note          ControlKind = "note"
	ProgramChange ControlKind = "program-change"
)

// MaxControlValue is the largest raw value a 7-bit MIDI control reports.
const MaxControlValue = 127

// ControlEvent is an immutable record of one control-surface event.
type ControlEvent struct {
	Kind    ControlKind
	Channel uint8
	Control uint8
	Value   uint8
}

// Address returns the control address string "{kind}:{channel}:{control}".
// Multiple rules may share one address.
func (e ControlEvent) Address() string {
	return fmt.Sprintf("%s:%d:%d", e.Kind, e.Channel, e.Control)
}

// EndpointKind identifies the class of a PulseAudio object.
type EndpointKind string

const (
	Sink         EndpointKind = "sink"
	SinkInput    EndpointKind = "sink-input"
	Source       EndpointKind = "source"
	SourceOutput EndpointKind = "source-output"
)

// EndpointKinds lists all supported kinds in a stable order.
var EndpointKinds = []EndpointKind{Sink, SinkInput, Source, SourceOutput}

// ValidEndpointKind reports whether k names a supported endpoint class.
func ValidEndpointKind(k EndpointKind) bool {
	switch k {
	case Sink, SinkInput, Source, SourceOutput:
		return true
	}
	return false
}

// Endpoint is an immutable snapshot of one audio object at the moment its
// change event fired. The (Kind, Index) handle may already be stale by the
// time it is processed; resolution misses are recoverable.
type Endpoint struct {
	Kind       EndpointKind
	Index      uint32
	Name       string
	Properties map[string]string
	Volume     float64
	Muted      bool

	// Channels is the endpoint's channel count, carried so volume writes
	// can cover all channels uniformly.
	Channels int
}

// AudioEvent is a change notification for one endpoint, looked up by
// (Kind, Index) at drain time.
type AudioEvent struct {
	Kind  EndpointKind
	Index uint32
}

// Address returns the dedup key "audio:{kind}:{name}" for an endpoint.
func (e Endpoint) Address() string {
	return fmt.Sprintf("audio:%s:%s", e.Kind, e.Name)
}
