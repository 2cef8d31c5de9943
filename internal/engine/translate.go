package engine

import (
	"math"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// MaxVolumeCeiling caps the volume any rule can set, regardless of its
// scale factor.
const MaxVolumeCeiling = 1.5

// AudioController is the mutation surface of the audio subsystem the
// translator needs.
type AudioController interface {
	SetVolume(ep event.Endpoint, volume float64) error
	SetMute(ep event.Endpoint, muted bool) error
}

// FeedbackPort sends events back to the control surface.
type FeedbackPort interface {
	Send(ev event.ControlEvent) error
}

// Journal receives a record of every applied translation. Optional.
type Journal interface {
	RecordTranslation(ruleName, direction, endpoint string, value float64)
}

// Translator converts a matched rule plus a source-side event into a
// target-side effect: an audio mutation, or an outbound control message.
// Both directions are idempotent for identical inputs, so duplicate
// notifications are safe to reapply.
type Translator struct {
	audio    AudioController
	feedback FeedbackPort // nil when no output port is open or feedback is disabled
	journal  Journal      // nil unless the trace journal is enabled
	ceiling  float64
	clamps   int // times the ceiling clamp fired, one warning each
}

// NewTranslator creates a translator. feedback and journal may be nil.
func NewTranslator(audio AudioController, feedback FeedbackPort, journal Journal) *Translator {
	return &Translator{
		audio:    audio,
		feedback: feedback,
		journal:  journal,
		ceiling:  MaxVolumeCeiling,
	}
}

// ApplyControlToAudio applies one control event to the endpoint the rule
// resolved to.
//
// Volume: raw/127 scaled by the rule, clamped to the ceiling; the clamp
// firing means the physical control has more range than the configured
// scale allows, which is worth a warning. Mute: toggle on non-zero values
// only, so releases of a momentary button (value 0) are ignored.
func (t *Translator) ApplyControlToAudio(rule config.Rule, ep event.Endpoint, rawValue uint8) error {
	switch rule.Action {
	case config.ActionVolume:
		volume := float64(rawValue) / event.MaxControlValue * rule.ScaleFactor
		if volume > t.ceiling {
			t.clamps++
			logger.Warn().
				Str("rule", rule.Name).
				Float64("computed", volume).
				Float64("ceiling", t.ceiling).
				Msg("Volume clamped; control range exceeds configured scale")
			volume = t.ceiling
		}
		if err := t.audio.SetVolume(ep, volume); err != nil {
			return err
		}
		t.record(rule.Name, "control-to-audio", ep.Name, volume)
		return nil

	case config.ActionMute:
		if rawValue == 0 {
			return nil
		}
		newMuted := !ep.Muted
		if err := t.audio.SetMute(ep, newMuted); err != nil {
			return err
		}
		muteVal := 0.0
		if newMuted {
			muteVal = 1.0
		}
		t.record(rule.Name, "control-to-audio", ep.Name, muteVal)
		return nil

	default:
		logger.Debug().Str("rule", rule.Name).Str("action", string(rule.Action)).Msg("Dropping event for unknown action")
		return nil
	}
}

// ApplyAudioToControl sends the control-surface reflection of the
// endpoint's current state: the inverse volume mapping clamped to the valid
// control range, or min/max for mute state. No-op unless the rule asks for
// feedback and an output port is open.
func (t *Translator) ApplyAudioToControl(rule config.Rule, ep event.Endpoint) error {
	if !rule.SendFeedback || t.feedback == nil {
		return nil
	}

	var value uint8
	switch rule.Action {
	case config.ActionVolume:
		v := math.Round(ep.Volume / rule.ScaleFactor * event.MaxControlValue)
		if v > event.MaxControlValue {
			v = event.MaxControlValue
		}
		value = uint8(v)
	case config.ActionMute:
		if ep.Muted {
			value = event.MaxControlValue
		} else {
			value = 0
		}
	default:
		return nil
	}

	ev := event.ControlEvent{
		Kind:    rule.ControlEvent,
		Channel: rule.ControlChannel,
		Control: rule.ControlNumber,
		Value:   value,
	}
	if err := t.feedback.Send(ev); err != nil {
		return err
	}
	t.record(rule.Name, "audio-to-control", ep.Name, float64(value))
	return nil
}

func (t *Translator) record(ruleName, direction, endpoint string, value float64) {
	if t.journal != nil {
		t.journal.RecordTranslation(ruleName, direction, endpoint, value)
	}
}
