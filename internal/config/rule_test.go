package config

import (
	"os"
	"testing"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitQuiet()
	os.Exit(m.Run())
}

func TestRuleValidate(t *testing.T) {
	valid := func() Rule {
		r := DefaultRule()
		r.Name = "desk"
		r.MatchByName = "mpv"
		return r
	}

	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr bool
	}{
		{"valid name match", func(r *Rule) {}, false},
		{"valid property match", func(r *Rule) {
			r.MatchByName = ""
			r.PropertyName = "media.role"
			r.PropertyValuePattern = "music"
		}, false},
		{"unknown control event", func(r *Rule) { r.ControlEvent = "pitch-bend" }, true},
		{"unknown endpoint kind", func(r *Rule) { r.EndpointKind = "speaker" }, true},
		{"unknown action", func(r *Rule) { r.Action = "solo" }, true},
		{"zero scale", func(r *Rule) { r.ScaleFactor = 0 }, true},
		{"negative scale", func(r *Rule) { r.ScaleFactor = -1 }, true},
		{"no predicate", func(r *Rule) { r.MatchByName = "" }, true},
		{"property name without pattern", func(r *Rule) {
			r.MatchByName = ""
			r.PropertyName = "media.role"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("got err %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultRule(t *testing.T) {
	r := DefaultRule()
	if r.ControlEvent != event.ControlChange {
		t.Errorf("got control event %s, want control-change", r.ControlEvent)
	}
	if r.EndpointKind != event.Sink {
		t.Errorf("got endpoint kind %s, want sink", r.EndpointKind)
	}
	if r.Action != ActionVolume {
		t.Errorf("got action %s, want volume", r.Action)
	}
	if r.ScaleFactor != 1.0 {
		t.Errorf("got scale %g, want 1.0", r.ScaleFactor)
	}
}

func TestRuleAddressMatchesEvent(t *testing.T) {
	r := DefaultRule()
	r.ControlChannel = 3
	r.ControlNumber = 14

	ev := event.ControlEvent{Kind: event.ControlChange, Channel: 3, Control: 14}
	if r.Address() != ev.Address() {
		t.Errorf("rule address %q != event address %q", r.Address(), ev.Address())
	}
}
