package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faderctl/faderctl/internal/event"
)

func TestRulesRoundTrip(t *testing.T) {
	full := Rule{
		Name:                 "mic-mute",
		ControlEvent:         event.Note,
		ControlChannel:       1,
		ControlNumber:        41,
		SendFeedback:         true,
		EndpointKind:         event.Source,
		MatchByName:          `alsa_input\.usb`,
		PropertyName:         "device.bus",
		PropertyValuePattern: "usb",
		Action:               ActionMute,
		ScaleFactor:          1.0,
	}
	minimal := Rule{
		Name:           "desk-volume",
		ControlEvent:   event.ControlChange,
		ControlChannel: 0,
		ControlNumber:  7,
		EndpointKind:   event.Sink,
		MatchByName:    "mpv",
		Action:         ActionVolume,
		ScaleFactor:    1.5,
	}

	path := filepath.Join(t.TempDir(), "rules.conf")
	if err := SaveRules(path, []Rule{full, minimal}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadRules(path, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d rules, want 2", len(loaded))
	}
	if loaded[0] != full {
		t.Errorf("full rule changed in round trip:\n got  %+v\n want %+v", loaded[0], full)
	}
	if loaded[1] != minimal {
		t.Errorf("minimal rule changed in round trip:\n got  %+v\n want %+v", loaded[1], minimal)
	}
}

func TestLoadRulesOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.conf")
	content := `[sparse]
controlNumber = 7
matchByName = mpv
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}

	r := rules[0]
	if r.Name != "sparse" {
		t.Errorf("got name %q, want the section name", r.Name)
	}
	if r.ControlEvent != event.ControlChange || r.EndpointKind != event.Sink || r.Action != ActionVolume {
		t.Errorf("unset keys must fall back to the defaults, got %+v", r)
	}
	if r.ScaleFactor != 1.0 {
		t.Errorf("got scale %g, want the default 1.0", r.ScaleFactor)
	}
	if r.SendFeedback {
		t.Error("sendFeedback defaults to off")
	}
}

func TestLoadRulesAppliesDefaultScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.conf")
	content := `[implicit]
controlNumber = 7
matchByName = mpv

[explicit]
controlNumber = 8
matchByName = mpv
scaleFactor = 0.8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path, 1.5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rules[0].ScaleFactor != 1.5 {
		t.Errorf("got scale %g, want the settings default 1.5", rules[0].ScaleFactor)
	}
	if rules[1].ScaleFactor != 0.8 {
		t.Errorf("got scale %g, want the rule's own 0.8", rules[1].ScaleFactor)
	}
}

func TestLoadRulesKeepsInvalidRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.conf")
	content := `[inert]
controlNumber = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("invalid rule must still load, got %d rules", len(rules))
	}
	if rules[0].Validate() == nil {
		t.Error("rule without a predicate should fail validation")
	}
}

func TestSaveRulesRejectsDuplicateNames(t *testing.T) {
	loaded := DefaultRule()
	loaded.Name = "desk"
	loaded.MatchByName = "firefox"
	loaded.Action = ActionMute

	learned := DefaultRule()
	learned.Name = "desk"
	learned.MatchByName = "mpv"

	path := filepath.Join(t.TempDir(), "rules.conf")
	err := SaveRules(path, []Rule{loaded, learned})
	if err == nil {
		t.Fatal("expected an error for two rules sharing a name")
	}
	if !strings.Contains(err.Error(), "desk") {
		t.Errorf("error should name the colliding rule, got %v", err)
	}
	if Exists(path) {
		t.Error("no rules file should be written on failure")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.conf"), 0); err == nil {
		t.Error("expected an error for a missing rules file")
	}
}
