package event

import "testing"

func TestControlEventAddress(t *testing.T) {
	tests := []struct {
		ev   ControlEvent
		want string
	}{
		{ControlEvent{Kind: ControlChange, Channel: 0, Control: 7, Value: 64}, "control-change:0:7"},
		{ControlEvent{Kind: Note, Channel: 9, Control: 41, Value: 127}, "note:9:41"},
		{ControlEvent{Kind: ProgramChange, Channel: 15, Control: 3}, "program-change:15:3"},
	}
	for _, tt := range tests {
		if got := tt.ev.Address(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestAddressIgnoresValue(t *testing.T) {
	a := ControlEvent{Kind: ControlChange, Channel: 0, Control: 7, Value: 0}
	b := ControlEvent{Kind: ControlChange, Channel: 0, Control: 7, Value: 127}
	if a.Address() != b.Address() {
		t.Error("events differing only in value must share an address")
	}
}

func TestEndpointAddress(t *testing.T) {
	ep := Endpoint{Kind: SinkInput, Index: 42, Name: "mpv"}
	if got := ep.Address(); got != "audio:sink-input:mpv" {
		t.Errorf("got %q", got)
	}
}

func TestValidEndpointKind(t *testing.T) {
	for _, k := range EndpointKinds {
		if !ValidEndpointKind(k) {
			t.Errorf("%s should be valid", k)
		}
	}
	if ValidEndpointKind("speaker") {
		t.Error("unknown kind accepted")
	}
	if ValidEndpointKind("") {
		t.Error("empty kind accepted")
	}
}
