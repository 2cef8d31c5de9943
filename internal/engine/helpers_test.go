package engine

import (
	"os"
	"testing"
	"time"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitQuiet()
	os.Exit(m.Run())
}

// fakeAudio satisfies AudioSystem for tests.
type fakeAudio struct {
	endpoints map[event.EndpointKind][]event.Endpoint

	volumes     map[uint32]float64
	mutes       map[uint32]bool
	volumeCalls int
	muteCalls   int
	waitCalls   int
	onWait      func()
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		endpoints: make(map[event.EndpointKind][]event.Endpoint),
		volumes:   make(map[uint32]float64),
		mutes:     make(map[uint32]bool),
	}
}

func (f *fakeAudio) ListEndpoints(kind event.EndpointKind) ([]event.Endpoint, error) {
	return f.endpoints[kind], nil
}

func (f *fakeAudio) SetVolume(ep event.Endpoint, volume float64) error {
	f.volumes[ep.Index] = volume
	f.volumeCalls++
	return nil
}

func (f *fakeAudio) SetMute(ep event.Endpoint, muted bool) error {
	f.mutes[ep.Index] = muted
	f.muteCalls++
	return nil
}

func (f *fakeAudio) WaitEvents(timeout time.Duration) {
	f.waitCalls++
	if f.onWait != nil {
		f.onWait()
	}
}

// fakeFeedback records outbound control events.
type fakeFeedback struct {
	sent []event.ControlEvent
}

func (f *fakeFeedback) Send(ev event.ControlEvent) error {
	f.sent = append(f.sent, ev)
	return nil
}

// fakePrompter replays scripted answers.
type fakePrompter struct {
	confirms []bool
	selects  []int
	inputs   []string

	confirmAsked []string
	notices      []string
}

func (p *fakePrompter) Confirm(question string) bool {
	p.confirmAsked = append(p.confirmAsked, question)
	if len(p.confirms) == 0 {
		return false
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v
}

func (p *fakePrompter) Select(question string, options []string) int {
	if len(p.selects) == 0 {
		return 0
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	if v >= len(options) {
		v = 0
	}
	return v
}

func (p *fakePrompter) Input(question string) string {
	if len(p.inputs) == 0 {
		return "unnamed"
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v
}

func (p *fakePrompter) Say(message string) {
	p.notices = append(p.notices, message)
}

func volumeRule(name string, channel, number uint8) config.Rule {
	r := config.DefaultRule()
	r.Name = name
	r.ControlChannel = channel
	r.ControlNumber = number
	r.EndpointKind = event.Sink
	r.MatchByName = name
	return r
}

func sinkEndpoint(index uint32, name string) event.Endpoint {
	return event.Endpoint{
		Kind:     event.Sink,
		Index:    index,
		Name:     name,
		Volume:   0.5,
		Channels: 2,
	}
}
