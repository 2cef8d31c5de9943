package engine

import (
	"context"
	"time"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// AudioSystem is the full audio collaborator surface the bridge drives. Its
// WaitEvents call is the sole scheduling primitive: the bounded wait doubles
// as the main-loop tick.
type AudioSystem interface {
	AudioController
	ListEndpoints(kind event.EndpointKind) ([]event.Endpoint, error)
	WaitEvents(timeout time.Duration)
}

// Bridge owns the rule set, the translator, both event queues, and the
// optional learning session, and runs the single consumer loop that drains
// them. Producer callbacks only append to the queues; they never match or
// apply rules themselves.
type Bridge struct {
	rules      *RuleSet
	translator *Translator
	audio      AudioSystem
	interval   time.Duration

	controlQueue queue[event.ControlEvent]
	audioQueue   queue[event.AudioEvent]

	session *Session
}

// NewBridge creates a bridge over the given collaborators.
func NewBridge(rules *RuleSet, translator *Translator, audio AudioSystem, interval time.Duration) *Bridge {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Bridge{
		rules:      rules,
		translator: translator,
		audio:      audio,
		interval:   interval,
	}
}

// SetSession attaches a learning session. Without one the bridge matches
// and applies every rule unconditionally.
func (b *Bridge) SetSession(s *Session) {
	b.session = s
}

// EnqueueControl is the control transport's producer callback. Safe to call
// from the transport's own goroutine.
func (b *Bridge) EnqueueControl(ev event.ControlEvent) {
	b.controlQueue.Push(ev)
}

// EnqueueAudio is the audio subscription's producer callback. Safe to call
// from the audio client's read goroutine.
func (b *Bridge) EnqueueAudio(ev event.AudioEvent) {
	b.audioQueue.Push(ev)
}

// Run drives the main loop until the context is cancelled or, in learn
// mode, the session finishes. Each tick drains the audio queue, then the
// control queue, then checks the session's test window.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.audio.WaitEvents(b.interval)
		b.drainAudio()
		b.drainControl()

		if b.session != nil && b.session.CheckDeadline(time.Now()) {
			return nil
		}
	}
}

func (b *Bridge) drainAudio() {
	for {
		ev, ok := b.audioQueue.Pop()
		if !ok {
			return
		}

		ep, ok := b.resolve(ev)
		if !ok {
			// The handle went stale between emission and processing
			// (application closed, device unplugged). Recoverable.
			logger.Debug().
				Str("kind", string(ev.Kind)).
				Uint32("index", ev.Index).
				Msg("Endpoint gone before processing, skipping")
			continue
		}

		if b.session != nil {
			b.session.HandleEndpoint(ep)
		}

		for _, i := range b.rules.MatchRulesForEndpoint(ev.Kind, ep) {
			if b.session != nil && !b.session.ShouldApply(i) {
				continue
			}
			rule := b.rules.At(i)
			if err := b.translator.ApplyAudioToControl(rule, ep); err != nil {
				logger.Warn().Err(err).Str("rule", rule.Name).Msg("Feedback send failed")
			}
		}
	}
}

func (b *Bridge) drainControl() {
	for {
		ev, ok := b.controlQueue.Pop()
		if !ok {
			return
		}

		if b.session != nil {
			b.session.HandleControlEvent(ev)
		}

		for _, i := range b.rules.MatchControlEvent(ev) {
			if b.session != nil && !b.session.ShouldApply(i) {
				continue
			}
			rule := b.rules.At(i)

			endpoints, err := b.audio.ListEndpoints(rule.EndpointKind)
			if err != nil {
				logger.Warn().Err(err).Str("rule", rule.Name).Msg("Endpoint listing failed")
				continue
			}
			ep, ok := b.rules.MatchEndpoint(rule, endpoints)
			if !ok {
				logger.Warn().
					Str("rule", rule.Name).
					Msg("No endpoint currently matches the rule, skipping event")
				continue
			}
			if err := b.translator.ApplyControlToAudio(rule, ep, ev.Value); err != nil {
				logger.Warn().Err(err).Str("rule", rule.Name).Msg("Applying control event failed")
			}
		}
	}
}

// resolve looks the notification handle up in the current endpoint list.
func (b *Bridge) resolve(ev event.AudioEvent) (event.Endpoint, bool) {
	endpoints, err := b.audio.ListEndpoints(ev.Kind)
	if err != nil {
		logger.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("Endpoint listing failed")
		return event.Endpoint{}, false
	}
	for _, ep := range endpoints {
		if ep.Index == ev.Index {
			return ep, true
		}
	}
	return event.Endpoint{}, false
}
