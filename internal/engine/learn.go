package engine

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// Step is the current state of the interactive learning workflow.
type Step string

const (
	StepAwaitingControl  Step = "awaiting-control"
	StepAwaitingEndpoint Step = "awaiting-endpoint"
	StepTesting          Step = "testing"
	StepIdle             Step = "idle"
)

// testWindow is how long a freshly learned rule stays under test before the
// save prompt. Expiry is checked on the main-loop tick, so the effective
// resolution is the poll interval.
const testWindow = 30 * time.Second

// Prompter asks the user questions during a learning session and carries
// its guidance messages, so the session never touches stdout itself.
// Invalid input never passes through: implementations re-issue the prompt
// until they get a valid answer.
type Prompter interface {
	Confirm(question string) bool
	Select(question string, options []string) int
	Input(question string) string
	Say(message string)
}

// Session is the interactive learning state machine. It incrementally
// builds one candidate rule from live events, appends it to the rule set
// for a timed test, then collects it for persistence on confirmation.
//
// Exactly one Session exists while learn mode runs; the non-interactive
// matching path never touches it.
type Session struct {
	step           Step
	rules          *RuleSet
	prompt         Prompter
	defaultScale   float64
	candidate      *config.Rule
	candidateIndex int
	asked          map[string]struct{}
	testDeadline   time.Time
	saved          []config.Rule

	now func() time.Time
}

// NewSession creates a learning session over the live rule set.
func NewSession(rules *RuleSet, prompt Prompter, defaultScale float64) *Session {
	if defaultScale <= 0 {
		defaultScale = 1.0
	}
	return &Session{
		step:         StepAwaitingControl,
		rules:        rules,
		prompt:       prompt,
		defaultScale: defaultScale,
		asked:        make(map[string]struct{}),
		now:          time.Now,
	}
}

// Step returns the session's current state.
func (s *Session) Step() Step {
	return s.step
}

// SavedRules returns the rules the user chose to keep, in the order they
// were confirmed.
func (s *Session) SavedRules() []config.Rule {
	return s.saved
}

// ShouldApply reports whether the translation engine may apply the rule at
// index i. While a candidate is under test every other rule is suppressed,
// so exploratory testing is not drowned out by established mappings.
func (s *Session) ShouldApply(i int) bool {
	if s == nil {
		return true
	}
	return s.step != StepTesting || i == s.candidateIndex
}

// HandleControlEvent advances the session on a control-surface event. Each
// control address is offered at most once per episode.
func (s *Session) HandleControlEvent(ev event.ControlEvent) {
	if s.step != StepAwaitingControl {
		return
	}

	key := ev.Address()
	if _, ok := s.asked[key]; ok {
		return
	}
	s.asked[key] = struct{}{}

	if !s.prompt.Confirm(fmt.Sprintf("Create a rule for control %s?", key)) {
		return
	}

	candidate := config.DefaultRule()
	candidate.ControlEvent = ev.Kind
	candidate.ControlChannel = ev.Channel
	candidate.ControlNumber = ev.Control
	candidate.ScaleFactor = s.defaultScale
	candidate.SendFeedback = s.prompt.Confirm("Does this control support feedback (lit button, motor fader)?")

	s.candidate = &candidate
	s.step = StepAwaitingEndpoint
	s.prompt.Say("Now change the target device or stream in your mixer (e.g. move its volume).")
}

// HandleEndpoint advances the session on an audio endpoint change. Each
// endpoint is offered at most once per episode.
func (s *Session) HandleEndpoint(ep event.Endpoint) {
	if s.step != StepAwaitingEndpoint {
		return
	}

	key := ep.Address()
	if _, ok := s.asked[key]; ok {
		return
	}
	s.asked[key] = struct{}{}

	if !s.prompt.Confirm(fmt.Sprintf("Add %s %q to this rule?", ep.Kind, ep.Name)) {
		return
	}

	s.fillPredicates(ep)
	s.candidate.EndpointKind = ep.Kind

	actions := []string{string(config.ActionVolume), string(config.ActionMute)}
	s.candidate.Action = config.Action(actions[s.prompt.Select("Which action should the control perform?", actions)])

	// The candidate goes live immediately so the user can test it.
	s.candidateIndex = s.rules.Add(*s.candidate)
	s.testDeadline = s.now().Add(testWindow)
	s.step = StepTesting

	s.prompt.Say(fmt.Sprintf("Rule is live. Try it for %s; other rules are paused.", testWindow))
	logger.Info().
		Str("address", s.candidate.Address()).
		Str("endpoint", ep.Name).
		Msg("Candidate rule under test")
}

func (s *Session) fillPredicates(ep event.Endpoint) {
	props := make([]string, 0, len(ep.Properties))
	for k := range ep.Properties {
		props = append(props, k)
	}
	sort.Strings(props)

	// Property matching is only offered when the snapshot has properties.
	if len(props) > 0 {
		mode := s.prompt.Select("Match this device by:", []string{"name", "property"})
		if mode == 1 {
			display := make([]string, len(props))
			for i, k := range props {
				display[i] = fmt.Sprintf("%s = %s", k, ep.Properties[k])
			}
			chosen := props[s.prompt.Select("Which property identifies it?", display)]
			s.candidate.PropertyName = chosen
			s.candidate.PropertyValuePattern = regexp.QuoteMeta(ep.Properties[chosen])
			return
		}
	}
	s.candidate.MatchByName = regexp.QuoteMeta(ep.Name)
}

// CheckDeadline runs the save/retry dialogue once the test window has
// expired. It returns true when the session is finished and the process
// should write its output and exit.
func (s *Session) CheckDeadline(now time.Time) bool {
	if s.step != StepTesting || now.Before(s.testDeadline) {
		return false
	}

	if s.prompt.Confirm("Save this rule?") {
		saved := *s.candidate
		saved.Name = s.ruleName()
		s.saved = append(s.saved, saved)
		logger.Info().Str("rule", saved.Name).Msg("Rule saved")
	} else {
		// The tested rule stays in the live set but is never persisted.
		logger.Info().Str("address", s.candidate.Address()).Msg("Rule discarded")
	}

	if s.prompt.Confirm("Create another rule?") {
		s.reset()
		return false
	}

	s.step = StepIdle
	return true
}

// ruleName asks for a name until it gets one that is non-empty and not
// already used. The loaded rules count as taken too: the persisted format
// keys sections by name, so a collision would overwrite an existing rule.
func (s *Session) ruleName() string {
	for {
		name := s.prompt.Input("Name for this rule")
		if name == "" {
			s.prompt.Say("The name must not be empty.")
			continue
		}
		if s.nameTaken(name) {
			s.prompt.Say(fmt.Sprintf("A rule named %q already exists, pick another.", name))
			continue
		}
		return name
	}
}

func (s *Session) nameTaken(name string) bool {
	for _, r := range s.saved {
		if r.Name == name {
			return true
		}
	}
	for _, r := range s.rules.Rules() {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (s *Session) reset() {
	s.step = StepAwaitingControl
	s.candidate = nil
	s.candidateIndex = 0
	s.asked = make(map[string]struct{})
	s.testDeadline = time.Time{}
	s.prompt.Say("Touch the control you want to map next.")
}
