package engine

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/event"
)

// Matcher handles regex pattern matching for rule predicates
type Matcher struct {
	cache sync.Map // caches compiled regex patterns
}

// NewMatcher creates a new pattern matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// MatchEndpoint reports whether the endpoint satisfies every predicate the
// rule sets. Patterns are unanchored: a partial match anywhere in the
// candidate string counts. A rule with no predicate at all never matches;
// a missing property and a non-matching property value are treated
// identically.
func (m *Matcher) MatchEndpoint(rule config.Rule, ep event.Endpoint) (bool, error) {
	if !rule.HasAudioPredicate() {
		return false, nil
	}

	if rule.MatchByName != "" {
		re, err := m.getOrCompile(rule.MatchByName)
		if err != nil {
			return false, fmt.Errorf("invalid matchByName pattern %q: %w", rule.MatchByName, err)
		}
		if !re.MatchString(ep.Name) {
			return false, nil
		}
	}

	if rule.PropertyName != "" && rule.PropertyValuePattern != "" {
		value, ok := ep.Properties[rule.PropertyName]
		if !ok {
			return false, nil
		}
		re, err := m.getOrCompile(rule.PropertyValuePattern)
		if err != nil {
			return false, fmt.Errorf("invalid propertyValuePattern %q: %w", rule.PropertyValuePattern, err)
		}
		if !re.MatchString(value) {
			return false, nil
		}
	}

	return true, nil
}

// getOrCompile retrieves a compiled regex from cache or compiles it
func (m *Matcher) getOrCompile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := m.cache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	m.cache.Store(pattern, re)
	return re, nil
}
