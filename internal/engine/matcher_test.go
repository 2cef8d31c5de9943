package engine

import (
	"strings"
	"testing"

	"github.com/faderctl/faderctl/internal/config"
)

func TestMatcherInvalidPattern(t *testing.T) {
	m := NewMatcher()

	rule := config.DefaultRule()
	rule.MatchByName = "mpv[" // unterminated class

	ok, err := m.MatchEndpoint(rule, sinkEndpoint(1, "mpv"))
	if ok {
		t.Error("invalid pattern must not match")
	}
	if err == nil || !strings.Contains(err.Error(), "mpv[") {
		t.Errorf("error should name the bad pattern, got %v", err)
	}
}

func TestMatcherInvalidPropertyPattern(t *testing.T) {
	m := NewMatcher()

	rule := config.DefaultRule()
	rule.PropertyName = "media.role"
	rule.PropertyValuePattern = "("

	ep := sinkEndpoint(1, "mpv")
	ep.Properties = map[string]string{"media.role": "music"}

	if ok, err := m.MatchEndpoint(rule, ep); ok || err == nil {
		t.Errorf("got ok=%v err=%v, want a compile error", ok, err)
	}
}

func TestMatcherCachesPatterns(t *testing.T) {
	m := NewMatcher()
	rule := config.DefaultRule()
	rule.MatchByName = "mpv"

	for i := 0; i < 3; i++ {
		if ok, err := m.MatchEndpoint(rule, sinkEndpoint(1, "mpv")); !ok || err != nil {
			t.Fatalf("match %d: ok=%v err=%v", i, ok, err)
		}
	}
	if _, ok := m.cache.Load("mpv"); !ok {
		t.Error("compiled pattern should be cached")
	}
}
