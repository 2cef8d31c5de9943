package config

import (
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// Rule file keys. One INI section per rule, section name = rule name,
// optional predicate keys simply omitted when unset.
const (
	keyControlEvent         = "controlEvent"
	keyControlChannel       = "controlChannel"
	keyControlNumber        = "controlNumber"
	keySendFeedback         = "sendFeedback"
	keyEndpointKind         = "endpointKind"
	keyMatchByName          = "matchByName"
	keyPropertyName         = "propertyName"
	keyPropertyValuePattern = "propertyValuePattern"
	keyAction               = "action"
	keyScaleFactor          = "scaleFactor"
)

// LoadRules reads the rule set from an INI-style file, overlaying each
// section on DefaultRule with defaultScale applied. Rules that fail
// validation are loaded anyway and warned about; the matcher never selects
// them.
func LoadRules(path string, defaultScale float64) ([]Rule, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", path, err)
	}

	var rules []Rule
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		rule := applySection(DefaultRule(), defaultScale, sec)
		if err := rule.Validate(); err != nil {
			logger.Warn().
				Str("rule", rule.Name).
				Err(err).
				Msg("Rule has a configuration defect and will never match")
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// applySection overlays one configuration section on a base rule. Only keys
// present in the section override the base.
func applySection(base Rule, defaultScale float64, sec *ini.Section) Rule {
	rule := base
	rule.Name = sec.Name()
	if defaultScale > 0 {
		rule.ScaleFactor = defaultScale
	}

	if sec.HasKey(keyControlEvent) {
		rule.ControlEvent = event.ControlKind(sec.Key(keyControlEvent).String())
	}
	if sec.HasKey(keyControlChannel) {
		rule.ControlChannel = uint8(sec.Key(keyControlChannel).MustUint(0))
	}
	if sec.HasKey(keyControlNumber) {
		rule.ControlNumber = uint8(sec.Key(keyControlNumber).MustUint(0))
	}
	if sec.HasKey(keySendFeedback) {
		rule.SendFeedback = sec.Key(keySendFeedback).MustBool(false)
	}
	if sec.HasKey(keyEndpointKind) {
		rule.EndpointKind = event.EndpointKind(sec.Key(keyEndpointKind).String())
	}
	if sec.HasKey(keyMatchByName) {
		rule.MatchByName = sec.Key(keyMatchByName).String()
	}
	if sec.HasKey(keyPropertyName) {
		rule.PropertyName = sec.Key(keyPropertyName).String()
	}
	if sec.HasKey(keyPropertyValuePattern) {
		rule.PropertyValuePattern = sec.Key(keyPropertyValuePattern).String()
	}
	if sec.HasKey(keyAction) {
		rule.Action = Action(sec.Key(keyAction).String())
	}
	if sec.HasKey(keyScaleFactor) {
		rule.ScaleFactor = sec.Key(keyScaleFactor).MustFloat64(rule.ScaleFactor)
	}

	return rule
}

// SaveRules writes the complete rule set to path in the same section format
// LoadRules reads. Names must be unique: the format keys sections by name,
// so a duplicate would silently swallow the earlier rule.
func SaveRules(path string, rules []Rule) error {
	f := ini.Empty()

	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if _, ok := seen[rule.Name]; ok {
			return fmt.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = struct{}{}
		sec, err := f.NewSection(rule.Name)
		if err != nil {
			return fmt.Errorf("failed to create section %q: %w", rule.Name, err)
		}
		if err := writeRule(sec, rule); err != nil {
			return fmt.Errorf("failed to serialize rule %q: %w", rule.Name, err)
		}
	}

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write rules file %s: %w", path, err)
	}
	return nil
}

func writeRule(sec *ini.Section, rule Rule) error {
	set := func(key, value string) error {
		_, err := sec.NewKey(key, value)
		return err
	}

	if err := set(keyControlEvent, string(rule.ControlEvent)); err != nil {
		return err
	}
	if err := set(keyControlChannel, strconv.Itoa(int(rule.ControlChannel))); err != nil {
		return err
	}
	if err := set(keyControlNumber, strconv.Itoa(int(rule.ControlNumber))); err != nil {
		return err
	}
	if err := set(keySendFeedback, strconv.FormatBool(rule.SendFeedback)); err != nil {
		return err
	}
	if err := set(keyEndpointKind, string(rule.EndpointKind)); err != nil {
		return err
	}
	if rule.MatchByName != "" {
		if err := set(keyMatchByName, rule.MatchByName); err != nil {
			return err
		}
	}
	if rule.PropertyName != "" {
		if err := set(keyPropertyName, rule.PropertyName); err != nil {
			return err
		}
	}
	if rule.PropertyValuePattern != "" {
		if err := set(keyPropertyValuePattern, rule.PropertyValuePattern); err != nil {
			return err
		}
	}
	if err := set(keyAction, string(rule.Action)); err != nil {
		return err
	}
	return set(keyScaleFactor, strconv.FormatFloat(rule.ScaleFactor, 'g', -1, 64))
}
