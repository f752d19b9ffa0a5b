package initflags

import (
	"slices"
	"strings"
)

// Settings is one immutable result of a Load.
// A Settings value is never modified once it has been published to a Store.
type Settings struct {
	flags    [numFlags]bool
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

func defaultSettings() *Settings {
	return &Settings{
		enabled:  map[string]struct{}{},
		disabled: map[string]struct{}{},
	}
}

// handler applies one token value to the settings under construction.
type handler func(s *Settings, value string)

func boolHandler(f Flag) handler {
	return func(s *Settings, value string) {
		s.flags[f] = value == "true"
	}
}

var handlers = map[string]handler{
	NameGdCore:                      boolHandler(GdCore),
	NameGdController:                boolHandler(GdController),
	NameGdHci:                       boolHandler(GdHci),
	NameGattRobustCaching:           boolHandler(GattRobustCaching),
	NameBtaaHci:                     boolHandler(BtaaHci),
	NameLoggingDebugEnabledForAll:   boolHandler(LoggingDebugEnabledForAll),
	NameLoggingDebugEnabledForTags:  setEnabledTags,
	NameLoggingDebugDisabledForTags: setDisabledTags,
}

func setEnabledTags(s *Settings, value string)  { s.enabled = splitTags(value) }
func setDisabledTags(s *Settings, value string) { s.disabled = splitTags(value) }

// splitTags keeps every segment verbatim, including empty ones.
func splitTags(value string) map[string]struct{} {
	parts := strings.Split(value, ",")
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		set[p] = struct{}{}
	}
	return set
}

// parse builds settings from tokens. It returns the number of tokens that were
// applied and the ones that were ignored.
func parse(tokens []string) (*Settings, int, []string) {
	s := defaultSettings()
	applied := 0
	var ignored []string

	for _, token := range tokens {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			ignored = append(ignored, token)
			continue
		}
		h, known := handlers[strings.TrimPrefix(name, Prefix)]
		if !known {
			ignored = append(ignored, token)
			continue
		}
		h(s, value)
		applied++
	}

	// Forward-only cascade, order matters: core feeds controller feeds hci.
	if s.flags[GdCore] {
		s.flags[GdController] = true
	}
	if s.flags[GdController] {
		s.flags[GdHci] = true
	}

	return s, applied, ignored
}

// Reason explains how a tag's debug logging state was decided.
type Reason string

const (
	ReasonDisabled Reason = "disabled"
	ReasonEnabled  Reason = "enabled"
	ReasonAll      Reason = "all"
)

// resolve applies tag precedence: disabled set, then enabled set, then the log-all flag.
func (s *Settings) resolve(tag string) (bool, Reason) {
	if _, ok := s.disabled[tag]; ok {
		return false, ReasonDisabled
	}
	if _, ok := s.enabled[tag]; ok {
		return true, ReasonEnabled
	}
	return s.flags[LoggingDebugEnabledForAll], ReasonAll
}

// Snapshot is a copy of the loaded settings, suitable for display.
type Snapshot struct {
	Flags        map[string]bool `json:"flags" yaml:"flags"`
	EnabledTags  []string        `json:"enabled_tags" yaml:"enabled_tags"`
	DisabledTags []string        `json:"disabled_tags" yaml:"disabled_tags"`
}

func (s *Settings) snapshot() Snapshot {
	flags := make(map[string]bool, numFlags)
	for f := Flag(0); f < numFlags; f++ {
		flags[f.String()] = s.flags[f]
	}
	return Snapshot{
		Flags:        flags,
		EnabledTags:  sortedKeys(s.enabled),
		DisabledTags: sortedKeys(s.disabled),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
