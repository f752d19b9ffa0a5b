package initflags

import (
	"sync/atomic"

	"github.com/zjrosen/initflags/internal/log"
)

// Store holds the current Settings behind an atomically swapped pointer.
// Load replaces the whole value, so concurrent readers never observe a partial update.
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore creates a Store holding default settings (every flag false, no tags).
func NewStore() *Store {
	s := &Store{}
	s.current.Store(defaultSettings())
	return s
}

// Load resets the store to defaults and applies tokens in order.
// Tokens without '=' and unknown names are ignored; a nil slice yields defaults.
func (s *Store) Load(tokens []string) {
	next, applied, ignored := parse(tokens)
	s.current.Store(next)

	log.Debug(log.CatFlags, "Init flags loaded",
		"tokens", len(tokens), "applied", applied, "ignored", len(ignored))
	for _, token := range ignored {
		log.Debug(log.CatFlags, "Ignored init flag token", "token", token)
	}
}

func (s *Store) settings() *Settings {
	return s.current.Load()
}

// Enabled returns the value of a boolean flag.
// Returns false for out-of-range flags.
func (s *Store) Enabled(f Flag) bool {
	if f < 0 || f >= numFlags {
		return false
	}
	return s.settings().flags[f]
}

// GdCoreEnabled reports the gd_core flag.
func (s *Store) GdCoreEnabled() bool { return s.Enabled(GdCore) }

// GdControllerEnabled reports gd_controller, also true when gd_core is set.
func (s *Store) GdControllerEnabled() bool { return s.Enabled(GdController) }

// GdHciEnabled reports gd_hci, also true when gd_core or gd_controller is set.
func (s *Store) GdHciEnabled() bool { return s.Enabled(GdHci) }

// GattRobustCachingEnabled reports the gatt_robust_caching flag.
func (s *Store) GattRobustCachingEnabled() bool { return s.Enabled(GattRobustCaching) }

// BtaaHciLogEnabled reports the btaa_hci flag.
func (s *Store) BtaaHciLogEnabled() bool { return s.Enabled(BtaaHci) }

// IsDebugLoggingEnabledForAll reports the logging_debug_enabled_for_all flag.
func (s *Store) IsDebugLoggingEnabledForAll() bool {
	return s.Enabled(LoggingDebugEnabledForAll)
}

// IsDebugLoggingEnabledForTag reports whether debug logging is on for tag.
// A disabled tag is always off, even when it is also listed as enabled or
// logging_debug_enabled_for_all is set. Matching is exact and case-sensitive.
func (s *Store) IsDebugLoggingEnabledForTag(tag string) bool {
	enabled, _ := s.settings().resolve(tag)
	return enabled
}

// ResolveTag is IsDebugLoggingEnabledForTag plus the rule that decided it.
func (s *Store) ResolveTag(tag string) (bool, Reason) {
	return s.settings().resolve(tag)
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Snapshot {
	return s.settings().snapshot()
}

var defaultStore = NewStore()

// Default returns the process-wide store used by the package-level functions.
func Default() *Store {
	return defaultStore
}

// Load replaces the process-wide settings. See Store.Load.
func Load(tokens []string) { defaultStore.Load(tokens) }

// GdCoreEnabled reports gd_core in the process-wide settings.
func GdCoreEnabled() bool { return defaultStore.GdCoreEnabled() }

// GdControllerEnabled reports gd_controller in the process-wide settings.
func GdControllerEnabled() bool { return defaultStore.GdControllerEnabled() }

// GdHciEnabled reports gd_hci in the process-wide settings.
func GdHciEnabled() bool { return defaultStore.GdHciEnabled() }

// GattRobustCachingEnabled reports gatt_robust_caching in the process-wide settings.
func GattRobustCachingEnabled() bool { return defaultStore.GattRobustCachingEnabled() }

// BtaaHciLogEnabled reports btaa_hci in the process-wide settings.
func BtaaHciLogEnabled() bool { return defaultStore.BtaaHciLogEnabled() }

// IsDebugLoggingEnabledForAll reports logging_debug_enabled_for_all in the process-wide settings.
func IsDebugLoggingEnabledForAll() bool { return defaultStore.IsDebugLoggingEnabledForAll() }

// IsDebugLoggingEnabledForTag resolves tag against the process-wide settings.
// See Store.IsDebugLoggingEnabledForTag.
func IsDebugLoggingEnabledForTag(tag string) bool {
	return defaultStore.IsDebugLoggingEnabledForTag(tag)
}

// ResolveTag resolves tag against the process-wide settings and names the deciding rule.
func ResolveTag(tag string) (bool, Reason) { return defaultStore.ResolveTag(tag) }

// Current returns a copy of the process-wide settings.
func Current() Snapshot { return defaultStore.Snapshot() }
