// Package initflags provides the process-wide init flag registry.
// Flags are parsed once from NAME=VALUE tokens and are read-only until the next Load.
package initflags

import "strings"

// Flag identifies a boolean init flag.
type Flag int

const (
	// GdCore enables the core stack. Implies GdController and GdHci.
	GdCore Flag = iota
	// GdController enables the controller layer. Implies GdHci.
	GdController
	// GdHci enables the HCI layer.
	GdHci
	// GattRobustCaching enables GATT robust caching.
	GattRobustCaching
	// BtaaHci enables BTAA HCI logging.
	BtaaHci
	// LoggingDebugEnabledForAll turns on debug logging for every tag that is not disabled.
	LoggingDebugEnabledForAll

	numFlags
)

// Token names recognised by Load.
const (
	NameGdCore                      = "gd_core"
	NameGdController                = "gd_controller"
	NameGdHci                       = "gd_hci"
	NameGattRobustCaching           = "gatt_robust_caching"
	NameBtaaHci                     = "btaa_hci"
	NameLoggingDebugEnabledForAll   = "logging_debug_enabled_for_all"
	NameLoggingDebugEnabledForTags  = "logging_debug_enabled_for_tags"
	NameLoggingDebugDisabledForTags = "logging_debug_disabled_for_tags"
)

// Prefix is the optional marker launchers put in front of init flag names,
// e.g. INIT_gd_core=true.
const Prefix = "INIT_"

var flagNames = [numFlags]string{
	GdCore:                    NameGdCore,
	GdController:              NameGdController,
	GdHci:                     NameGdHci,
	GattRobustCaching:         NameGattRobustCaching,
	BtaaHci:                   NameBtaaHci,
	LoggingDebugEnabledForAll: NameLoggingDebugEnabledForAll,
}

func (f Flag) String() string {
	if f < 0 || f >= numFlags {
		return "unknown"
	}
	return flagNames[f]
}

// Flags returns every boolean flag in declaration order.
func Flags() []Flag {
	all := make([]Flag, 0, numFlags)
	for f := Flag(0); f < numFlags; f++ {
		all = append(all, f)
	}
	return all
}

// Kind describes how a token value is interpreted.
type Kind string

const (
	KindBool Kind = "bool"
	KindTags Kind = "tags"
)

// Descriptor describes a recognised token name.
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
}

var descriptors = []Descriptor{
	{Name: NameGdCore, Kind: KindBool, Description: "Enable the core stack (implies gd_controller and gd_hci)"},
	{Name: NameGdController, Kind: KindBool, Description: "Enable the controller layer (implies gd_hci)"},
	{Name: NameGdHci, Kind: KindBool, Description: "Enable the HCI layer"},
	{Name: NameGattRobustCaching, Kind: KindBool, Description: "Enable GATT robust caching"},
	{Name: NameBtaaHci, Kind: KindBool, Description: "Enable BTAA HCI logging"},
	{Name: NameLoggingDebugEnabledForAll, Kind: KindBool, Description: "Enable debug logging for every tag not explicitly disabled"},
	{Name: NameLoggingDebugEnabledForTags, Kind: KindTags, Description: "Comma separated tags with debug logging enabled"},
	{Name: NameLoggingDebugDisabledForTags, Kind: KindTags, Description: "Comma separated tags with debug logging disabled (wins over everything else)"},
}

// Known returns all recognised token names with metadata.
// Returns a copy to prevent mutation of the table.
func Known() []Descriptor {
	result := make([]Descriptor, len(descriptors))
	copy(result, descriptors)
	return result
}

// IsKnown reports whether name is a recognised token name, with or without Prefix.
func IsKnown(name string) bool {
	_, ok := handlers[strings.TrimPrefix(name, Prefix)]
	return ok
}
