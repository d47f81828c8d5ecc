// Package tokens maps abstract design token trees to and from the supported
// token document schemas.
package tokens

import (
	"slices"
	"strings"
)

// Format describes one token document schema.
type Format struct {
	// Name is the canonical identifier (e.g. "w3c").
	Name string `json:"name"`

	// ValueKey is the key holding a token's value.
	ValueKey string `json:"valueKey"`

	// TypeKey is the key holding a token's type. Empty means the schema has no type key.
	TypeKey string `json:"typeKey,omitempty"`

	// RootKey is the single top-level key of the document.
	RootKey string `json:"rootKey"`

	// Nested reports whether token paths become nested groups (true) or flat
	// FlatSeparator-joined keys (false).
	Nested bool `json:"nested"`

	// Description is shown in help output.
	Description string `json:"description"`
}

// FlatSeparator joins path segments in flat formats.
const FlatSeparator = "/"

// Built-in formats.
var (
	W3C = Format{
		Name:        "w3c",
		ValueKey:    "$value",
		TypeKey:     "$type",
		RootKey:     "colors",
		Nested:      true,
		Description: "W3C Design Tokens Community Group format",
	}

	StyleDictionary = Format{
		Name:        "style-dictionary",
		ValueKey:    "value",
		RootKey:     "color",
		Nested:      true,
		Description: "Style Dictionary source tokens",
	}

	Figma = Format{
		Name:        "figma",
		ValueKey:    "value",
		TypeKey:     "type",
		RootKey:     "tokens",
		Nested:      false,
		Description: "Figma variables import (flat keys)",
	}

	TokensStudio = Format{
		Name:        "tokens-studio",
		ValueKey:    "value",
		TypeKey:     "type",
		RootKey:     "global",
		Nested:      true,
		Description: "Tokens Studio for Figma global set",
	}
)

// registry is read-only after package initialisation.
var registry = []Format{W3C, StyleDictionary, Figma, TokensStudio}

var aliases = map[string]string{
	"dtcg":   W3C.Name,
	"sd":     StyleDictionary.Name,
	"studio": TokensStudio.Name,
}

// Formats returns the built-in formats in detection order.
func Formats() []Format {
	return slices.Clone(registry)
}

// Names returns the canonical format names.
func Names() []string {
	names := make([]string, len(registry))
	for i, f := range registry {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the format with the given name or alias (case-insensitive).
func Lookup(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// String implements fmt.Stringer.
func (f Format) String() string { return f.Name }
