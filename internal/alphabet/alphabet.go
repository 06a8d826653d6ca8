// Package alphabet provides named symbol presets for audio cues.
package alphabet

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultName is the preset used when none is configured.
const DefaultName = "jaeggi"

// presets are ordered symbol lists. The jaeggi set is the consonant
// selection used by the original dual n-back studies.
var presets = map[string][]rune{
	"jaeggi":     []rune("chklqrst"),
	"consonants": []rune("bcdfghjklmnpqrstvwxyz"),
	"letters":    []rune("abcdefghijklmnopqrstuvwxyz"),
	"digits":     []rune("0123456789"),
}

// Get returns the ordered symbol list for a named preset.
func Get(name string) ([]rune, error) {
	key := strings.TrimSpace(strings.ToLower(name))
	if key == "" {
		key = DefaultName
	}
	symbols, ok := presets[key]
	if !ok {
		return nil, fmt.Errorf("unknown alphabet %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	out := make([]rune, len(symbols))
	copy(out, symbols)
	return out, nil
}

// Names lists the available preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
