// Package layout supplies the character-to-keystroke tables consumed by the
// typing primitive.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

// Step is one keystroke: a HID usage code plus held modifiers.
type Step struct {
	Keycode   uint16                `json:"keycode"`
	Modifiers hidreport.ModifierSet `json:"modifiers,omitempty"`
}

// Mapping is the ordered key sequence producing one character. Direct
// characters carry a single step. Dead-key characters carry several steps
// that the OS composes into the final character, and need a longer settle
// delay between steps.
type Mapping struct {
	Steps   []Step `json:"steps"`
	DeadKey bool   `json:"dead_key,omitempty"`
}

// Table maps characters to their key sequences for one keyboard layout.
type Table map[rune]Mapping

// Lookup returns the mapping for r when the layout has one.
func (t Table) Lookup(r rune) (Mapping, bool) {
	m, ok := t[r]
	return m, ok
}

// Load reads a layout table from a JSON file keyed by single characters.
func Load(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout table %s: %w", path, err)
	}

	var raw map[string]Mapping
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse layout table %s: %w", path, err)
	}

	table := make(Table, len(raw))
	for key, mapping := range raw {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("layout table %s: key %q is not a single character", path, key)
		}
		if len(mapping.Steps) == 0 {
			return nil, fmt.Errorf("layout table %s: key %q has no steps", path, key)
		}
		table[runes[0]] = mapping
	}
	return table, nil
}
