package layout

import (
	"fmt"
	"strings"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

// namedKeys resolves the key names accepted by the press_key action.
var namedKeys = map[string]uint16{
	"return":    KeyReturn,
	"enter":     KeyReturn,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"backspace": KeyBackspace,
	"delete":    KeyBackspace,
	"tab":       KeyTab,
	"space":     KeySpace,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"up":        KeyUpArrow,
	"down":      KeyDownArrow,
	"left":      KeyLeftArrow,
	"right":     KeyRightArrow,
}

// KeyByName resolves a named key or a single printable character to its HID
// usage code.
func KeyByName(name string) (uint16, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if keycode, ok := namedKeys[lower]; ok {
		return keycode, true
	}

	runes := []rune(lower)
	if len(runes) == 1 {
		if mapping, ok := USANSI().Lookup(runes[0]); ok && len(mapping.Steps) == 1 {
			return mapping.Steps[0].Keycode, true
		}
	}
	return 0, false
}

// modifierNames resolves the modifier names accepted by the press_key action.
var modifierNames = map[string]hidreport.Modifier{
	"control":       hidreport.ModifierLeftControl,
	"ctrl":          hidreport.ModifierLeftControl,
	"shift":         hidreport.ModifierLeftShift,
	"option":        hidreport.ModifierLeftOption,
	"alt":           hidreport.ModifierLeftOption,
	"command":       hidreport.ModifierLeftCommand,
	"cmd":           hidreport.ModifierLeftCommand,
	"right_control": hidreport.ModifierRightControl,
	"right_shift":   hidreport.ModifierRightShift,
	"right_option":  hidreport.ModifierRightOption,
	"right_command": hidreport.ModifierRightCommand,
}

// ParseModifiers folds a list of modifier names into one bitmask.
func ParseModifiers(names []string) (hidreport.ModifierSet, error) {
	var set hidreport.ModifierSet
	for _, name := range names {
		modifier, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
		set = set.With(modifier)
	}
	return set, nil
}
