package gesture

import (
	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

// TypeResult reports the characters the layout table could not map. Skipped
// characters are success-with-warning, not failure.
type TypeResult struct {
	Skipped []string
}

// Type synthesizes keystrokes for text. Direct characters produce one
// down/up pair; dead-key characters produce their full sequence with the
// longer inter-step settle delay. Unmapped characters are skipped and
// reported, never aborting the rest of the string.
//
// When a focus point is given it is clicked first, and the pointer is
// deliberately parked there with the mouse association still disabled until
// the last character has been typed. Restoring between the focus click and
// the first keystroke would reopen a window where another window steals
// focus.
func (s *Synthesizer) Type(text string, focus *cursor.Point) (TypeResult, error) {
	if !s.transport.KeyboardReady() {
		return TypeResult{}, ErrKeyboardNotReady
	}
	if focus != nil && !s.transport.PointingReady() {
		return TypeResult{}, ErrPointingNotReady
	}

	restore := func() {}
	if focus != nil {
		saved := s.cursor.Position()
		s.cursor.SetAssociationEnabled(false)
		restore = func() {
			s.cursor.WarpTo(saved)
			s.cursor.SetAssociationEnabled(true)
		}

		s.cursor.WarpTo(*focus)
		s.nudge()
		s.buttonDown()
		s.sleep(s.timing.TapHold)
		s.buttonUp()
	}
	defer restore()

	var skipped []string
	for _, r := range text {
		mapping, ok := s.layout.Lookup(r)
		if !ok {
			skipped = append(skipped, string(r))
			continue
		}

		delay := s.timing.KeyDelay
		if mapping.DeadKey {
			delay = s.timing.DeadKeyDelay
		}
		for _, step := range mapping.Steps {
			s.keyStroke(step.Keycode, step.Modifiers)
			s.sleep(delay)
		}
	}

	if len(skipped) > 0 {
		s.logger.Warn("characters not in layout table", "skipped", skipped)
	}
	return TypeResult{Skipped: skipped}, nil
}

// PressKey synthesizes one down/up pair for a single key with modifiers.
func (s *Synthesizer) PressKey(keycode uint16, modifiers hidreport.ModifierSet) error {
	if !s.transport.KeyboardReady() {
		return ErrKeyboardNotReady
	}
	s.keyStroke(keycode, modifiers)
	return nil
}

// shakeChord is the fixed modifier chord that the mirrored session maps to a
// device shake.
var shakeChord = struct {
	keycode   uint16
	modifiers hidreport.ModifierSet
}{
	keycode: 0x1d, // z
	modifiers: hidreport.ModifierSet(0).
		With(hidreport.ModifierLeftControl).
		With(hidreport.ModifierLeftCommand),
}

// Shake posts the shake chord as one report pair.
func (s *Synthesizer) Shake() error {
	if !s.transport.KeyboardReady() {
		return ErrKeyboardNotReady
	}
	s.keyStroke(shakeChord.keycode, shakeChord.modifiers)
	return nil
}
