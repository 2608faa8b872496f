// Package hidreport defines the fixed-layout HID reports exchanged with the
// virtual HID driver daemon and their wire encodings.
package hidreport

// Modifier is one bit in the standard 8-bit HID keyboard modifier byte.
type Modifier uint8

const (
	ModifierLeftControl  Modifier = 0x01
	ModifierLeftShift    Modifier = 0x02
	ModifierLeftOption   Modifier = 0x04
	ModifierLeftCommand  Modifier = 0x08
	ModifierRightControl Modifier = 0x10
	ModifierRightShift   Modifier = 0x20
	ModifierRightOption  Modifier = 0x40
	ModifierRightCommand Modifier = 0x80
)

// ModifierSet is a bitmask over the eight standard keyboard modifiers.
type ModifierSet uint8

// With returns the set with the given modifier bit added.
func (s ModifierSet) With(m Modifier) ModifierSet {
	return s | ModifierSet(m)
}

// Has reports whether the modifier bit is present in the set.
func (s ModifierSet) Has(m Modifier) bool {
	return s&ModifierSet(m) != 0
}

// PointingReport is one relative pointing-device report.
type PointingReport struct {
	Buttons         uint32
	DX              int8
	DY              int8
	VerticalWheel   int8
	HorizontalWheel int8
}

// KeyboardKeySlots is the number of simultaneous key slots in a keyboard report.
const KeyboardKeySlots = 32

// KeyboardReport is one keyboard report. The zero value with all key slots
// empty is the release-everything report.
type KeyboardReport struct {
	ReportID  uint8
	Modifiers ModifierSet
	Reserved  uint8
	Keys      [KeyboardKeySlots]uint16
}

// KeyboardReportID is the report ID carried by every keyboard report.
const KeyboardReportID = 1

// NewKeyboardReport returns an empty keyboard report with the standard report ID.
func NewKeyboardReport() KeyboardReport {
	return KeyboardReport{ReportID: KeyboardReportID}
}

// InsertKey places keycode into the first empty slot and reports whether a
// slot was free. Insertion is first-fit only: inserting a keycode that is
// already present occupies a second slot.
func (r *KeyboardReport) InsertKey(keycode uint16) bool {
	for i := range r.Keys {
		if r.Keys[i] == 0 {
			r.Keys[i] = keycode
			return true
		}
	}
	return false
}

// KeyboardParameters are the virtual keyboard creation parameters. The vendor
// and product IDs matter: a non-matching vendor ID produces a virtual device
// that the OS attaches to a different driver stack which never generates
// keyboard events. That failure mode is silent at this layer.
type KeyboardParameters struct {
	VendorID    uint64
	ProductID   uint64
	CountryCode uint64
}

// DefaultKeyboardParameters returns the parameter values the driver daemon
// pairs with its keyboard-event driver stack.
func DefaultKeyboardParameters() KeyboardParameters {
	return KeyboardParameters{
		VendorID:    0x16c0,
		ProductID:   0x27db,
		CountryCode: 0,
	}
}
