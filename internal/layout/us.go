package layout

import "github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"

// HID usage codes on the keyboard/keypad page used by the builtin table and
// the named-key lookup.
const (
	keyA uint16 = 0x04
	key1 uint16 = 0x1e
	key0 uint16 = 0x27

	KeyReturn    uint16 = 0x28
	KeyEscape    uint16 = 0x29
	KeyBackspace uint16 = 0x2a
	KeyTab       uint16 = 0x2b
	KeySpace     uint16 = 0x2c

	keyHyphen       uint16 = 0x2d
	keyEquals       uint16 = 0x2e
	keyOpenBracket  uint16 = 0x2f
	keyCloseBracket uint16 = 0x30
	keyBackslash    uint16 = 0x31
	keySemicolon    uint16 = 0x33
	keyQuote        uint16 = 0x34
	keyGrave        uint16 = 0x35
	keyComma        uint16 = 0x36
	keyPeriod       uint16 = 0x37
	keySlash        uint16 = 0x38

	KeyHome          uint16 = 0x4a
	KeyPageUp        uint16 = 0x4b
	KeyDeleteForward uint16 = 0x4c
	KeyEnd           uint16 = 0x4d
	KeyPageDown      uint16 = 0x4e
	KeyRightArrow    uint16 = 0x4f
	KeyLeftArrow     uint16 = 0x50
	KeyDownArrow     uint16 = 0x51
	KeyUpArrow       uint16 = 0x52
)

const shift = hidreport.ModifierSet(hidreport.ModifierLeftShift)

// USANSI returns the builtin US-ANSI layout table covering printable ASCII.
// It carries no dead keys; localized tables with dead-key sequences come
// from an external table file.
func USANSI() Table {
	table := Table{}

	direct := func(r rune, keycode uint16) {
		table[r] = Mapping{Steps: []Step{{Keycode: keycode}}}
	}
	shifted := func(r rune, keycode uint16) {
		table[r] = Mapping{Steps: []Step{{Keycode: keycode, Modifiers: shift}}}
	}

	for i := 0; i < 26; i++ {
		direct(rune('a'+i), keyA+uint16(i))
		shifted(rune('A'+i), keyA+uint16(i))
	}
	for i := 0; i < 9; i++ {
		direct(rune('1'+i), key1+uint16(i))
	}
	direct('0', key0)

	direct(' ', KeySpace)
	direct('\n', KeyReturn)
	direct('\t', KeyTab)

	direct('-', keyHyphen)
	direct('=', keyEquals)
	direct('[', keyOpenBracket)
	direct(']', keyCloseBracket)
	direct('\\', keyBackslash)
	direct(';', keySemicolon)
	direct('\'', keyQuote)
	direct('`', keyGrave)
	direct(',', keyComma)
	direct('.', keyPeriod)
	direct('/', keySlash)

	shifted('!', key1)
	shifted('@', key1+1)
	shifted('#', key1+2)
	shifted('$', key1+3)
	shifted('%', key1+4)
	shifted('^', key1+5)
	shifted('&', key1+6)
	shifted('*', key1+7)
	shifted('(', key1+8)
	shifted(')', key0)
	shifted('_', keyHyphen)
	shifted('+', keyEquals)
	shifted('{', keyOpenBracket)
	shifted('}', keyCloseBracket)
	shifted('|', keyBackslash)
	shifted(':', keySemicolon)
	shifted('"', keyQuote)
	shifted('~', keyGrave)
	shifted('<', keyComma)
	shifted('>', keyPeriod)
	shifted('?', keySlash)

	return table
}
