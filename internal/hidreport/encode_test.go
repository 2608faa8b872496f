package hidreport

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodePointingReportOffsets(t *testing.T) {
	report := PointingReport{
		Buttons:         0x00000001,
		DX:              -5,
		DY:              7,
		VerticalWheel:   -1,
		HorizontalWheel: 3,
	}

	buf := EncodePointingReport(report)
	require.Len(t, buf, PointingReportSize)
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[0:4]))
	require.Equal(t, int8(-5), int8(buf[4]))
	require.Equal(t, int8(7), int8(buf[5]))
	require.Equal(t, int8(-1), int8(buf[6]))
	require.Equal(t, int8(3), int8(buf[7]))
}

func TestEncodeKeyboardReportOffsets(t *testing.T) {
	report := NewKeyboardReport()
	report.Modifiers = ModifierSet(0).With(ModifierLeftShift).With(ModifierRightCommand)
	require.True(t, report.InsertKey(0x04))
	require.True(t, report.InsertKey(0x2c))

	buf := EncodeKeyboardReport(report)
	require.Len(t, buf, 67)
	require.Equal(t, byte(KeyboardReportID), buf[0])
	require.Equal(t, byte(0x82), buf[1])
	require.Equal(t, byte(0), buf[2])
	require.Equal(t, uint16(0x04), binary.LittleEndian.Uint16(buf[3:5]))
	require.Equal(t, uint16(0x2c), binary.LittleEndian.Uint16(buf[5:7]))
	for i := 2; i < KeyboardKeySlots; i++ {
		require.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[3+2*i:5+2*i]), "slot %d", i)
	}
}

func TestEncodeKeyboardReportSizeIndependentOfSlots(t *testing.T) {
	empty := NewKeyboardReport()
	require.Len(t, EncodeKeyboardReport(empty), KeyboardReportSize)

	full := NewKeyboardReport()
	for i := 0; i < KeyboardKeySlots; i++ {
		require.True(t, full.InsertKey(uint16(i+4)))
	}
	require.False(t, full.InsertKey(0xff))
	require.Len(t, EncodeKeyboardReport(full), KeyboardReportSize)
}

func TestInsertKeyFirstFitAllowsDuplicates(t *testing.T) {
	report := NewKeyboardReport()
	require.True(t, report.InsertKey(0x0b))
	require.True(t, report.InsertKey(0x0b))

	require.Equal(t, uint16(0x0b), report.Keys[0])
	require.Equal(t, uint16(0x0b), report.Keys[1])
	require.Equal(t, uint16(0), report.Keys[2])
}

func TestEncodeKeyboardParameters(t *testing.T) {
	params := DefaultKeyboardParameters()
	buf := EncodeKeyboardParameters(params)

	require.Len(t, buf, 24)
	require.Equal(t, uint64(0x16c0), binary.LittleEndian.Uint64(buf[0:8]))
	require.Equal(t, uint64(0x27db), binary.LittleEndian.Uint64(buf[8:16]))
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(buf[16:24]))
}

func TestModifierSet(t *testing.T) {
	set := ModifierSet(0).With(ModifierLeftControl).With(ModifierLeftOption)
	require.True(t, set.Has(ModifierLeftControl))
	require.True(t, set.Has(ModifierLeftOption))
	require.False(t, set.Has(ModifierLeftShift))
	require.Equal(t, ModifierSet(0x05), set)
}
