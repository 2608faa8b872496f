package hidreport

import "encoding/binary"

// Wire sizes for the fixed report layouts. Host struct padding never matters
// here: every encoder writes each field at its own offset.
const (
	PointingReportSize     = 8
	KeyboardReportSize     = 3 + 2*KeyboardKeySlots
	KeyboardParametersSize = 24
)

// EncodePointingReport packs a pointing report into its 8-byte wire layout.
func EncodePointingReport(r PointingReport) []byte {
	buf := make([]byte, PointingReportSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Buttons)
	buf[4] = byte(r.DX)
	buf[5] = byte(r.DY)
	buf[6] = byte(r.VerticalWheel)
	buf[7] = byte(r.HorizontalWheel)
	return buf
}

// EncodeKeyboardReport packs a keyboard report into its 67-byte wire layout:
// report ID, modifier bitmask, reserved byte, then 32 little-endian 16-bit
// key slots.
func EncodeKeyboardReport(r KeyboardReport) []byte {
	buf := make([]byte, KeyboardReportSize)
	buf[0] = r.ReportID
	buf[1] = byte(r.Modifiers)
	buf[2] = r.Reserved
	for i, key := range r.Keys {
		binary.LittleEndian.PutUint16(buf[3+2*i:], key)
	}
	return buf
}

// EncodeKeyboardParameters packs virtual keyboard creation parameters into
// three little-endian 8-byte integers.
func EncodeKeyboardParameters(p KeyboardParameters) []byte {
	buf := make([]byte, KeyboardParametersSize)
	binary.LittleEndian.PutUint64(buf[0:8], p.VendorID)
	binary.LittleEndian.PutUint64(buf[8:16], p.ProductID)
	binary.LittleEndian.PutUint64(buf[16:24], p.CountryCode)
	return buf
}
