// Package vhid implements the datagram wire protocol spoken to the virtual
// HID driver daemon: discovery, connection, heartbeat, the device-ready
// handshake, and report submission.
package vhid

import (
	"encoding/binary"
	"fmt"
	"time"
)

// ProtocolVersion is the wire protocol version carried by every user-data
// frame. The daemon answers a confirmed mismatch with a version-status
// response, which is fatal: it signals a binary-incompatible daemon.
const ProtocolVersion = 5

const (
	frameTagHeartbeat = 0x00
	frameTagUserData  = 0x01
)

// userDataMagic follows the framing tag on every outbound user-data frame.
var userDataMagic = [2]byte{'c', 'p'}

// HeartbeatSize is the exact size of a heartbeat frame.
const HeartbeatSize = 5

// userDataHeaderSize covers tag, magic, version, and request type.
const userDataHeaderSize = 6

// RequestType identifies one request in a user-data frame.
type RequestType uint8

const (
	RequestKeyboardInitialize RequestType = iota + 1
	RequestKeyboardTerminate
	RequestKeyboardReset
	RequestPointingInitialize
	RequestPointingTerminate
	RequestPointingReset
	RequestPostKeyboardReport
	RequestPostConsumerReport
	RequestPostVendorKeyboardReport
	RequestPostVendorTopCaseReport
	RequestPostPointingReport
	RequestPostGenericDesktopReport
)

// ResponseType identifies one response in an inbound user-data frame.
type ResponseType uint8

const (
	ResponseDriverActivated ResponseType = iota + 1
	ResponseDriverConnected
	ResponseVersionStatus
	ResponseKeyboardReady
	ResponsePointingReady
)

// EncodeHeartbeat builds the 5-byte heartbeat frame carrying the deadline in
// milliseconds after which the daemon may assume this client is gone.
func EncodeHeartbeat(deadline time.Duration) []byte {
	buf := make([]byte, HeartbeatSize)
	buf[0] = frameTagHeartbeat
	binary.LittleEndian.PutUint32(buf[1:5], uint32(deadline.Milliseconds()))
	return buf
}

// EncodeRequest builds one framed user-data request: framing tag, 2-byte
// magic, little-endian protocol version, request type, then the payload.
func EncodeRequest(requestType RequestType, payload []byte) []byte {
	buf := make([]byte, 0, userDataHeaderSize+len(payload))
	buf = append(buf, frameTagUserData, userDataMagic[0], userDataMagic[1])
	buf = binary.LittleEndian.AppendUint16(buf, ProtocolVersion)
	buf = append(buf, byte(requestType))
	buf = append(buf, payload...)
	return buf
}

// Frame is one parsed inbound datagram.
type Frame struct {
	Heartbeat bool
	Response  ResponseType
	Value     byte
	HasValue  bool
}

// ParseFrame decodes one inbound datagram. Byte 0 selects the framing layer:
// heartbeat echoes carry no further meaning, user-data frames carry a
// response type and an optional tag-specific value byte.
func ParseFrame(buf []byte) (Frame, error) {
	if len(buf) == 0 {
		return Frame{}, fmt.Errorf("empty frame")
	}

	switch buf[0] {
	case frameTagHeartbeat:
		return Frame{Heartbeat: true}, nil
	case frameTagUserData:
		if len(buf) < 2 {
			return Frame{}, fmt.Errorf("user-data frame truncated: %d bytes", len(buf))
		}
		frame := Frame{Response: ResponseType(buf[1])}
		if len(buf) >= 3 {
			frame.Value = buf[2]
			frame.HasValue = true
		}
		return frame, nil
	default:
		return Frame{}, fmt.Errorf("unknown framing tag 0x%02x", buf[0])
	}
}
