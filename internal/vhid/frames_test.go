package vhid

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeHeartbeat(t *testing.T) {
	frame := EncodeHeartbeat(5 * time.Second)

	require.Len(t, frame, 5)
	require.Equal(t, byte(0x00), frame[0])
	require.Equal(t, uint32(5000), binary.LittleEndian.Uint32(frame[1:5]))
}

func TestEncodeRequestFraming(t *testing.T) {
	payload := []byte{0xaa, 0xbb}
	frame := EncodeRequest(RequestPostPointingReport, payload)

	require.Len(t, frame, 8)
	require.Equal(t, byte(0x01), frame[0])
	require.Equal(t, byte('c'), frame[1])
	require.Equal(t, byte('p'), frame[2])
	require.Equal(t, uint16(ProtocolVersion), binary.LittleEndian.Uint16(frame[3:5]))
	require.Equal(t, byte(RequestPostPointingReport), frame[5])
	require.Equal(t, payload, frame[6:])
}

func TestEncodeRequestNoPayload(t *testing.T) {
	frame := EncodeRequest(RequestPointingInitialize, nil)

	require.Len(t, frame, 6)
	require.Equal(t, byte(0x01), frame[0])
	require.Equal(t, byte(RequestPointingInitialize), frame[5])
}

func TestRequestTypeCodes(t *testing.T) {
	require.Equal(t, RequestType(1), RequestKeyboardInitialize)
	require.Equal(t, RequestType(6), RequestPointingReset)
	require.Equal(t, RequestType(7), RequestPostKeyboardReport)
	require.Equal(t, RequestType(11), RequestPostPointingReport)
	require.Equal(t, RequestType(12), RequestPostGenericDesktopReport)
}

func TestParseFrameHeartbeatEcho(t *testing.T) {
	frame, err := ParseFrame([]byte{0x00, 0x88, 0x13, 0x00, 0x00})
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
}

func TestParseFrameUserData(t *testing.T) {
	frame, err := ParseFrame([]byte{0x01, byte(ResponseKeyboardReady), 0x01})
	require.NoError(t, err)
	require.False(t, frame.Heartbeat)
	require.Equal(t, ResponseKeyboardReady, frame.Response)
	require.True(t, frame.HasValue)
	require.Equal(t, byte(1), frame.Value)
}

func TestParseFrameUserDataWithoutValue(t *testing.T) {
	frame, err := ParseFrame([]byte{0x01, byte(ResponseDriverConnected)})
	require.NoError(t, err)
	require.Equal(t, ResponseDriverConnected, frame.Response)
	require.False(t, frame.HasValue)
}

func TestParseFrameErrors(t *testing.T) {
	_, err := ParseFrame(nil)
	require.Error(t, err)

	_, err = ParseFrame([]byte{0x01})
	require.Error(t, err)

	_, err = ParseFrame([]byte{0x7f, 0x01})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown framing tag")
}
