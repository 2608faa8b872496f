package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseJSONCOverlaysOnlyProvidedKeys(t *testing.T) {
	content := `{
		// faster handshake for tests
		"driver": {
			"heartbeat_interval_ms": 1000,
			"heartbeat_deadline_ms": 2000,
		},
		"dispatch": {
			"socket_path": "/tmp/hid.sock",
		},
		"gesture": {
			"swipe_wheel_scale": 4.5,
		},
	}`

	cfg, warnings, err := Parse(content, Default())
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, time.Second, cfg.Driver.HeartbeatInterval)
	require.Equal(t, 2*time.Second, cfg.Driver.HeartbeatDeadline)
	require.Equal(t, "/tmp/hid.sock", cfg.Dispatch.SocketPath)
	require.Equal(t, 4.5, cfg.Gesture.SwipeWheelScale)

	// untouched keys keep defaults
	require.Equal(t, Default().Driver.ServerSocketDir, cfg.Driver.ServerSocketDir)
	require.Equal(t, Default().Gesture.DragSteps, cfg.Gesture.DragSteps)
	require.Equal(t, "staff", cfg.Dispatch.SocketGroup)
}

func TestParseJSONCStripsBlockComments(t *testing.T) {
	content := `{
		/* driver tuning
		   spans lines */
		"driver": {"settle_delay_ms": 50}
	}`

	cfg, _, err := Parse(content, Default())
	require.NoError(t, err)
	require.Equal(t, 50*time.Millisecond, cfg.Driver.SettleDelay)
}

func TestParseJSONCRejectsUnknownKeys(t *testing.T) {
	_, _, err := Parse(`{"drvier": {}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCReportsLineAndColumn(t *testing.T) {
	content := "{\n\"driver\": {\n\"settle_delay_ms\": \"fast\"\n}\n}"

	_, _, err := Parse(content, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 3")
}

func TestParseJSONCRejectsMultipleValues(t *testing.T) {
	_, _, err := Parse(`{"driver": {}} {}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestParseEmptyContentReturnsBase(t *testing.T) {
	cfg, warnings, err := Parse("   \n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestParseRejectsNonObjectContent(t *testing.T) {
	_, _, err := Parse("driver.settle_delay_ms=50", Default())
	require.Error(t, err)
}
