package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsClean(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateEmptyGroupWarns(t *testing.T) {
	cfg := Default()
	cfg.Dispatch.SocketGroup = ""

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "socket_group")
}

func TestValidateRejectsDeadlineBelowInterval(t *testing.T) {
	cfg := Default()
	cfg.Driver.HeartbeatInterval = 5 * time.Second
	cfg.Driver.HeartbeatDeadline = 3 * time.Second

	_, err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "heartbeat_deadline_ms")
}

func TestValidateRejectsEmptySocketPath(t *testing.T) {
	cfg := Default()
	cfg.Dispatch.SocketPath = "  "

	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsZeroSwipeSteps(t *testing.T) {
	cfg := Default()
	cfg.Gesture.SwipeSteps = 0

	_, err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "swipe_steps")
}
