package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Driver.ServerSocketDir) == "" {
		return nil, fmt.Errorf("driver.server_socket_dir must not be empty")
	}
	if strings.TrimSpace(cfg.Driver.ClientSocketDir) == "" {
		return nil, fmt.Errorf("driver.client_socket_dir must not be empty")
	}
	if cfg.Driver.ReceiveTimeout <= 0 {
		return nil, fmt.Errorf("driver.receive_timeout_ms must be > 0")
	}
	if cfg.Driver.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("driver.heartbeat_interval_ms must be > 0")
	}
	if cfg.Driver.HeartbeatDeadline <= cfg.Driver.HeartbeatInterval {
		return nil, fmt.Errorf("driver.heartbeat_deadline_ms must exceed driver.heartbeat_interval_ms")
	}
	if cfg.Driver.SettleDelay < 0 {
		return nil, fmt.Errorf("driver.settle_delay_ms must be >= 0")
	}
	if cfg.Driver.ReadyDeadline <= 0 {
		return nil, fmt.Errorf("driver.ready_deadline_ms must be > 0")
	}
	if cfg.Driver.MonitorInterval <= 0 {
		return nil, fmt.Errorf("driver.monitor_interval_ms must be > 0")
	}

	if strings.TrimSpace(cfg.Dispatch.SocketPath) == "" {
		return nil, fmt.Errorf("dispatch.socket_path must not be empty")
	}
	if strings.TrimSpace(cfg.Dispatch.SocketGroup) == "" {
		warnings = append(warnings, Warning{Message: "dispatch.socket_group is empty; socket group ownership will not be adjusted"})
	}

	if cfg.Gesture.TapHold <= 0 {
		return nil, fmt.Errorf("gesture.tap_hold_ms must be > 0")
	}
	if cfg.Gesture.LongPressDefault <= 0 {
		return nil, fmt.Errorf("gesture.long_press_default_ms must be > 0")
	}
	if cfg.Gesture.DoubleTapHold <= 0 || cfg.Gesture.DoubleTapGap <= 0 {
		return nil, fmt.Errorf("gesture double-tap timings must be > 0")
	}
	if cfg.Gesture.DragSteps <= 0 {
		return nil, fmt.Errorf("gesture.drag_steps must be > 0")
	}
	if cfg.Gesture.SwipeSteps <= 0 {
		return nil, fmt.Errorf("gesture.swipe_steps must be > 0")
	}
	if cfg.Gesture.SwipeWheelScale <= 0 {
		return nil, fmt.Errorf("gesture.swipe_wheel_scale must be > 0")
	}
	if cfg.Gesture.KeyDelay < 0 || cfg.Gesture.DeadKeyDelay < 0 {
		return nil, fmt.Errorf("gesture key delays must be >= 0")
	}

	return warnings, nil
}
