// Package config resolves, parses, validates, and defaults mirroirhidd configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by mirroirhidd.
type Config struct {
	Driver   DriverConfig
	Dispatch DispatchConfig
	Gesture  GestureConfig
	Layout   LayoutConfig
}

// DriverConfig controls discovery of and the session with the virtual HID daemon.
type DriverConfig struct {
	ServerSocketDir string
	ClientSocketDir string

	ReceiveTimeout    time.Duration
	HeartbeatInterval time.Duration
	HeartbeatDeadline time.Duration
	SettleDelay       time.Duration
	ReadyDeadline     time.Duration
	MonitorInterval   time.Duration
}

// DispatchConfig controls the command socket the daemon serves requests on.
type DispatchConfig struct {
	SocketPath  string
	SocketGroup string
}

// GestureConfig overrides the tuned gesture timing constants.
type GestureConfig struct {
	TapHold          time.Duration
	LongPressDefault time.Duration
	DoubleTapHold    time.Duration
	DoubleTapGap     time.Duration

	DragInitialHold     time.Duration
	DragDefaultDuration time.Duration
	DragSteps           int

	SwipeDefaultDuration time.Duration
	SwipeSteps           int
	SwipeWheelScale      float64

	KeyDelay     time.Duration
	DeadKeyDelay time.Duration
}

// LayoutConfig selects the character-to-keystroke translation table.
type LayoutConfig struct {
	TablePath string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
