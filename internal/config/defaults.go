package config

import "time"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Driver: DriverConfig{
			ServerSocketDir: "/Library/Application Support/org.pqrs/tmp/rootonly/vhidd_server",
			ClientSocketDir: "/Library/Application Support/org.pqrs/tmp/rootonly/vhidd_client",

			ReceiveTimeout:    200 * time.Millisecond,
			HeartbeatInterval: 3 * time.Second,
			HeartbeatDeadline: 5 * time.Second,
			SettleDelay:       100 * time.Millisecond,
			ReadyDeadline:     10 * time.Second,
			MonitorInterval:   3 * time.Second,
		},
		Dispatch: DispatchConfig{
			SocketPath:  "/var/run/mirroirhidd.sock",
			SocketGroup: "staff",
		},
		Gesture: GestureConfig{
			TapHold:          80 * time.Millisecond,
			LongPressDefault: 500 * time.Millisecond,
			DoubleTapHold:    40 * time.Millisecond,
			DoubleTapGap:     50 * time.Millisecond,

			DragInitialHold:     150 * time.Millisecond,
			DragDefaultDuration: 500 * time.Millisecond,
			DragSteps:           60,

			SwipeDefaultDuration: 300 * time.Millisecond,
			SwipeSteps:           20,
			SwipeWheelScale:      10,

			KeyDelay:     25 * time.Millisecond,
			DeadKeyDelay: 80 * time.Millisecond,
		},
		Layout: LayoutConfig{TablePath: ""},
	}
}
