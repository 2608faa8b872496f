// Package fsm models the driver-connection lifecycle as a pure transition function.
package fsm

import "fmt"

type State string

type Event string

const (
	StateDisconnected State = "disconnected"
	StateDiscovering  State = "discovering"
	StateConnected    State = "connected"
	StateReady        State = "ready"
)

const (
	EventDiscover     Event = "discover"
	EventConnect      Event = "connect"
	EventDevicesReady Event = "devices_ready"
	EventFail         Event = "fail"
	EventShutdown     Event = "shutdown"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail || event == EventShutdown {
		return StateDisconnected, nil
	}

	switch current {
	case StateDisconnected:
		switch event {
		case EventDiscover:
			return StateDiscovering, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDiscovering:
		switch event {
		case EventConnect:
			return StateConnected, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateConnected:
		switch event {
		case EventDevicesReady:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateReady:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
