// Package dispatch exposes the gesture synthesizer over a local stream
// socket speaking one JSON request and one JSON response per line.
package dispatch

import (
	"fmt"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
)

// Action tags one command request.
type Action string

const (
	ActionClick     Action = "click"
	ActionLongPress Action = "long_press"
	ActionDoubleTap Action = "double_tap"
	ActionDrag      Action = "drag"
	ActionSwipe     Action = "swipe"
	ActionMove      Action = "move"
	ActionType      Action = "type"
	ActionPressKey  Action = "press_key"
	ActionShake     Action = "shake"
	ActionStatus    Action = "status"
)

// Request is the open envelope one line decodes into. Optional fields are
// pointers so each action variant can tell absent from zero and fail at
// decode time instead of inside a handler.
type Request struct {
	Action Action `json:"action"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	FromX *float64 `json:"from_x,omitempty"`
	FromY *float64 `json:"from_y,omitempty"`
	ToX   *float64 `json:"to_x,omitempty"`
	ToY   *float64 `json:"to_y,omitempty"`

	DurationMS *int `json:"duration_ms,omitempty"`

	DX *int `json:"dx,omitempty"`
	DY *int `json:"dy,omitempty"`

	Text   *string  `json:"text,omitempty"`
	FocusX *float64 `json:"focus_x,omitempty"`
	FocusY *float64 `json:"focus_y,omitempty"`

	Key       *string  `json:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// point extracts the mandatory absolute target of the single-point actions.
func (r Request) point() (cursor.Point, error) {
	if r.X == nil || r.Y == nil {
		return cursor.Point{}, fmt.Errorf("action %q requires x and y", r.Action)
	}
	return cursor.Point{X: *r.X, Y: *r.Y}, nil
}

// path extracts the mandatory endpoints of the two-point actions.
func (r Request) path() (cursor.Point, cursor.Point, error) {
	if r.FromX == nil || r.FromY == nil || r.ToX == nil || r.ToY == nil {
		return cursor.Point{}, cursor.Point{}, fmt.Errorf("action %q requires from_x, from_y, to_x, to_y", r.Action)
	}
	from := cursor.Point{X: *r.FromX, Y: *r.FromY}
	to := cursor.Point{X: *r.ToX, Y: *r.ToY}
	return from, to, nil
}

// focus extracts the optional focus point of the type action; giving only
// one coordinate is a decode failure.
func (r Request) focus() (*cursor.Point, error) {
	if r.FocusX == nil && r.FocusY == nil {
		return nil, nil
	}
	if r.FocusX == nil || r.FocusY == nil {
		return nil, fmt.Errorf("action %q requires focus_x and focus_y together", r.Action)
	}
	return &cursor.Point{X: *r.FocusX, Y: *r.FocusY}, nil
}

// StatusPayload reports session state for the status action.
type StatusPayload struct {
	State         string `json:"state"`
	Connected     bool   `json:"connected"`
	KeyboardReady bool   `json:"keyboard_ready"`
	PointingReady bool   `json:"pointing_ready"`
	ServerSocket  string `json:"server_socket,omitempty"`
}

// Response is the single JSON object answering one request.
type Response struct {
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
	Skipped []string       `json:"skipped,omitempty"`
	Status  *StatusPayload `json:"status,omitempty"`
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
