package dispatch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/gesture"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/layout"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/vhid"
)

// Gestures is the synthesizer surface the dispatcher invokes.
type Gestures interface {
	Click(cursor.Point) error
	LongPress(cursor.Point, time.Duration) error
	DoubleTap(cursor.Point) error
	Drag(from, to cursor.Point, duration time.Duration) error
	Swipe(from, to cursor.Point, duration time.Duration) error
	Move(dx, dy int) error
	Type(text string, focus *cursor.Point) (gesture.TypeResult, error)
	PressKey(keycode uint16, modifiers hidreport.ModifierSet) error
	Shake() error
}

// Dispatcher translates one decoded request into one synthesizer invocation.
type Dispatcher struct {
	logger   *slog.Logger
	gestures Gestures
	status   func() vhid.Status
}

// NewDispatcher constructs a dispatcher; status may be nil when no driver
// session exists yet.
func NewDispatcher(logger *slog.Logger, gestures Gestures, status func() vhid.Status) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if status == nil {
		status = func() vhid.Status { return vhid.Status{} }
	}
	return &Dispatcher{
		logger:   logger.With("component", "dispatch"),
		gestures: gestures,
		status:   status,
	}
}

// Handle decodes one request line and runs it. Validation failures answer
// without touching the synthesizer.
func (d *Dispatcher) Handle(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{OK: false, Error: fmt.Sprintf("decode request: %v", err)}
	}

	switch req.Action {
	case ActionClick:
		point, err := req.point()
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.Click(point))

	case ActionLongPress:
		point, err := req.point()
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.LongPress(point, duration(req.DurationMS)))

	case ActionDoubleTap:
		point, err := req.point()
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.DoubleTap(point))

	case ActionDrag:
		from, to, err := req.path()
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.Drag(from, to, duration(req.DurationMS)))

	case ActionSwipe:
		from, to, err := req.path()
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.Swipe(from, to, duration(req.DurationMS)))

	case ActionMove:
		if req.DX == nil || req.DY == nil {
			return errorResponse(fmt.Errorf("action %q requires dx and dy", req.Action))
		}
		return d.result(req.Action, d.gestures.Move(*req.DX, *req.DY))

	case ActionType:
		if req.Text == nil {
			return errorResponse(fmt.Errorf("action %q requires text", req.Action))
		}
		focus, err := req.focus()
		if err != nil {
			return errorResponse(err)
		}
		result, err := d.gestures.Type(*req.Text, focus)
		if err != nil {
			d.logger.Warn("action failed", "action", req.Action, "error", err.Error())
			return errorResponse(err)
		}
		return Response{OK: true, Skipped: result.Skipped}

	case ActionPressKey:
		if req.Key == nil {
			return errorResponse(fmt.Errorf("action %q requires key", req.Action))
		}
		keycode, ok := layout.KeyByName(*req.Key)
		if !ok {
			return errorResponse(fmt.Errorf("unknown key %q", *req.Key))
		}
		modifiers, err := layout.ParseModifiers(req.Modifiers)
		if err != nil {
			return errorResponse(err)
		}
		return d.result(req.Action, d.gestures.PressKey(keycode, modifiers))

	case ActionShake:
		return d.result(req.Action, d.gestures.Shake())

	case ActionStatus:
		status := d.status()
		return Response{OK: true, Status: &StatusPayload{
			State:         string(status.State),
			Connected:     status.Connected,
			KeyboardReady: status.KeyboardReady,
			PointingReady: status.PointingReady,
			ServerSocket:  status.ServerSocket,
		}}

	default:
		return errorResponse(fmt.Errorf("unknown action %q", req.Action))
	}
}

func (d *Dispatcher) result(action Action, err error) Response {
	if err != nil {
		d.logger.Warn("action failed", "action", action, "error", err.Error())
		return errorResponse(err)
	}
	return Response{OK: true}
}

// duration converts an optional millisecond count; absent or non-positive
// values let the synthesizer apply its default.
func duration(ms *int) time.Duration {
	if ms == nil || *ms <= 0 {
		return 0
	}
	return time.Duration(*ms) * time.Millisecond
}
