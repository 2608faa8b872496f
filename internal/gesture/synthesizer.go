// Package gesture turns high-level touch and keyboard actions into ordered,
// timed sequences of low-level HID reports posted to the virtual devices.
package gesture

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/layout"
)

// ErrPointingNotReady rejects pointer gestures before any report is posted.
var ErrPointingNotReady = errors.New("virtual pointing device is not ready")

// ErrKeyboardNotReady rejects keyboard gestures before any report is posted.
var ErrKeyboardNotReady = errors.New("virtual keyboard is not ready")

// Transport is the report-submission surface the synthesizer depends on.
type Transport interface {
	PostPointingReport(hidreport.PointingReport) bool
	PostKeyboardReport(hidreport.KeyboardReport) bool
	KeyboardReady() bool
	PointingReady() bool
}

// Timing bundles the gesture timing constants. The values were tuned against
// the gesture-recognition thresholds of the mirrored session; the double-tap
// pair in particular must complete inside the ~300ms recognition window.
type Timing struct {
	TapHold          time.Duration
	LongPressDefault time.Duration
	LongPressFloor   time.Duration
	DoubleTapHold    time.Duration
	DoubleTapGap     time.Duration

	DragInitialHold     time.Duration
	DragDefaultDuration time.Duration
	DragSteps           int

	SwipeDefaultDuration time.Duration
	SwipeSteps           int
	SwipeWheelScale      float64

	NudgeSettle  time.Duration
	KeyDelay     time.Duration
	DeadKeyDelay time.Duration
}

// DefaultTiming returns the tuned gesture constants.
func DefaultTiming() Timing {
	return Timing{
		TapHold:          80 * time.Millisecond,
		LongPressDefault: 500 * time.Millisecond,
		LongPressFloor:   100 * time.Millisecond,
		DoubleTapHold:    40 * time.Millisecond,
		DoubleTapGap:     50 * time.Millisecond,

		DragInitialHold:     150 * time.Millisecond,
		DragDefaultDuration: 500 * time.Millisecond,
		DragSteps:           60,

		SwipeDefaultDuration: 300 * time.Millisecond,
		SwipeSteps:           20,
		SwipeWheelScale:      10,

		NudgeSettle:  20 * time.Millisecond,
		KeyDelay:     25 * time.Millisecond,
		DeadKeyDelay: 80 * time.Millisecond,
	}
}

// noopCursor preserves gesture flow when no pointer controller is wired.
type noopCursor struct{}

func (noopCursor) Position() cursor.Point     { return cursor.Point{} }
func (noopCursor) WarpTo(cursor.Point)        {}
func (noopCursor) SetAssociationEnabled(bool) {}

// Synthesizer composes gesture primitives on top of a report transport, a
// pointer controller, and a keyboard layout table. Gestures are synchronous
// and never overlap; the dispatch layer serializes callers.
type Synthesizer struct {
	logger    *slog.Logger
	transport Transport
	cursor    cursor.Controller
	layout    layout.Table
	timing    Timing
	sleep     func(time.Duration)
}

// New constructs a synthesizer with safe default fallbacks.
func New(
	logger *slog.Logger,
	transport Transport,
	pointerCtl cursor.Controller,
	table layout.Table,
	timing Timing,
) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	if pointerCtl == nil {
		pointerCtl = noopCursor{}
	}
	if table == nil {
		table = layout.USANSI()
	}
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}

	return &Synthesizer{
		logger:    logger.With("component", "gesture"),
		transport: transport,
		cursor:    pointerCtl,
		layout:    table,
		timing:    timing,
		sleep:     time.Sleep,
	}
}

// withCursorSync runs fn inside the cursor-sync bracket: pointer association
// disabled, pointer warped to target, virtual device resynchronized with a
// nudge, and the original pointer position and association restored on every
// exit path.
func (s *Synthesizer) withCursorSync(target cursor.Point, fn func()) {
	saved := s.cursor.Position()
	s.cursor.SetAssociationEnabled(false)
	defer func() {
		s.cursor.WarpTo(saved)
		s.cursor.SetAssociationEnabled(true)
	}()

	s.cursor.WarpTo(target)
	s.nudge()
	fn()
}

// nudge sends a +1/-1 wiggle on the virtual pointing device so the driver's
// internal position catches up with a pointer warp it did not perform.
func (s *Synthesizer) nudge() {
	s.transport.PostPointingReport(hidreport.PointingReport{DX: 1})
	s.sleep(s.timing.NudgeSettle)
	s.transport.PostPointingReport(hidreport.PointingReport{DX: -1})
}

func (s *Synthesizer) buttonDown() {
	s.transport.PostPointingReport(hidreport.PointingReport{Buttons: 1})
}

func (s *Synthesizer) buttonUp() {
	s.transport.PostPointingReport(hidreport.PointingReport{})
}

// keyStroke posts one key-down report followed by the release-everything
// report.
func (s *Synthesizer) keyStroke(keycode uint16, modifiers hidreport.ModifierSet) {
	down := hidreport.NewKeyboardReport()
	down.Modifiers = modifiers
	down.InsertKey(keycode)
	s.transport.PostKeyboardReport(down)
	s.transport.PostKeyboardReport(hidreport.NewKeyboardReport())
}

func clampInt8(v float64) int8 {
	switch {
	case v > 127:
		return 127
	case v < -127:
		return -127
	default:
		return int8(v)
	}
}
