package gesture

import (
	"math"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

// Click performs one tap at the target point.
func (s *Synthesizer) Click(target cursor.Point) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	s.withCursorSync(target, func() {
		s.buttonDown()
		s.sleep(s.timing.TapHold)
		s.buttonUp()
	})
	return nil
}

// LongPress holds the button at the target point. A zero duration takes the
// default; anything below the floor is raised to it so the press still
// crosses the long-press recognition threshold.
func (s *Synthesizer) LongPress(target cursor.Point, duration time.Duration) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	if duration <= 0 {
		duration = s.timing.LongPressDefault
	}
	if duration < s.timing.LongPressFloor {
		duration = s.timing.LongPressFloor
	}

	s.withCursorSync(target, func() {
		s.buttonDown()
		s.sleep(duration)
		s.buttonUp()
	})
	return nil
}

// DoubleTap performs two short taps whose total time stays inside the
// double-tap recognition window.
func (s *Synthesizer) DoubleTap(target cursor.Point) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	s.withCursorSync(target, func() {
		s.buttonDown()
		s.sleep(s.timing.DoubleTapHold)
		s.buttonUp()
		s.sleep(s.timing.DoubleTapGap)
		s.buttonDown()
		s.sleep(s.timing.DoubleTapHold)
		s.buttonUp()
	})
	return nil
}

// Drag presses at from, holds long enough to trigger drag recognition, then
// moves to to in evenly spaced interpolation steps. Each step posts a small
// relative delta and warps the pointer to the interpolated point; the step
// spacing spreads the requested duration minus the initial hold across all
// steps.
func (s *Synthesizer) Drag(from, to cursor.Point, duration time.Duration) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	if duration <= 0 {
		duration = s.timing.DragDefaultDuration
	}
	steps := s.timing.DragSteps
	if steps < 1 {
		steps = 1
	}

	remaining := duration - s.timing.DragInitialHold
	if remaining < 0 {
		remaining = 0
	}
	stepDelay := remaining / time.Duration(steps)

	stepDX := clampInt8((to.X - from.X) / float64(steps))
	stepDY := clampInt8((to.Y - from.Y) / float64(steps))

	s.withCursorSync(from, func() {
		s.buttonDown()
		s.sleep(s.timing.DragInitialHold)

		for i := 1; i <= steps; i++ {
			progress := float64(i) / float64(steps)
			point := cursor.Point{
				X: from.X + (to.X-from.X)*progress,
				Y: from.Y + (to.Y-from.Y)*progress,
			}
			s.transport.PostPointingReport(hidreport.PointingReport{
				Buttons: 1,
				DX:      stepDX,
				DY:      stepDY,
			})
			s.cursor.WarpTo(point)
			s.sleep(stepDelay)
		}

		s.buttonUp()
	})
	return nil
}

// Swipe emits scroll-wheel ticks spread over the gesture duration. No button
// is held; the pointer is warped once, to the gesture midpoint, and not
// tracked along the path. Tick signs are inverted relative to the swipe
// direction because scroll convention opposes content motion. Fractional
// per-step amounts accumulate so sub-integer remainders are deferred to
// later steps, never dropped.
func (s *Synthesizer) Swipe(from, to cursor.Point, duration time.Duration) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	if duration <= 0 {
		duration = s.timing.SwipeDefaultDuration
	}
	steps := s.timing.SwipeSteps
	if steps < 1 {
		steps = 1
	}
	stepDelay := duration / time.Duration(steps)

	perStepV := -(to.Y - from.Y) / s.timing.SwipeWheelScale / float64(steps)
	perStepH := -(to.X - from.X) / s.timing.SwipeWheelScale / float64(steps)

	midpoint := cursor.Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}

	s.withCursorSync(midpoint, func() {
		var accV, accH float64
		for i := 0; i < steps; i++ {
			accV += perStepV
			accH += perStepH
			tickV := math.Trunc(accV)
			tickH := math.Trunc(accH)
			accV -= tickV
			accH -= tickH

			s.transport.PostPointingReport(hidreport.PointingReport{
				VerticalWheel:   clampInt8(tickV),
				HorizontalWheel: clampInt8(tickH),
			})
			s.sleep(stepDelay)
		}
	})
	return nil
}

// Move posts one relative pointer motion without any cursor bracket. Deltas
// are clamped to the signed-byte range of the report.
func (s *Synthesizer) Move(dx, dy int) error {
	if !s.transport.PointingReady() {
		return ErrPointingNotReady
	}

	s.transport.PostPointingReport(hidreport.PointingReport{
		DX: clampInt8(float64(dx)),
		DY: clampInt8(float64(dy)),
	})
	return nil
}
