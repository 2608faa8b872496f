package gesture

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/layout"
)

// recorder captures transport reports and cursor operations in one ordered
// event log so tests can assert cross-component ordering.
type recorder struct {
	keyboardReady bool
	pointingReady bool

	events   []string
	pointing []hidreport.PointingReport
	keyboard []hidreport.KeyboardReport
	position cursor.Point
}

func (r *recorder) PostPointingReport(report hidreport.PointingReport) bool {
	r.pointing = append(r.pointing, report)
	r.events = append(r.events, fmt.Sprintf("pointing buttons=%d dx=%d dy=%d vw=%d hw=%d",
		report.Buttons, report.DX, report.DY, report.VerticalWheel, report.HorizontalWheel))
	return true
}

func (r *recorder) PostKeyboardReport(report hidreport.KeyboardReport) bool {
	r.keyboard = append(r.keyboard, report)
	r.events = append(r.events, fmt.Sprintf("keyboard mods=%#02x key=%#02x",
		uint8(report.Modifiers), report.Keys[0]))
	return true
}

func (r *recorder) KeyboardReady() bool { return r.keyboardReady }
func (r *recorder) PointingReady() bool { return r.pointingReady }

func (r *recorder) Position() cursor.Point {
	r.events = append(r.events, "position")
	return r.position
}

func (r *recorder) WarpTo(p cursor.Point) {
	r.events = append(r.events, fmt.Sprintf("warp %v,%v", p.X, p.Y))
}

func (r *recorder) SetAssociationEnabled(enabled bool) {
	if enabled {
		r.events = append(r.events, "assoc_on")
	} else {
		r.events = append(r.events, "assoc_off")
	}
}

func (r *recorder) buttonDowns() int {
	n := 0
	for _, report := range r.pointing {
		if report.Buttons == 1 {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(event string) int {
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

func newTestSynthesizer(rec *recorder, table layout.Table) (*Synthesizer, *[]time.Duration) {
	s := New(nil, rec, rec, table, DefaultTiming())
	sleeps := &[]time.Duration{}
	s.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return s, sleeps
}

func TestClickReportOrderAroundBracket(t *testing.T) {
	rec := &recorder{pointingReady: true, position: cursor.Point{X: 10, Y: 20}}
	s, _ := newTestSynthesizer(rec, nil)

	require.NoError(t, s.Click(cursor.Point{X: 100, Y: 200}))

	require.Equal(t, 1, rec.buttonDowns())
	// Button-up is the only report with every field zero.
	ups := 0
	for _, report := range rec.pointing {
		if report == (hidreport.PointingReport{}) {
			ups++
		}
	}
	require.Equal(t, 1, ups)

	down := rec.indexOf("pointing buttons=1 dx=0 dy=0 vw=0 hw=0")
	up := rec.indexOf("pointing buttons=0 dx=0 dy=0 vw=0 hw=0")
	assocOff := rec.indexOf("assoc_off")
	assocOn := rec.indexOf("assoc_on")
	require.True(t, assocOff < down, "association disabled before button-down")
	require.True(t, down < up, "button-down before button-up")
	require.True(t, up < assocOn, "association re-enabled after button-up")

	// Warped to the target, then restored to the saved position.
	require.True(t, rec.indexOf("warp 100,200") > assocOff)
	require.Equal(t, "assoc_on", rec.events[len(rec.events)-1])
	require.Equal(t, "warp 10,20", rec.events[len(rec.events)-2])
}

func TestClickNotReady(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSynthesizer(rec, nil)

	require.ErrorIs(t, s.Click(cursor.Point{X: 1, Y: 1}), ErrPointingNotReady)
	require.Empty(t, rec.pointing)
	require.Empty(t, rec.events)
}

func TestLongPressDurationFloor(t *testing.T) {
	rec := &recorder{pointingReady: true}
	s, sleeps := newTestSynthesizer(rec, nil)

	require.NoError(t, s.LongPress(cursor.Point{}, 10*time.Millisecond))

	// The hold is the sleep between button-down and button-up; it must have
	// been raised to the floor.
	require.Contains(t, *sleeps, s.timing.LongPressFloor)
	require.NotContains(t, *sleeps, 10*time.Millisecond)
}

func TestDoubleTapStaysInsideRecognitionWindow(t *testing.T) {
	timing := DefaultTiming()
	total := 2*timing.DoubleTapHold + timing.DoubleTapGap
	require.Less(t, total, 300*time.Millisecond)

	rec := &recorder{pointingReady: true}
	s, _ := newTestSynthesizer(rec, nil)
	require.NoError(t, s.DoubleTap(cursor.Point{X: 5, Y: 5}))

	require.Equal(t, 2, rec.buttonDowns())
}

func TestDragInterpolation(t *testing.T) {
	rec := &recorder{pointingReady: true}
	s, sleeps := newTestSynthesizer(rec, nil)
	s.timing.DragSteps = 4

	require.NoError(t, s.Drag(cursor.Point{X: 0, Y: 0}, cursor.Point{X: 40, Y: 0}, 350*time.Millisecond))

	moves := 0
	for _, report := range rec.pointing {
		if report.Buttons == 1 && report.DX != 0 {
			moves++
			require.Equal(t, int8(10), report.DX)
		}
	}
	require.Equal(t, 4, moves)

	// Initial hold plus evenly spread remainder.
	require.Contains(t, *sleeps, s.timing.DragInitialHold)
	require.Contains(t, *sleeps, 50*time.Millisecond)

	// Final warp inside the bracket lands on the drag end point.
	require.True(t, rec.indexOf("warp 40,0") >= 0)
}

func TestSwipeTickAccumulatorConservation(t *testing.T) {
	rec := &recorder{pointingReady: true}
	s, _ := newTestSynthesizer(rec, nil)

	// 173 points over 20 steps at scale 10: 17.3 ticks total, 0.865 per
	// step, never an integer multiple of the step count.
	require.NoError(t, s.Swipe(cursor.Point{X: 50, Y: 273}, cursor.Point{X: 50, Y: 100}, 200*time.Millisecond))

	sum := 0
	distinct := map[int8]bool{}
	for _, report := range rec.pointing {
		sum += int(report.VerticalWheel)
		if report.DX == 0 && report.DY == 0 {
			distinct[report.VerticalWheel] = true
		}
	}
	require.InDelta(t, 17, sum, 1, "total ticks must equal round(D/K) within ±1")
	// The deferred remainder makes some steps carry one more tick than others.
	require.True(t, distinct[0] && distinct[1], "remainder must spill into later steps")

	// Swipe direction up (content up) scrolls positive per inverted sign.
	require.Greater(t, sum, 0)

	// No button is held and the pointer is warped only twice: midpoint, then
	// restore.
	require.Equal(t, 0, rec.buttonDowns())
	warps := 0
	for _, e := range rec.events {
		if len(e) >= 4 && e[:4] == "warp" {
			warps++
		}
	}
	require.Equal(t, 2, warps)
	require.True(t, rec.indexOf("warp 50,186.5") >= 0, "single warp goes to the midpoint")
}

func TestMoveClampsToSignedByte(t *testing.T) {
	rec := &recorder{pointingReady: true}
	s, _ := newTestSynthesizer(rec, nil)

	require.NoError(t, s.Move(300, -300))
	require.Len(t, rec.pointing, 1)
	require.Equal(t, int8(127), rec.pointing[0].DX)
	require.Equal(t, int8(-127), rec.pointing[0].DY)
}

func TestTypeDirectCharacters(t *testing.T) {
	rec := &recorder{keyboardReady: true}
	s, _ := newTestSynthesizer(rec, nil)

	result, err := s.Type("hi", nil)
	require.NoError(t, err)
	require.Empty(t, result.Skipped)

	require.Len(t, rec.keyboard, 4)
	require.Equal(t, uint16(0x0b), rec.keyboard[0].Keys[0]) // h down
	require.Equal(t, uint16(0), rec.keyboard[1].Keys[0])    // release
	require.Equal(t, uint16(0x0c), rec.keyboard[2].Keys[0]) // i down
	require.Equal(t, uint16(0), rec.keyboard[3].Keys[0])    // release
}

func TestTypeSkipsUnmappedCharacters(t *testing.T) {
	rec := &recorder{keyboardReady: true}
	s, _ := newTestSynthesizer(rec, nil)

	result, err := s.Type("aé!", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"é"}, result.Skipped)

	// a and ! still typed: two down/up pairs.
	require.Len(t, rec.keyboard, 4)
}

func TestTypeDeadKeySequence(t *testing.T) {
	table := layout.Table{
		'é': {
			DeadKey: true,
			Steps: []layout.Step{
				{Keycode: 0x08, Modifiers: hidreport.ModifierSet(hidreport.ModifierRightOption)},
				{Keycode: 0x08},
			},
		},
	}
	rec := &recorder{keyboardReady: true}
	s, sleeps := newTestSynthesizer(rec, table)

	result, err := s.Type("é", nil)
	require.NoError(t, err)
	require.Empty(t, result.Skipped)

	require.Len(t, rec.keyboard, 4)
	require.Equal(t, hidreport.ModifierSet(hidreport.ModifierRightOption), rec.keyboard[0].Modifiers)
	require.Equal(t, uint16(0x08), rec.keyboard[2].Keys[0])

	deadKeySettles := 0
	for _, d := range *sleeps {
		if d == s.timing.DeadKeyDelay {
			deadKeySettles++
		}
	}
	require.Equal(t, 2, deadKeySettles)
}

func TestTypeWithFocusParksPointerUntilDone(t *testing.T) {
	rec := &recorder{keyboardReady: true, pointingReady: true, position: cursor.Point{X: 3, Y: 4}}
	s, _ := newTestSynthesizer(rec, nil)

	_, err := s.Type("hi", &cursor.Point{X: 60, Y: 70})
	require.NoError(t, err)

	// Association comes back exactly once, after the last keystroke.
	assocOn := 0
	for _, e := range rec.events {
		if e == "assoc_on" {
			assocOn++
		}
	}
	require.Equal(t, 1, assocOn)
	require.Equal(t, "assoc_on", rec.events[len(rec.events)-1])
	require.Equal(t, "warp 3,4", rec.events[len(rec.events)-2])

	lastKeyboard := -1
	for i, e := range rec.events {
		if len(e) >= 8 && e[:8] == "keyboard" {
			lastKeyboard = i
		}
	}
	require.True(t, lastKeyboard < rec.indexOf("assoc_on"))
}

func TestTypeNotReady(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSynthesizer(rec, nil)

	_, err := s.Type("hi", nil)
	require.ErrorIs(t, err, ErrKeyboardNotReady)
	require.Empty(t, rec.keyboard)

	rec.keyboardReady = true
	_, err = s.Type("hi", &cursor.Point{X: 1, Y: 1})
	require.ErrorIs(t, err, ErrPointingNotReady)
	require.Empty(t, rec.keyboard)
}

func TestShakeChord(t *testing.T) {
	rec := &recorder{keyboardReady: true}
	s, _ := newTestSynthesizer(rec, nil)

	require.NoError(t, s.Shake())
	require.Len(t, rec.keyboard, 2)

	down := rec.keyboard[0]
	require.True(t, down.Modifiers.Has(hidreport.ModifierLeftControl))
	require.True(t, down.Modifiers.Has(hidreport.ModifierLeftCommand))
	require.Equal(t, uint16(0x1d), down.Keys[0])
	require.Equal(t, hidreport.NewKeyboardReport(), rec.keyboard[1])
}

func TestPressKeyNotReady(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSynthesizer(rec, nil)
	require.ErrorIs(t, s.PressKey(0x04, 0), ErrKeyboardNotReady)
	require.Empty(t, rec.keyboard)
}
