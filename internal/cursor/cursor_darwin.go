//go:build darwin

package cursor

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

static void cursor_warp(double x, double y) {
	CGWarpMouseCursorPosition(CGPointMake(x, y));
}

static void cursor_set_association(int enabled) {
	CGAssociateMouseAndMouseCursorPosition(enabled);
}

static void cursor_position(double *x, double *y) {
	CGEventRef ev = CGEventCreate(NULL);
	CGPoint p = CGEventGetLocation(ev);
	CFRelease(ev);
	*x = p.x;
	*y = p.y;
}
*/
import "C"

type systemController struct{}

// NewSystem returns the CoreGraphics-backed pointer controller.
func NewSystem() Controller {
	return systemController{}
}

func (systemController) Position() Point {
	var x, y C.double
	C.cursor_position(&x, &y)
	return Point{X: float64(x), Y: float64(y)}
}

func (systemController) WarpTo(p Point) {
	C.cursor_warp(C.double(p.X), C.double(p.Y))
}

func (systemController) SetAssociationEnabled(enabled bool) {
	v := C.int(0)
	if enabled {
		v = 1
	}
	C.cursor_set_association(v)
}
