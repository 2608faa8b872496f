// Package cursor controls the displayed pointer: position queries, warps,
// and the association between physical mouse motion and the pointer.
package cursor

// Point is an absolute screen position in point units.
type Point struct {
	X float64
	Y float64
}

// Controller is the pointer-control surface the gesture layer depends on.
//
// Disabling the association decouples the displayed pointer from physical
// mouse input so a programmatic warp is not fought by concurrent motion.
type Controller interface {
	Position() Point
	WarpTo(Point)
	SetAssociationEnabled(bool)
}
