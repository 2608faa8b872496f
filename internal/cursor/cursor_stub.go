//go:build !darwin

package cursor

type stubController struct{}

// NewSystem returns a no-op pointer controller on platforms without a
// mirrored-display session.
func NewSystem() Controller {
	return stubController{}
}

func (stubController) Position() Point            { return Point{} }
func (stubController) WarpTo(Point)               {}
func (stubController) SetAssociationEnabled(bool) {}
