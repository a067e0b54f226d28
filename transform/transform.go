// Package transform fits 2D coordinate mappings to sparse correspondence
// points and evaluates them.
//
// A correspondence point is a pair (from, to) asserting the desired mapping
// at one location. Fitting poses a transform family's defining equations as a
// linear least-squares problem over a handful of such pairs and returns a
// Transform2D that evaluates the mapping, and where possible its inverse, at
// arbitrary coordinates. Typical use is building geometric correction
// functions, such as lens-distortion warps, from hand-identified reference
// points.
package transform

import "github.com/pkg/errors"

// machineEpsilon is the double-precision machine epsilon, used both as the
// least-squares rank tolerance and as the singularity threshold for the
// closed-form 2x2 inverse.
const machineEpsilon = 1.1102230246251565e-16

var (
	// ErrNotApplicable is returned by Apply when the transform carries no forward mapping.
	ErrNotApplicable = errors.New("transform has no forward mapping")
	// ErrNotInvertible is returned by Invert when the transform carries no backward mapping.
	ErrNotInvertible = errors.New("transform is not invertible")
)

// Transform2D maps 2D input points to 2D output points. A given instance may
// also be able to invert the mapping. Callers should check IsApplicable and
// IsInvertible before evaluating; calling Apply or Invert on a transform
// without the corresponding mapping is a programming error and fails
// unconditionally.
type Transform2D interface {
	// IsApplicable reports whether the transform has a forward mapping and supports Apply.
	IsApplicable() bool
	// IsInvertible reports whether the transform has a backward mapping and supports Invert.
	IsInvertible() bool
	// Apply maps the point (x, y) through the forward mapping.
	Apply(x, y float64) (float64, float64, error)
	// Invert maps the point (x, y) through the backward mapping, inversely to Apply.
	Invert(x, y float64) (float64, float64, error)
}

// PolyTransform2D is a polynomial Transform2D of a fixed degree.
type PolyTransform2D interface {
	Transform2D

	// Degree returns the polynomial degree.
	Degree() int
}
