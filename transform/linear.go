package transform

import "math"

// LinearTransform is an affine, 1st-degree polynomial transform:
//
//	u = sxx*x + syx*y + tx
//	v = sxy*x + syy*y + ty
//
// The inverse is closed form and exists iff the 2x2 linear part has a
// non-zero determinant.
type LinearTransform struct {
	tx, sxx, syx float64
	ty, sxy, syy float64
	det          float64
}

// NewLinearTransform builds an affine transform from its six coefficients.
// A determinant within machine epsilon of zero is treated as zero, so
// near-singular transforms report IsInvertible() == false.
func NewLinearTransform(tx, sxx, syx, ty, sxy, syy float64) *LinearTransform {
	det := sxx*syy - sxy*syx
	if math.Abs(det) <= machineEpsilon {
		det = 0
	}
	return &LinearTransform{tx: tx, sxx: sxx, syx: syx, ty: ty, sxy: sxy, syy: syy, det: det}
}

// IsApplicable reports whether the transform has a forward mapping. Always true.
func (lt *LinearTransform) IsApplicable() bool {
	return true
}

// IsInvertible reports whether the 2x2 linear part is non-singular.
func (lt *LinearTransform) IsInvertible() bool {
	return lt.det != 0
}

// Apply maps (x, y) through the forward mapping.
func (lt *LinearTransform) Apply(x, y float64) (float64, float64, error) {
	return lt.sxx*x + lt.syx*y + lt.tx, lt.sxy*x + lt.syy*y + lt.ty, nil
}

// Invert maps (x, y) through the closed-form inverse mapping.
func (lt *LinearTransform) Invert(x, y float64) (float64, float64, error) {
	if lt.det == 0 {
		return 0, 0, ErrNotInvertible
	}
	x -= lt.tx
	y -= lt.ty
	return (lt.syy*x - lt.syx*y) / lt.det, (-lt.sxy*x + lt.sxx*y) / lt.det, nil
}

// Degree returns 1.
func (lt *LinearTransform) Degree() int {
	return 1
}

// Coefficients returns the six coefficients as [tx, sxx, syx, ty, sxy, syy].
func (lt *LinearTransform) Coefficients() []float64 {
	return []float64{lt.tx, lt.sxx, lt.syx, lt.ty, lt.sxy, lt.syy}
}
