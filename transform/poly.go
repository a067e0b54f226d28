package transform

import "github.com/pkg/errors"

// PolyTermCount returns the number of monomial terms per output axis of a 2D
// polynomial of the given degree: (degree+1)(degree+2)/2. A fit needs at
// least this many correspondence points.
func PolyTermCount(degree int) int {
	return (degree + 1) * (degree + 2) / 2
}

// Poly2Transform is a 2nd-degree polynomial transform with a hand-unrolled
// evaluator. Coefficients are stored per axis as [1, x, x², y, xy, y²], axis
// 0 followed by axis 1, 12 values in all.
type Poly2Transform struct {
	forward  []float64
	backward []float64
}

// NewPoly2Transform builds a 2nd-degree polynomial transform. Either
// coefficient set may be nil; the corresponding direction is unsupported.
func NewPoly2Transform(forward, backward []float64) (*Poly2Transform, error) {
	if forward != nil && len(forward) != 12 {
		return nil, errors.Errorf("forward input to NewPoly2Transform must have length of 12. Has length of %d", len(forward))
	}
	if backward != nil && len(backward) != 12 {
		return nil, errors.Errorf("backward input to NewPoly2Transform must have length of 12. Has length of %d", len(backward))
	}
	return &Poly2Transform{
		forward:  append([]float64(nil), forward...),
		backward: append([]float64(nil), backward...),
	}, nil
}

func applyPoly2(coeffs []float64, x, y float64) (float64, float64) {
	u := coeffs[0]
	u += coeffs[1] * x
	u += coeffs[2] * x * x
	u += coeffs[3] * y
	u += coeffs[4] * y * x
	u += coeffs[5] * y * y

	v := coeffs[6]
	v += coeffs[7] * x
	v += coeffs[8] * x * x
	v += coeffs[9] * y
	v += coeffs[10] * y * x
	v += coeffs[11] * y * y
	return u, v
}

// IsApplicable reports whether the transform has forward coefficients.
func (p2 *Poly2Transform) IsApplicable() bool {
	return p2.forward != nil
}

// IsInvertible reports whether the transform has backward coefficients.
func (p2 *Poly2Transform) IsInvertible() bool {
	return p2.backward != nil
}

// Apply maps (x, y) through the forward polynomial.
func (p2 *Poly2Transform) Apply(x, y float64) (float64, float64, error) {
	if p2.forward == nil {
		return 0, 0, ErrNotApplicable
	}
	u, v := applyPoly2(p2.forward, x, y)
	return u, v, nil
}

// Invert maps (x, y) through the backward polynomial.
func (p2 *Poly2Transform) Invert(x, y float64) (float64, float64, error) {
	if p2.backward == nil {
		return 0, 0, ErrNotInvertible
	}
	u, v := applyPoly2(p2.backward, x, y)
	return u, v, nil
}

// Degree returns 2.
func (p2 *Poly2Transform) Degree() int {
	return 2
}

// Coefficients returns a copy of the 12 forward coefficients.
func (p2 *Poly2Transform) Coefficients() []float64 {
	return append([]float64(nil), p2.forward...)
}

// Poly3Transform is a 3rd-degree polynomial transform with a hand-unrolled
// evaluator. Coefficients are stored per axis as
// [1, x, y, xy, x², y², x²y, xy², x³, y³], axis 0 followed by axis 1, 20
// values in all.
type Poly3Transform struct {
	forward  []float64
	backward []float64
}

// NewPoly3Transform builds a 3rd-degree polynomial transform. Either
// coefficient set may be nil; the corresponding direction is unsupported.
func NewPoly3Transform(forward, backward []float64) (*Poly3Transform, error) {
	if forward != nil && len(forward) != 20 {
		return nil, errors.Errorf("forward input to NewPoly3Transform must have length of 20. Has length of %d", len(forward))
	}
	if backward != nil && len(backward) != 20 {
		return nil, errors.Errorf("backward input to NewPoly3Transform must have length of 20. Has length of %d", len(backward))
	}
	return &Poly3Transform{
		forward:  append([]float64(nil), forward...),
		backward: append([]float64(nil), backward...),
	}, nil
}

func applyPoly3(coeffs []float64, x, y float64) (float64, float64) {
	u := coeffs[0]
	u += coeffs[1] * x
	u += coeffs[2] * y
	u += coeffs[3] * x * y
	u += coeffs[4] * x * x
	u += coeffs[5] * y * y
	u += coeffs[6] * x * x * y
	u += coeffs[7] * y * y * x
	u += coeffs[8] * x * x * x
	u += coeffs[9] * y * y * y

	v := coeffs[10]
	v += coeffs[11] * x
	v += coeffs[12] * y
	v += coeffs[13] * x * y
	v += coeffs[14] * x * x
	v += coeffs[15] * y * y
	v += coeffs[16] * x * x * y
	v += coeffs[17] * y * y * x
	v += coeffs[18] * x * x * x
	v += coeffs[19] * y * y * y
	return u, v
}

// IsApplicable reports whether the transform has forward coefficients.
func (p3 *Poly3Transform) IsApplicable() bool {
	return p3.forward != nil
}

// IsInvertible reports whether the transform has backward coefficients.
func (p3 *Poly3Transform) IsInvertible() bool {
	return p3.backward != nil
}

// Apply maps (x, y) through the forward polynomial.
func (p3 *Poly3Transform) Apply(x, y float64) (float64, float64, error) {
	if p3.forward == nil {
		return 0, 0, ErrNotApplicable
	}
	u, v := applyPoly3(p3.forward, x, y)
	return u, v, nil
}

// Invert maps (x, y) through the backward polynomial.
func (p3 *Poly3Transform) Invert(x, y float64) (float64, float64, error) {
	if p3.backward == nil {
		return 0, 0, ErrNotInvertible
	}
	u, v := applyPoly3(p3.backward, x, y)
	return u, v, nil
}

// Degree returns 3.
func (p3 *Poly3Transform) Degree() int {
	return 3
}

// Coefficients returns a copy of the 20 forward coefficients.
func (p3 *Poly3Transform) Coefficients() []float64 {
	return append([]float64(nil), p3.forward...)
}

// PolyNTransform is a polynomial transform of arbitrary degree. The looping
// evaluator makes it slower than the fixed-degree transforms. Coefficients
// are stored as PolyTermCount(degree) interleaved (axis0, axis1) pairs in
// term-enumeration order: the coefficient of term i sits at 2i for axis 0 and
// 2i+1 for axis 1.
//
// The enumeration visits, for py from 0 through degree, the terms x^px*y^py
// with px ascending from 0 through degree-py. The generic fit builds its
// design-matrix columns in this same order; the two must never diverge.
type PolyNTransform struct {
	degree   int
	forward  []float64
	backward []float64
}

// NewPolyNTransform builds a polynomial transform of the given degree. Either
// coefficient set may be nil; the corresponding direction is unsupported.
func NewPolyNTransform(degree int, forward, backward []float64) (*PolyNTransform, error) {
	if degree < 1 {
		return nil, errors.Errorf("degree input to NewPolyNTransform must be at least 1. Is %d", degree)
	}
	want := 2 * PolyTermCount(degree)
	if forward != nil && len(forward) != want {
		return nil, errors.Errorf("forward input to NewPolyNTransform must have length of %d for degree %d. Has length of %d", want, degree, len(forward))
	}
	if backward != nil && len(backward) != want {
		return nil, errors.Errorf("backward input to NewPolyNTransform must have length of %d for degree %d. Has length of %d", want, degree, len(backward))
	}
	return &PolyNTransform{
		degree:   degree,
		forward:  append([]float64(nil), forward...),
		backward: append([]float64(nil), backward...),
	}, nil
}

func applyPolyN(degree int, coeffs []float64, x, y float64) (float64, float64) {
	yy := 1.0
	u, v := 0.0, 0.0
	idx := 0
	for py := 0; py <= degree; py++ {
		xx := 1.0
		for px := degree - py; px >= 0; px-- {
			u += xx * yy * coeffs[idx]
			v += xx * yy * coeffs[idx+1]
			idx += 2
			xx *= x
		}
		yy *= y
	}
	return u, v
}

// IsApplicable reports whether the transform has forward coefficients.
func (pn *PolyNTransform) IsApplicable() bool {
	return pn.forward != nil
}

// IsInvertible reports whether the transform has backward coefficients.
func (pn *PolyNTransform) IsInvertible() bool {
	return pn.backward != nil
}

// Apply maps (x, y) through the forward polynomial.
func (pn *PolyNTransform) Apply(x, y float64) (float64, float64, error) {
	if pn.forward == nil {
		return 0, 0, ErrNotApplicable
	}
	u, v := applyPolyN(pn.degree, pn.forward, x, y)
	return u, v, nil
}

// Invert maps (x, y) through the backward polynomial.
func (pn *PolyNTransform) Invert(x, y float64) (float64, float64, error) {
	if pn.backward == nil {
		return 0, 0, ErrNotInvertible
	}
	u, v := applyPolyN(pn.degree, pn.backward, x, y)
	return u, v, nil
}

// Degree returns the polynomial degree.
func (pn *PolyNTransform) Degree() int {
	return pn.degree
}

// Coefficients returns a copy of the interleaved forward coefficients.
func (pn *PolyNTransform) Coefficients() []float64 {
	return append([]float64(nil), pn.forward...)
}
