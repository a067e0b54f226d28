package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-labs/corrpoints/lsq"
)

// ProjectiveTransform is a 2D projective (perspective) transform. Its nine
// forward coefficients form a row-major 3x3 homography [A..I]:
//
//	u = (A*x + B*y + C) / (G*x + H*y + I)
//	v = (D*x + E*y + F) / (G*x + H*y + I)
//
// The denominator is not guarded: a source point on the line the homography
// sends to infinity evaluates to non-finite coordinates.
type ProjectiveTransform struct {
	forward  []float64
	backward []float64
}

// NewProjectiveTransform builds a transform from 9 row-major homography
// coefficients. The backward mapping is computed by inverting the 3x3 matrix;
// if the matrix is singular the transform is constructed forward-only.
func NewProjectiveTransform(forward []float64) (*ProjectiveTransform, error) {
	if len(forward) != 9 {
		return nil, errors.Errorf("input to NewProjectiveTransform must have length of 9. Has length of %d", len(forward))
	}
	fwd := make([]float64, 9)
	copy(fwd, forward)

	var back []float64
	if inv, err := lsq.InvertSquare(mat.NewDense(3, 3, fwd)); err == nil {
		back = make([]float64, 9)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				back[i*3+j] = inv.At(i, j)
			}
		}
	}
	return &ProjectiveTransform{forward: fwd, backward: back}, nil
}

func applyHomography(coeffs []float64, x, y float64) (float64, float64) {
	a := coeffs[0]*x + coeffs[1]*y + coeffs[2]
	b := coeffs[3]*x + coeffs[4]*y + coeffs[5]
	c := coeffs[6]*x + coeffs[7]*y + coeffs[8]
	return a / c, b / c
}

// IsApplicable reports whether the transform has a forward mapping.
func (pt *ProjectiveTransform) IsApplicable() bool {
	return pt.forward != nil
}

// IsInvertible reports whether the forward homography could be inverted.
func (pt *ProjectiveTransform) IsInvertible() bool {
	return pt.backward != nil
}

// Apply maps (x, y) through the forward homography.
func (pt *ProjectiveTransform) Apply(x, y float64) (float64, float64, error) {
	if pt.forward == nil {
		return 0, 0, ErrNotApplicable
	}
	u, v := applyHomography(pt.forward, x, y)
	return u, v, nil
}

// Invert maps (x, y) through the backward homography.
func (pt *ProjectiveTransform) Invert(x, y float64) (float64, float64, error) {
	if pt.backward == nil {
		return 0, 0, ErrNotInvertible
	}
	u, v := applyHomography(pt.backward, x, y)
	return u, v, nil
}

// Coefficients returns a copy of the 9 row-major forward coefficients.
func (pt *ProjectiveTransform) Coefficients() []float64 {
	return append([]float64(nil), pt.forward...)
}

// InverseCoefficients returns a copy of the 9 row-major backward
// coefficients, or nil if the transform is not invertible.
func (pt *ProjectiveTransform) InverseCoefficients() []float64 {
	if pt.backward == nil {
		return nil
	}
	return append([]float64(nil), pt.backward...)
}

// ForwardMatrix returns the forward homography as a 3x3 matrix.
func (pt *ProjectiveTransform) ForwardMatrix() *mat.Dense {
	return mat.NewDense(3, 3, pt.Coefficients())
}

// BackwardMatrix returns the backward homography as a 3x3 matrix, or nil if
// the transform is not invertible.
func (pt *ProjectiveTransform) BackwardMatrix() *mat.Dense {
	if pt.backward == nil {
		return nil
	}
	return mat.NewDense(3, 3, pt.InverseCoefficients())
}
