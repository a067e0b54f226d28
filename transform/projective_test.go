package transform

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestNewProjectiveTransform(t *testing.T) {
	_, err := NewProjectiveTransform([]float64{})
	test.That(t, err, test.ShouldBeError,
		errors.New("input to NewProjectiveTransform must have length of 9. Has length of 0"))

	vals := []float64{
		2.32700501e-01, -8.33535395e-03, -3.61894025e+01,
		-1.90671303e-03, 2.35303232e-01, 8.38582614e+00,
		-6.39101664e-05, -4.64582754e-05, 1.00000000e+00,
	}
	pt, err := NewProjectiveTransform(vals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.IsApplicable(), test.ShouldBeTrue)
	test.That(t, pt.IsInvertible(), test.ShouldBeTrue)

	u, v, err := pt.Apply(100, 200)
	test.That(t, err, test.ShouldBeNil)
	x, y, err := pt.Invert(u, v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x, test.ShouldAlmostEqual, 100, 1e-8)
	test.That(t, y, test.ShouldAlmostEqual, 200, 1e-8)
}

func TestProjectiveTransformForwardOnly(t *testing.T) {
	// rank-1 homography cannot be inverted but still applies forward
	pt, err := NewProjectiveTransform([]float64{1, 0, 0, 1, 0, 0, 1, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.IsApplicable(), test.ShouldBeTrue)
	test.That(t, pt.IsInvertible(), test.ShouldBeFalse)
	test.That(t, pt.InverseCoefficients(), test.ShouldBeNil)
	test.That(t, pt.BackwardMatrix(), test.ShouldBeNil)

	_, _, err = pt.Invert(1, 1)
	test.That(t, errors.Is(err, ErrNotInvertible), test.ShouldBeTrue)
}

func TestProjectiveTransformUnguardedDenominator(t *testing.T) {
	// the denominator row is G=1, H=0, I=0: every point with x == 0 maps to
	// infinity, and the divide is intentionally unguarded
	pt, err := NewProjectiveTransform([]float64{1, 0, 1, 0, 1, 0, 1, 0, 0})
	test.That(t, err, test.ShouldBeNil)

	u, v, err := pt.Apply(0, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.IsInf(u, 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(v, 1), test.ShouldBeTrue)
}

func TestProjectiveTransformMatrices(t *testing.T) {
	coeffs := []float64{2, 0, 1, 0, 3, -1, 0, 0, 1}
	pt, err := NewProjectiveTransform(coeffs)
	test.That(t, err, test.ShouldBeNil)

	fwd := pt.ForwardMatrix()
	test.That(t, fwd.At(0, 0), test.ShouldAlmostEqual, 2)
	test.That(t, fwd.At(1, 1), test.ShouldAlmostEqual, 3)
	test.That(t, fwd.At(2, 2), test.ShouldAlmostEqual, 1)

	// backward is the literal inverse: the product is the identity
	var prod mat.Dense
	prod.Mul(fwd, pt.BackwardMatrix())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			test.That(t, prod.At(i, j), test.ShouldAlmostEqual, want, 1e-10)
		}
	}
}

func TestProjectiveTransformZeroValue(t *testing.T) {
	var pt ProjectiveTransform
	test.That(t, pt.IsApplicable(), test.ShouldBeFalse)
	test.That(t, pt.IsInvertible(), test.ShouldBeFalse)

	_, _, err := pt.Apply(0, 0)
	test.That(t, errors.Is(err, ErrNotApplicable), test.ShouldBeTrue)
}
