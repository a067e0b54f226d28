package transform

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestPolyTermCount(t *testing.T) {
	test.That(t, PolyTermCount(1), test.ShouldEqual, 3)
	test.That(t, PolyTermCount(2), test.ShouldEqual, 6)
	test.That(t, PolyTermCount(3), test.ShouldEqual, 10)
	test.That(t, PolyTermCount(4), test.ShouldEqual, 15)
}

func TestNewPolyTransformValidation(t *testing.T) {
	_, err := NewPoly2Transform(make([]float64, 11), nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPoly3Transform(make([]float64, 19), nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPolyNTransform(0, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPolyNTransform(4, make([]float64, 29), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

// The degree-2 general enumeration order [1, x, x², y, xy, y²] is the fixed
// evaluator's own layout, so a Poly2Transform and a degree-2 PolyNTransform
// built from the same per-term coefficients must agree everywhere.
func TestPoly2MatchesPolyN(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	terms := make([]float64, 12)
	for i := range terms {
		terms[i] = r.Float64()*3 - 1.5
	}

	p2, err := NewPoly2Transform(terms, nil)
	test.That(t, err, test.ShouldBeNil)

	interleaved := make([]float64, 12)
	for i := 0; i < 6; i++ {
		interleaved[2*i] = terms[i]
		interleaved[2*i+1] = terms[6+i]
	}
	pn, err := NewPolyNTransform(2, interleaved, nil)
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 20; i++ {
		x := r.Float64()*5 - 2.5
		y := r.Float64()*5 - 2.5
		u2, v2, err := p2.Apply(x, y)
		test.That(t, err, test.ShouldBeNil)
		un, vn, err := pn.Apply(x, y)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, u2, test.ShouldAlmostEqual, un, 1e-12)
		test.That(t, v2, test.ShouldAlmostEqual, vn, 1e-12)
	}
}

// The degree-3 evaluator's layout differs from the general enumeration order;
// poly3Reorder is the bridge. Building a Poly3Transform through the table
// from enumeration-ordered terms must agree with the general evaluator.
func TestPoly3ReorderMatchesPolyN(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	terms := make([]float64, 20) // enumeration order, axis 0 then axis 1
	for i := range terms {
		terms[i] = r.Float64()*3 - 1.5
	}

	cf := make([]float64, 20)
	for i, src := range poly3Reorder {
		cf[i] = terms[src]
		cf[10+i] = terms[10+src]
	}
	p3, err := NewPoly3Transform(cf, nil)
	test.That(t, err, test.ShouldBeNil)

	interleaved := make([]float64, 20)
	for i := 0; i < 10; i++ {
		interleaved[2*i] = terms[i]
		interleaved[2*i+1] = terms[10+i]
	}
	pn, err := NewPolyNTransform(3, interleaved, nil)
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 20; i++ {
		x := r.Float64()*5 - 2.5
		y := r.Float64()*5 - 2.5
		u3, v3, err := p3.Apply(x, y)
		test.That(t, err, test.ShouldBeNil)
		un, vn, err := pn.Apply(x, y)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, u3, test.ShouldAlmostEqual, un, 1e-12)
		test.That(t, v3, test.ShouldAlmostEqual, vn, 1e-12)
	}
}

func TestPolyForwardOnly(t *testing.T) {
	p2, err := NewPoly2Transform(make([]float64, 12), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p2.IsApplicable(), test.ShouldBeTrue)
	test.That(t, p2.IsInvertible(), test.ShouldBeFalse)
	_, _, err = p2.Invert(0, 0)
	test.That(t, errors.Is(err, ErrNotInvertible), test.ShouldBeTrue)

	p3, err := NewPoly3Transform(nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p3.IsApplicable(), test.ShouldBeFalse)
	_, _, err = p3.Apply(0, 0)
	test.That(t, errors.Is(err, ErrNotApplicable), test.ShouldBeTrue)

	pn, err := NewPolyNTransform(5, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pn.Degree(), test.ShouldEqual, 5)
	test.That(t, pn.IsInvertible(), test.ShouldBeFalse)
	_, _, err = pn.Invert(0, 0)
	test.That(t, errors.Is(err, ErrNotInvertible), test.ShouldBeTrue)
}
