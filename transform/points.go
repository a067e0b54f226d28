package transform

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// FlattenPoints packs points into an interleaved (x0, y0, x1, y1, ...)
// buffer, the layout the fit functions consume.
func FlattenPoints(pts []r2.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}

func checkPointSets(from, to []r2.Point) error {
	if len(from) != len(to) {
		return errors.Wrapf(ErrIllegalValue, "point sets must have the same number of elements: %d != %d", len(from), len(to))
	}
	return nil
}

// FitProjectivePoints fits a projective transform mapping from[i] to to[i].
func FitProjectivePoints(from, to []r2.Point) (*ProjectiveTransform, error) {
	if err := checkPointSets(from, to); err != nil {
		return nil, err
	}
	return FitProjective(FlattenPoints(from), 0, FlattenPoints(to), 0, len(from))
}

// FitPolyPoints fits a polynomial transform of the given degree mapping
// from[i] to to[i].
func FitPolyPoints(from, to []r2.Point, degree int) (PolyTransform2D, error) {
	if err := checkPointSets(from, to); err != nil {
		return nil, err
	}
	return FitPoly(FlattenPoints(from), 0, FlattenPoints(to), 0, len(from), degree)
}

// ApplyPoint maps pt through the forward mapping of tr.
func ApplyPoint(tr Transform2D, pt r2.Point) (r2.Point, error) {
	x, y, err := tr.Apply(pt.X, pt.Y)
	return r2.Point{X: x, Y: y}, err
}

// InvertPoint maps pt through the backward mapping of tr.
func InvertPoint(tr Transform2D, pt r2.Point) (r2.Point, error) {
	x, y, err := tr.Invert(pt.X, pt.Y)
	return r2.Point{X: x, Y: y}, err
}
