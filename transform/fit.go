package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-labs/corrpoints/lsq"
)

// rankTolerance is handed to the least-squares solver: singular values at or
// below rankTolerance times the largest are treated as zero when counting
// numerical rank.
const rankTolerance = machineEpsilon

var (
	// ErrInsufficientRank is returned when too few correspondence points are
	// given, or when the points are algebraically degenerate (for example
	// collinear or duplicated) so the design matrix does not reach the rank
	// the transform family needs.
	ErrInsufficientRank = errors.New("correspondence points do not sufficiently constrain the transform")
	// ErrDidNotConverge is returned when the solver's SVD iteration fails.
	ErrDidNotConverge = errors.New("least-squares solver did not converge")
	// ErrIllegalValue is returned for malformed arguments: short point
	// buffers, a bad degree, or a solver argument rejection. It indicates a
	// caller bug rather than degenerate data.
	ErrIllegalValue = errors.New("illegal value passed to correspondence fit")
)

// poly3Reorder maps the fixed degree-3 evaluator's coefficient slots to the
// generic fit's design-matrix columns: evaluator slot i is filled from
// generic column poly3Reorder[i]. The table is part of the coefficient-layout
// contract and must not be re-derived.
var poly3Reorder = [10]int{0, 1, 4, 5, 2, 7, 6, 8, 3, 9}

// checkCorrPoints validates the flat interleaved point buffers shared by all
// fit functions. Each buffer must hold at least offset + 2*nPoints values.
func checkCorrPoints(from []float64, fromOff int, to []float64, toOff, nPoints int) error {
	if nPoints < 0 || fromOff < 0 || toOff < 0 {
		return errors.Wrapf(ErrIllegalValue, "offsets (%d, %d) and point count %d must be non-negative", fromOff, toOff, nPoints)
	}
	if len(from) < fromOff+2*nPoints {
		return errors.Wrapf(ErrIllegalValue, "fromPoints holds %d values, need %d", len(from), fromOff+2*nPoints)
	}
	if len(to) < toOff+2*nPoints {
		return errors.Wrapf(ErrIllegalValue, "toPoints holds %d values, need %d", len(to), toOff+2*nPoints)
	}
	return nil
}

// mapSolveErr translates solver-seam failures into the fit error taxonomy.
func mapSolveErr(err error) error {
	if errors.Is(err, lsq.ErrDidNotConverge) {
		return errors.Wrap(ErrDidNotConverge, err.Error())
	}
	return errors.Wrap(ErrIllegalValue, err.Error())
}

// solveFit runs the shared solve-and-rank-check step: it requests the
// minimum-norm least-squares solution and rejects the result when the
// reported numerical rank does not cover all nUnknowns coefficients.
func solveFit(a, b *mat.Dense, nUnknowns int) (*mat.Dense, error) {
	sol, rank, err := lsq.SolveMinNorm(a, b, rankTolerance)
	if err != nil {
		return nil, mapSolveErr(err)
	}
	if rank < nUnknowns {
		return nil, errors.Wrapf(ErrInsufficientRank, "numerical rank %d, need %d", rank, nUnknowns)
	}
	return sol, nil
}

// FitProjective fits a projective transform that maps the 2D fromPoints onto
// the 2D toPoints. Points are read as interleaved (x0, y0, x1, y1, ...)
// starting at the given offsets. At least 4 correspondence points are needed,
// more if the points are degenerate; with more than 4 the least-squares
// optimum is returned.
//
// The defining equations
//
//	u = (A*x + B*y + C) / (G*x + H*y + I)
//	v = (D*x + E*y + F) / (G*x + H*y + I)
//
// are nonlinear in the unknowns, but fixing I = 1 (valid up to scale) and
// multiplying through by the denominator gives two equations per point that
// are linear in [A B C D E F G H]:
//
//	u = [x y 1 0 0 0 -u*x -u*y] . [A B C D E F G H]
//	v = [0 0 0 x y 1 -v*x -v*y] . [A B C D E F G H]
//
// The u rows are stacked above the v rows for one 2n x 8 system.
//
// The backward mapping is the literal 3x3 inverse of the fitted homography.
// If the homography is singular the fit still succeeds and the returned
// transform is forward-only.
func FitProjective(from []float64, fromOff int, to []float64, toOff, nPoints int) (*ProjectiveTransform, error) {
	if err := checkCorrPoints(from, fromOff, to, toOff, nPoints); err != nil {
		return nil, err
	}
	if nPoints < 4 {
		return nil, errors.Wrapf(ErrInsufficientRank, "projective fit needs at least 4 correspondence points, got %d", nPoints)
	}

	a := mat.NewDense(2*nPoints, 8, nil)
	b := mat.NewDense(2*nPoints, 1, nil)
	for i := 0; i < nPoints; i++ {
		x := from[fromOff+2*i]
		y := from[fromOff+2*i+1]
		u := to[toOff+2*i]
		v := to[toOff+2*i+1]

		a.SetRow(i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(nPoints+i, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.Set(i, 0, u)
		b.Set(nPoints+i, 0, v)
	}

	sol, err := solveFit(a, b, 8)
	if err != nil {
		return nil, err
	}

	forward := make([]float64, 9)
	for i := 0; i < 8; i++ {
		forward[i] = sol.At(i, 0)
	}
	forward[8] = 1 // I was fixed at 1 above

	return NewProjectiveTransform(forward)
}

// FitPoly2 fits a 2nd-degree polynomial transform that maps the 2D
// fromPoints onto the 2D toPoints. Points are read as interleaved
// (x0, y0, x1, y1, ...) starting at the given offsets. At least 6
// correspondence points are needed, more if the points are degenerate; with
// more than 6 the least-squares optimum is returned.
//
// Each point contributes one design-matrix row of monomials
// [1, x, x², y, xy, y²] with the target u and v as two right-hand sides
// solved simultaneously.
func FitPoly2(from []float64, fromOff int, to []float64, toOff, nPoints int) (*Poly2Transform, error) {
	const k = 6
	if err := checkCorrPoints(from, fromOff, to, toOff, nPoints); err != nil {
		return nil, err
	}
	if nPoints < k {
		return nil, errors.Wrapf(ErrInsufficientRank, "2nd-degree polynomial fit needs at least %d correspondence points, got %d", k, nPoints)
	}

	a := mat.NewDense(nPoints, k, nil)
	b := mat.NewDense(nPoints, 2, nil)
	for i := 0; i < nPoints; i++ {
		x := from[fromOff+2*i]
		y := from[fromOff+2*i+1]
		a.SetRow(i, []float64{1, x, x * x, y, y * x, y * y})
		b.Set(i, 0, to[toOff+2*i])
		b.Set(i, 1, to[toOff+2*i+1])
	}

	sol, err := solveFit(a, b, k)
	if err != nil {
		return nil, err
	}
	return NewPoly2Transform(concatAxes(sol, k), nil)
}

// FitPoly3 fits a 3rd-degree polynomial transform that maps the 2D
// fromPoints onto the 2D toPoints. Points are read as interleaved
// (x0, y0, x1, y1, ...) starting at the given offsets. At least 10
// correspondence points are needed, more if the points are degenerate; with
// more than 10 the least-squares optimum is returned.
//
// Design-matrix columns are laid out directly in the fixed evaluator's term
// order [1, x, y, xy, x², y², x²y, xy², x³, y³], so no coefficient reordering
// is needed here.
func FitPoly3(from []float64, fromOff int, to []float64, toOff, nPoints int) (*Poly3Transform, error) {
	const k = 10
	if err := checkCorrPoints(from, fromOff, to, toOff, nPoints); err != nil {
		return nil, err
	}
	if nPoints < k {
		return nil, errors.Wrapf(ErrInsufficientRank, "3rd-degree polynomial fit needs at least %d correspondence points, got %d", k, nPoints)
	}

	a := mat.NewDense(nPoints, k, nil)
	b := mat.NewDense(nPoints, 2, nil)
	for i := 0; i < nPoints; i++ {
		x := from[fromOff+2*i]
		y := from[fromOff+2*i+1]
		a.SetRow(i, []float64{
			1, x, y, x * y, x * x, y * y,
			x * x * y, y * y * x, x * x * x, y * y * y,
		})
		b.Set(i, 0, to[toOff+2*i])
		b.Set(i, 1, to[toOff+2*i+1])
	}

	sol, err := solveFit(a, b, k)
	if err != nil {
		return nil, err
	}
	return NewPoly3Transform(concatAxes(sol, k), nil)
}

// FitPoly fits a polynomial transform of the given degree that maps the 2D
// fromPoints onto the 2D toPoints. Points are read as interleaved
// (x0, y0, x1, y1, ...) starting at the given offsets. At least
// PolyTermCount(degree) correspondence points are needed, more if the points
// are degenerate; with more the least-squares optimum is returned.
//
// Degrees 1 through 3 are decoded into the specialized transform types:
// degree 1 yields a *LinearTransform, 2 a *Poly2Transform, and 3 a
// *Poly3Transform with its coefficients permuted from enumeration order into
// the fixed evaluator's layout. Higher degrees yield a *PolyNTransform with
// interleaved coefficients.
func FitPoly(from []float64, fromOff int, to []float64, toOff, nPoints, degree int) (PolyTransform2D, error) {
	if degree < 1 {
		return nil, errors.Wrapf(ErrIllegalValue, "polynomial degree must be at least 1, got %d", degree)
	}
	if err := checkCorrPoints(from, fromOff, to, toOff, nPoints); err != nil {
		return nil, err
	}
	k := PolyTermCount(degree)
	if nPoints < k {
		return nil, errors.Wrapf(ErrInsufficientRank, "degree-%d polynomial fit needs at least %d correspondence points, got %d", degree, k, nPoints)
	}

	a := mat.NewDense(nPoints, k, nil)
	b := mat.NewDense(nPoints, 2, nil)
	row := make([]float64, k)
	for i := 0; i < nPoints; i++ {
		x := from[fromOff+2*i]
		y := from[fromOff+2*i+1]

		yy := 1.0
		col := 0
		for py := 0; py <= degree; py++ {
			xx := 1.0
			for px := degree - py; px >= 0; px-- {
				row[col] = xx * yy
				col++
				xx *= x
			}
			yy *= y
		}
		a.SetRow(i, row)
		b.Set(i, 0, to[toOff+2*i])
		b.Set(i, 1, to[toOff+2*i+1])
	}

	sol, err := solveFit(a, b, k)
	if err != nil {
		return nil, err
	}

	switch degree {
	case 1:
		// enumeration order is [1, x, y], matching the closed-form fields.
		return NewLinearTransform(
			sol.At(0, 0), sol.At(1, 0), sol.At(2, 0),
			sol.At(0, 1), sol.At(1, 1), sol.At(2, 1),
		), nil
	case 2:
		// enumeration order already matches the fixed evaluator's layout.
		return NewPoly2Transform(concatAxes(sol, k), nil)
	case 3:
		cf := make([]float64, 2*k)
		for i, src := range poly3Reorder {
			cf[i] = sol.At(src, 0)
			cf[k+i] = sol.At(src, 1)
		}
		return NewPoly3Transform(cf, nil)
	default:
		cf := make([]float64, 2*k)
		for i := 0; i < k; i++ {
			cf[2*i] = sol.At(i, 0)
			cf[2*i+1] = sol.At(i, 1)
		}
		return NewPolyNTransform(degree, cf, nil)
	}
}

// concatAxes flattens a k x 2 coefficient solution into axis 0's k values
// followed by axis 1's.
func concatAxes(sol *mat.Dense, k int) []float64 {
	cf := make([]float64, 2*k)
	for i := 0; i < k; i++ {
		cf[i] = sol.At(i, 0)
		cf[k+i] = sol.At(i, 1)
	}
	return cf
}
