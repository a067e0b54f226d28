// Package lsq wraps the numerical kernel used for correspondence fitting: a
// minimum-norm least-squares solve via singular value decomposition, and
// general square-matrix inversion. The kernel is gonum; the seam is kept
// narrow so it stays swappable and testable with known-answer systems.
package lsq

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDidNotConverge is returned when the SVD iteration fails.
	ErrDidNotConverge = errors.New("singular value decomposition did not converge")
	// ErrShape is returned when matrix dimensions do not line up.
	ErrShape = errors.New("matrix dimensions do not match")
	// ErrSingular is returned by InvertSquare for a singular matrix.
	ErrSingular = errors.New("matrix is singular to working precision")
)

// SolveMinNorm solves the least-squares problem min ||a*x - b|| for each
// column of b and returns the solution along with the numerical rank of a.
// Singular values at or below rcond times the largest singular value are
// treated as zero when counting rank, and the solve is truncated to that
// rank, so rank-deficient systems still yield the minimum-norm minimizer.
func SolveMinNorm(a, b *mat.Dense, rcond float64) (*mat.Dense, int, error) {
	am, an := a.Dims()
	bm, bn := b.Dims()
	if am != bm {
		return nil, 0, errors.Wrapf(ErrShape, "%dx%d system with %dx%d right-hand side", am, an, bm, bn)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, 0, errors.Wrapf(ErrDidNotConverge, "factorizing %dx%d design matrix", am, an)
	}

	vals := svd.Values(nil)
	rank := 0
	if len(vals) > 0 {
		tol := rcond * vals[0]
		for _, v := range vals {
			if v > tol {
				rank++
			}
		}
	}

	x := mat.NewDense(an, bn, nil)
	if rank == 0 {
		return x, 0, nil
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// x = V_r * diag(1/s_i) * U_r' * b, truncated to the numerical rank.
	var proj mat.Dense
	proj.Mul(u.Slice(0, am, 0, rank).T(), b)
	for i := 0; i < rank; i++ {
		for j := 0; j < bn; j++ {
			proj.Set(i, j, proj.At(i, j)/vals[i])
		}
	}
	x.Mul(v.Slice(0, an, 0, rank), &proj)
	return x, rank, nil
}

// InvertSquare returns the inverse of the square matrix a. An ill-conditioned
// but computable inverse is returned as success; only a singular matrix is an
// error.
func InvertSquare(a *mat.Dense) (*mat.Dense, error) {
	m, n := a.Dims()
	if m != n {
		return nil, errors.Wrapf(ErrShape, "cannot invert %dx%d matrix", m, n)
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return nil, errors.Wrapf(ErrSingular, "inverting %dx%d matrix", m, n)
		}
	}
	return &inv, nil
}
