package whiten

import "errors"

// ErrNilMatrix indicates that a nil covariance matrix was passed in.
var ErrNilMatrix = errors.New("whiten: nil covariance matrix")

// ErrEigenFailed indicates that the symmetric eigendecomposition did not
// converge. This is rare for finite inputs and usually means NaN/Inf
// contamination upstream.
var ErrEigenFailed = errors.New("whiten: eigendecomposition failed")

// Options configures a whitening computation.
//   - Reg: ridge added to every eigenvalue before truncation (shrinkage
//     toward isotropy; guards near-singular covariances).
//   - Rcond: rank/tolerance cutoff; see the package documentation for the
//     three sign conventions.
//   - Symmetric: build V·diag(1/√λ)·Vᵀ (n×n) instead of the one-sided
//     V·diag(1/√λ) (n×rank) form.
type Options struct {
	Reg       float64
	Rcond     float64
	Symmetric bool
}

// DefaultOptions returns the standard configuration: a tiny ridge, a
// relative magnitude cutoff of 1e-8, one-sided form.
func DefaultOptions() Options {
	return Options{Reg: 1e-9, Rcond: 1e-8}
}
