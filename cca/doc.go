// Package cca implements the alternating level-weighted canonical
// correlation optimizer, the top of the levelcca stack.
//
// Given accumulated covariance statistics (sumstats.Stats), Decompose
// alternates two steps until convergence:
//
//  1. For the current output weighting S, contract the cross and temporal
//     covariances with S, whiten both sides, and extract the top-rank
//     canonical components by singular value decomposition. Mapping the
//     singular vectors back through the whiteners yields spatial filters W
//     and temporal responses R that apply to un-whitened data.
//  2. For the fixed W and R, reduce the problem to a scalar energy, a
//     per-output cross term and an output-output Gram matrix, and
//     re-estimate S with the constrained solver in package weights.
//
// The loop stops when either the L1 change in S or the absolute change in
// the objective J falls below Tol, or after MaxIter iterations. The
// returned filters and responses are rescaled by the square root of the
// relative singular values so component magnitude is meaningful downstream.
//
// Degenerate inputs never panic: rank-deficient covariances reduce the
// effective rank, an all-zero reduced Gram matrix leaves S untouched, and
// non-finite weight updates are logged and discarded in favor of the last
// valid iterate.
package cca
