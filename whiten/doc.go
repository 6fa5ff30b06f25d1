// Package whiten computes regularized, rank-truncated inverse square roots
// ("whiteners") of symmetric positive-semidefinite covariance matrices.
//
// Given a covariance C, the whitener W satisfies Wᵀ·C·W ≈ I on the retained
// eigen-subspace. The computation eigen-decomposes C, adds a ridge to the
// eigenvalues, truncates the basis according to a cutoff policy, and builds
//
//	W = V · diag(1/√λ) · Vᵀ   (symmetric form)
//	W = V · diag(1/√λ)        (one-sided form)
//
// Cutoff policy (Options.Rcond), all three conventions significant:
//   - rcond > 0   — drop eigenvalues ≤ rcond·λmax (relative magnitude cutoff)
//   - −1 < rcond < 0 — keep the smallest leading set of eigenvalues covering
//     the fraction −rcond of the total eigenvalue mass
//   - rcond ≤ −1  — keep exactly int(−rcond) components
//
// Eigenvalues at or below the cutoff (and all non-positive eigenvalues) are
// dropped from the basis entirely; the effective rank shrinks instead of any
// division by zero taking place. When everything is dropped, a zero-rank
// whitener is returned without error — degenerate inputs degrade, they do
// not fail the run.
package whiten
