// Package weights solves the constrained output-weighting subproblem of
// the level-weighted CCA optimizer:
//
//	minimize  J(s) = energy − 2·s·cross + sᵀ·gram·s
//	subject to s ≥ 0 (component-wise) and Σs = 1
//
// where energy is the x-side energy under the current filters, cross the
// per-output cross term, and gram the output-output Gram matrix of the
// reduced problem.
//
// Six interchangeable update rules drive the iteration, selected by a
// closed Mode enum (never by open string dispatch):
//
//	LeastSquares      — unconstrained ridged least squares
//	LeastSquaresClamp — least squares, then clamp negatives to zero
//	ExpGrad           — exponentiated-gradient multiplicative update
//	GradDescent       — plain gradient step
//	MultUpdate        — NMF-style multiplicative update
//	NegRidge          — iteratively-reweighted least squares that inflates
//	                    the diagonal of currently-negative coordinates
//	                    (the default)
//
// After every update the iterate is projected onto the simplex by adding a
// small epsilon and renormalizing; the epsilon also keeps entries strictly
// positive, which protects later divisions downstream. On return the
// weights are floored at 1e-6 and renormalized to sum exactly 1.
//
// The solver never increases the objective: the best iterate seen
// (including the input) is the one returned.
package weights
