package weights

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// floor is the post-solve lower bound on every weight; it keeps the
// returned mixture away from exact zeros, which later divisions rely on.
const floor = 1e-6

// Solve minimizes J(s) = energy − 2·s·cross + sᵀ·gram·s over the simplex
// {s ≥ 0, Σs = 1}, starting from s, using the update rule in opts.Mode.
//
// Contracts:
//   - gram must be non-nil and nY×nY with len(cross) == len(s) == nY.
//   - s is not mutated; a fresh slice is returned.
//   - An identically-zero gram is the no-information case: the input s is
//     returned unchanged (copied), without solving.
//   - The returned weights satisfy sᵢ ≥ 0 and Σs == 1 (within float64
//     rounding), and never score worse than the input under J.
//
// Errors: ErrNilGram, ErrDimensionMismatch, ErrUnknownMode.
//
// Complexity: O(MaxIter · nY³) for the least-squares family,
// O(MaxIter · nY²) for the multiplicative/gradient rules.
func Solve(energy float64, cross []float64, gram *mat.SymDense, s []float64, opts Options) ([]float64, error) {
	if gram == nil {
		return nil, ErrNilGram
	}
	n := gram.SymmetricDim()
	if len(cross) != n || len(s) != n {
		return nil, ErrDimensionMismatch
	}
	if !opts.Mode.Valid() {
		return nil, ErrUnknownMode
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 30
	}
	if opts.Tol <= 0 {
		opts.Tol = 1e-4
	}
	if opts.Eta <= 0 {
		opts.Eta = 0.5
	}
	if opts.Ridge <= 0 {
		opts.Ridge = 1e-4
	}
	if opts.Eps <= 0 {
		opts.Eps = 1e-3
	}

	if isZero(gram) {
		out := make([]float64, n)
		copy(out, s)

		return out, nil
	}

	// Ridge the Gram matrix once so every least-squares step is solvable.
	ridged := mat.NewSymDense(n, nil)
	ridged.CopySym(gram)
	for i := 0; i < n; i++ {
		ridged.SetSym(i, i, ridged.At(i, i)+opts.Ridge)
	}

	objective := func(c *mat.SymDense, v []float64) float64 {
		quad := 0.0
		lin := 0.0
		for i := 0; i < n; i++ {
			lin += cross[i] * v[i]
			for j := 0; j < n; j++ {
				quad += v[i] * c.At(i, j) * v[j]
			}
		}

		return energy - 2*lin + quad
	}

	// finalize clamps away from zero and restores the sum constraint,
	// producing the form in which candidates are compared and returned.
	finalize := func(v []float64) []float64 {
		out := make([]float64, n)
		var sum float64
		for i := range v {
			out[i] = v[i]
			if out[i] < floor {
				out[i] = floor
			}
			sum += out[i]
		}
		for i := range out {
			out[i] /= sum
		}

		return out
	}

	cur := make([]float64, n)
	copy(cur, s)

	// Track the best finalized iterate under the caller's (unridged)
	// objective, seeded with the input: the update must never make things
	// worse than where it started.
	best := finalize(s)
	bestJ := objective(gram, best)

	j := objective(ridged, cur)
	for iter := 0; iter < opts.MaxIter; iter++ {
		oj := j

		next := step(opts.Mode, ridged, cross, cur, opts.Eta)
		if next == nil {
			break // degenerate linear system even after ridging
		}

		// Project onto the sum constraint, nudged off the boundary.
		var sum float64
		for i := range next {
			next[i] += opts.Eps
			sum += next[i]
		}
		if sum == 0 {
			for i := range next {
				next[i] = 1.0 / float64(n)
			}
		} else {
			for i := range next {
				next[i] /= sum
			}
		}
		cur = next

		if cand := finalize(cur); objective(gram, cand) < bestJ {
			bestJ = objective(gram, cand)
			best = cand
		}

		j = objective(ridged, cur)
		if math.Abs(oj-j) < opts.Tol {
			break
		}
	}

	return best, nil
}

// step applies one update of the selected rule and returns the raw
// (pre-projection) iterate, or nil when the linear solve degenerates.
func step(mode Mode, c *mat.SymDense, cross, cur []float64, eta float64) []float64 {
	n := len(cur)
	next := make([]float64, n)

	switch mode {
	case LeastSquares:
		if !solveSPD(c, cross, next) {
			return nil
		}

	case LeastSquaresClamp:
		if !solveSPD(c, cross, next) {
			return nil
		}
		for i := range next {
			if next[i] < 0 {
				next[i] = 0
			}
		}

	case ExpGrad:
		g := symMatVec(c, cur)
		for i := range next {
			next[i] = cur[i] * math.Exp(-eta*(g[i]-cross[i]))
		}

	case GradDescent:
		g := symMatVec(c, cur)
		for i := range next {
			next[i] = cur[i] - eta*1e-2*(g[i]-cross[i])
		}

	case MultUpdate:
		g := symMatVec(c, cur)
		for i := range next {
			next[i] = cur[i] * math.Abs(cross[i]) / (g[i] + 1e-6)
		}

	case NegRidge:
		// Inflate the diagonal of currently-negative coordinates so the
		// next least-squares solution is pushed back into the feasible set.
		var meanDiag float64
		for i := 0; i < n; i++ {
			meanDiag += c.At(i, i)
		}
		meanDiag /= float64(n)

		cn := mat.NewSymDense(n, nil)
		cn.CopySym(c)
		for i := range cur {
			if cur[i] < 0 {
				cn.SetSym(i, i, cn.At(i, i)+10*meanDiag)
			}
		}
		if !solveSPD(cn, cross, next) {
			return nil
		}

	default:
		return nil // unreachable: Mode validated in Solve
	}

	return next
}

// solveSPD solves c·x = b for symmetric positive-definite c via Cholesky,
// falling back to an eigendecomposition pseudo-inverse for semidefinite
// corner cases. Reports false only when both factorizations fail.
func solveSPD(c *mat.SymDense, b, x []float64) bool {
	n := c.SymmetricDim()

	var chol mat.Cholesky
	if chol.Factorize(c) {
		var xv mat.VecDense
		if err := chol.SolveVecTo(&xv, mat.NewVecDense(n, b)); err == nil {
			for i := 0; i < n; i++ {
				x[i] = xv.AtVec(i)
			}

			return true
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(c, true); !ok {
		return false
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	var lmax float64
	for _, v := range vals {
		if v > lmax {
			lmax = v
		}
	}
	if lmax <= 0 {
		return false
	}
	cutoff := 1e-12 * lmax

	// x = V·Λ⁺·Vᵀ·b over retained eigenvalues.
	for i := range x {
		x[i] = 0
	}
	for k := 0; k < n; k++ {
		if vals[k] <= cutoff {
			continue
		}
		var proj float64
		for i := 0; i < n; i++ {
			proj += vecs.At(i, k) * b[i]
		}
		proj /= vals[k]
		for i := 0; i < n; i++ {
			x[i] += vecs.At(i, k) * proj
		}
	}

	return true
}

// symMatVec computes c·v for a symmetric matrix.
func symMatVec(c *mat.SymDense, v []float64) []float64 {
	n := c.SymmetricDim()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var acc float64
		for j := 0; j < n; j++ {
			acc += c.At(i, j) * v[j]
		}
		out[i] = acc
	}

	return out
}

// isZero reports whether every entry of c is exactly zero.
func isZero(c *mat.SymDense) bool {
	n := c.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if c.At(i, j) != 0 {
				return false
			}
		}
	}

	return true
}
