package whiten

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Whiten computes a regularized, rank-truncated inverse square root of the
// symmetric PSD matrix c.
//
// Contracts:
//   - c must be non-nil; n := c.SymmetricDim().
//   - The returned matrix W satisfies Wᵀ·c·W ≈ I restricted to the retained
//     eigen-subspace (exact as Reg→0 for full-rank inputs).
//   - Shape: n×n for the symmetric form, n×rank for the one-sided form
//     (n×1 all-zero when rank is 0, so callers always get a usable matrix).
//
// Returns the whitener, the retained rank, and an error. A zero or fully
// rank-deficient input yields a zero whitener with rank 0 and nil error.
//
// Complexity: O(n³) for the eigendecomposition.
func Whiten(c *mat.SymDense, opts Options) (*mat.Dense, int, error) {
	if c == nil {
		return nil, 0, ErrNilMatrix
	}
	n := c.SymmetricDim()

	var es mat.EigenSym
	if ok := es.Factorize(c, true); !ok {
		return nil, 0, ErrEigenFailed
	}
	vals := es.Values(nil) // ascending order
	var vecs mat.Dense
	es.VectorsTo(&vecs) // column i pairs with vals[i]

	// Apply the ridge before truncation.
	for i := range vals {
		vals[i] += opts.Reg
	}

	keep := selectComponents(vals, opts.Rcond)
	rank := len(keep)
	if rank == 0 {
		// Degenerate input: all mass below the cutoff. Zero whitener.
		cols := n
		if !opts.Symmetric {
			cols = 1
		}

		return mat.NewDense(n, cols, nil), 0, nil
	}

	// B = V_kept · diag(1/√λ), n×rank.
	b := mat.NewDense(n, rank, nil)
	for j, idx := range keep {
		inv := 1.0 / math.Sqrt(vals[idx])
		for i := 0; i < n; i++ {
			b.Set(i, j, vecs.At(i, idx)*inv)
		}
	}
	if !opts.Symmetric {
		return b, rank, nil
	}

	// Symmetric form: W = B · V_keptᵀ, n×n.
	vk := mat.NewDense(n, rank, nil)
	for j, idx := range keep {
		for i := 0; i < n; i++ {
			vk.Set(i, j, vecs.At(i, idx))
		}
	}
	w := mat.NewDense(n, n, nil)
	w.Mul(b, vk.T())

	return w, rank, nil
}

// selectComponents returns the indices of the eigenvalues to retain,
// ordered by descending eigenvalue. vals is ascending (eigensolver order);
// non-positive eigenvalues are never retained.
func selectComponents(vals []float64, rcond float64) []int {
	n := len(vals)

	// Descending-order positive eigenvalue indices.
	desc := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		if vals[i] > 0 {
			desc = append(desc, i)
		}
	}
	if len(desc) == 0 {
		return nil
	}

	switch {
	case rcond > 0:
		// Relative magnitude cutoff against the largest eigenvalue.
		lmax := vals[desc[0]]
		keep := make([]int, 0, len(desc))
		for _, idx := range desc {
			if vals[idx] > rcond*lmax {
				keep = append(keep, idx)
			}
		}

		return keep

	case rcond <= -1:
		// Keep exactly this many components.
		k := int(-rcond)
		if k > len(desc) {
			k = len(desc)
		}

		return desc[:k]

	case rcond < 0:
		// Keep the smallest leading set covering -rcond of the total mass.
		var total float64
		for _, idx := range desc {
			total += vals[idx]
		}
		target := -rcond * total
		var cum float64
		for j, idx := range desc {
			cum += vals[idx]
			if cum >= target {
				return desc[:j+1]
			}
		}

		return desc

	default: // rcond == 0: keep every positive eigenvalue
		return desc
	}
}
