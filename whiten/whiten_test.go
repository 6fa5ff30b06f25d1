package whiten_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/neurodec/levelcca/whiten"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// randomSPD builds a full-rank symmetric positive-definite matrix
// M·Mᵀ + I from a seeded generator.
func randomSPD(n int, seed int64) *mat.SymDense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, rng.NormFloat64())
		}
	}
	var prod mat.Dense
	prod.Mul(m, m.T())
	spd := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := prod.At(i, j)
			if i == j {
				v += 1.0
			}
			spd.SetSym(i, j, v)
		}
	}

	return spd
}

// diagSPD builds a diagonal SPD matrix with the given spectrum, so the
// retained rank under each cutoff convention is exactly predictable.
func diagSPD(spectrum []float64) *mat.SymDense {
	n := len(spectrum)
	d := mat.NewSymDense(n, nil)
	for i, v := range spectrum {
		d.SetSym(i, i, v)
	}

	return d
}

// TestWhiten_NilInput verifies the nil guard.
func TestWhiten_NilInput(t *testing.T) {
	_, _, err := whiten.Whiten(nil, whiten.DefaultOptions())
	assert.ErrorIs(t, err, whiten.ErrNilMatrix)
}

// TestWhiten_Idempotence checks Wᵀ·C·W ≈ I for a full-rank SPD input with
// vanishing regularization, in both symmetric and one-sided forms.
func TestWhiten_Idempotence(t *testing.T) {
	const n = 6
	c := randomSPD(n, 1)

	for _, symmetric := range []bool{false, true} {
		w, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: 1e-12, Symmetric: symmetric})
		require.NoError(t, err)
		require.Equal(t, n, rank, "full-rank input must retain all components")

		var cw, wcw mat.Dense
		cw.Mul(c, w)
		wcw.Mul(w.T(), &cw)

		r, cc := wcw.Dims()
		require.Equal(t, n, r)
		require.Equal(t, n, cc)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.InDelta(t, want, wcw.At(i, j), 1e-8,
					"WᵀCW must be identity (symmetric=%v, entry %d,%d)", symmetric, i, j)
			}
		}
	}
}

// TestWhiten_RankTruncation_Count checks that rcond ≤ -1 keeps exactly
// that many components.
func TestWhiten_RankTruncation_Count(t *testing.T) {
	c := diagSPD([]float64{4, 1, 0.25, 0.01})

	w, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: -2})
	require.NoError(t, err)
	assert.Equal(t, 2, rank, "rcond=-2 must keep exactly 2 components")

	r, cols := w.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, cols, "one-sided whitener has rank columns")
}

// TestWhiten_RankTruncation_Relative checks the positive (relative
// magnitude) cutoff convention.
func TestWhiten_RankTruncation_Relative(t *testing.T) {
	c := diagSPD([]float64{4, 1, 0.25, 0.01})

	// Cutoff 0.1·λmax = 0.4 drops 0.25 and 0.01.
	_, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}

// TestWhiten_RankTruncation_MassFraction checks the fractional (negative,
// > -1) cutoff convention: keep the smallest leading set covering the
// requested share of total eigenvalue mass.
func TestWhiten_RankTruncation_MassFraction(t *testing.T) {
	c := diagSPD([]float64{4, 1, 0.25, 0.01})

	// Total mass 5.26; 0.8·5.26 = 4.208 needs {4, 1}.
	_, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: -0.8})
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	// A tiny fraction still keeps the leading component.
	_, rank, err = whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: -0.01})
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
}

// TestWhiten_DegenerateZero verifies that an all-zero covariance produces a
// zero-rank whitener instead of an error or a division by zero.
func TestWhiten_DegenerateZero(t *testing.T) {
	c := mat.NewSymDense(3, nil)

	w, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: 1e-8})
	require.NoError(t, err, "degenerate input must not fail")
	assert.Equal(t, 0, rank)

	r, cols := w.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, cols, "minimal-rank placeholder shape")
	for i := 0; i < r; i++ {
		assert.Zero(t, w.At(i, 0), "degenerate whitener must be all-zero")
	}
}

// TestWhiten_TruncatedSubspaceIdentity checks that with truncation the
// quadratic form is identity on the retained subspace only.
func TestWhiten_TruncatedSubspaceIdentity(t *testing.T) {
	c := diagSPD([]float64{9, 4, 1e-12})

	w, rank, err := whiten.Whiten(c, whiten.Options{Reg: 0, Rcond: 1e-6})
	require.NoError(t, err)
	require.Equal(t, 2, rank)

	var cw, wcw mat.Dense
	cw.Mul(c, w)
	wcw.Mul(w.T(), &cw)

	for i := 0; i < rank; i++ {
		for j := 0; j < rank; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, wcw.At(i, j), 1e-8)
		}
	}
}

// TestWhiten_RidgeShiftsSpectrum confirms that Reg acts as eigenvalue
// shrinkage: a large ridge pulls the whitened quadratic form below identity.
func TestWhiten_RidgeShiftsSpectrum(t *testing.T) {
	c := diagSPD([]float64{1, 1})

	w, rank, err := whiten.Whiten(c, whiten.Options{Reg: 1.0, Rcond: 0})
	require.NoError(t, err)
	require.Equal(t, 2, rank)

	// λ+reg = 2, so Wᵀ C W = diag(1/2).
	var cw, wcw mat.Dense
	cw.Mul(c, w)
	wcw.Mul(w.T(), &cw)
	assert.InDelta(t, 0.5, wcw.At(0, 0), 1e-12)
	assert.True(t, math.Abs(wcw.At(0, 1)) < 1e-12)
}
