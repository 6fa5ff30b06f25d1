package weights_test

import (
	"math/rand"
	"testing"

	"github.com/neurodec/levelcca/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// randomGram builds a seeded symmetric positive-definite n×n matrix.
func randomGram(n int, seed int64) *mat.SymDense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, rng.NormFloat64())
		}
	}
	var mmT mat.Dense
	mmT.Mul(m, m.T())

	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := mmT.At(i, j)
			if i == j {
				v += float64(n) // keep well conditioned
			}
			g.SetSym(i, j, v)
		}
	}

	return g
}

// objective evaluates energy − 2·s·cross + sᵀ·gram·s.
func objective(energy float64, cross []float64, gram *mat.SymDense, s []float64) float64 {
	n := len(s)
	j := energy
	for i := 0; i < n; i++ {
		j -= 2 * cross[i] * s[i]
		for k := 0; k < n; k++ {
			j += s[i] * gram.At(i, k) * s[k]
		}
	}

	return j
}

// allModes enumerates every defined update rule.
func allModes() []weights.Mode {
	return []weights.Mode{
		weights.NegRidge,
		weights.LeastSquares,
		weights.LeastSquaresClamp,
		weights.ExpGrad,
		weights.GradDescent,
		weights.MultUpdate,
	}
}

// TestSolve_SimplexInvariants checks that every mode returns non-negative
// weights summing to one.
func TestSolve_SimplexInvariants(t *testing.T) {
	const n = 4
	gram := randomGram(n, 1)
	rng := rand.New(rand.NewSource(2))
	cross := make([]float64, n)
	for i := range cross {
		cross[i] = rng.NormFloat64()
	}
	seed := []float64{0.25, 0.25, 0.25, 0.25}

	for _, mode := range allModes() {
		opts := weights.DefaultOptions()
		opts.Mode = mode

		s, err := weights.Solve(1.0, cross, gram, seed, opts)
		require.NoError(t, err, "mode %v", mode)
		require.Len(t, s, n, "mode %v", mode)

		var sum float64
		for i, v := range s {
			assert.GreaterOrEqual(t, v, 0.0, "mode %v entry %d", mode, i)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "mode %v sum", mode)
	}
}

// TestSolve_NeverWorse verifies the best-iterate guarantee: the returned
// weights never score worse than the seed under the unridged objective.
func TestSolve_NeverWorse(t *testing.T) {
	const n = 5
	gram := randomGram(n, 3)
	rng := rand.New(rand.NewSource(4))
	cross := make([]float64, n)
	for i := range cross {
		cross[i] = rng.NormFloat64()
	}
	seed := []float64{0.4, 0.3, 0.15, 0.1, 0.05}

	for _, mode := range allModes() {
		opts := weights.DefaultOptions()
		opts.Mode = mode

		s, err := weights.Solve(2.0, cross, gram, seed, opts)
		require.NoError(t, err, "mode %v", mode)

		jSeed := objective(2.0, cross, gram, seed)
		jOut := objective(2.0, cross, gram, s)
		assert.LessOrEqual(t, jOut, jSeed+1e-8, "mode %v", mode)
	}
}

// TestSolve_ZeroGramPassthrough checks the no-information short circuit.
func TestSolve_ZeroGramPassthrough(t *testing.T) {
	gram := mat.NewSymDense(3, nil)
	seed := []float64{0.5, 0.3, 0.2}
	cross := []float64{1, 2, 3}

	s, err := weights.Solve(0, cross, gram, seed, weights.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, seed, s)

	// The result must be a fresh slice, not an alias of the seed.
	s[0] = -1
	assert.Equal(t, 0.5, seed[0])
}

// TestSolve_SeedNotMutated ensures Solve leaves its input untouched.
func TestSolve_SeedNotMutated(t *testing.T) {
	gram := randomGram(3, 5)
	seed := []float64{0.2, 0.3, 0.5}
	orig := []float64{0.2, 0.3, 0.5}
	cross := []float64{0.1, -0.2, 0.3}

	_, err := weights.Solve(1.0, cross, gram, seed, weights.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, orig, seed)
}

// TestSolve_LeastSquaresIdentity solves the trivial identity-gram problem,
// whose unconstrained optimum already lies on the simplex.
func TestSolve_LeastSquaresIdentity(t *testing.T) {
	gram := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	cross := []float64{0.7, 0.2, 0.1}
	seed := []float64{1. / 3, 1. / 3, 1. / 3}

	opts := weights.Options{
		Mode:    weights.LeastSquares,
		MaxIter: 30,
		Tol:     1e-10,
		Ridge:   1e-8,
		Eps:     1e-9,
		Eta:     0.5,
	}
	s, err := weights.Solve(1.0, cross, gram, seed, opts)
	require.NoError(t, err)

	for i, want := range cross {
		assert.InDelta(t, want, s[i], 1e-4, "entry %d", i)
	}
}

// TestSolve_ZeroValueOptions checks that a zero-value Options gets every
// documented default, ridge and epsilon included: on a singular Gram
// matrix the unridged normal equations degenerate, so a missing ridge
// would hand back the seed instead of the solution.
func TestSolve_ZeroValueOptions(t *testing.T) {
	gram := mat.NewSymDense(3, []float64{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	})
	cross := []float64{1, 0.2, 0.1}
	seed := []float64{1. / 3, 1. / 3, 1. / 3}

	zero, err := weights.Solve(1.0, cross, gram, seed, weights.Options{})
	require.NoError(t, err)
	full, err := weights.Solve(1.0, cross, gram, seed, weights.DefaultOptions())
	require.NoError(t, err)

	for i := range full {
		assert.InDelta(t, full[i], zero[i], 1e-12, "entry %d", i)
	}
	assert.Greater(t, zero[0], 0.9, "the dominant cross term must win")
	jSeed := objective(1.0, cross, gram, seed)
	assert.Less(t, objective(1.0, cross, gram, zero), jSeed)
}

// TestSolve_Guards covers the validation failures.
func TestSolve_Guards(t *testing.T) {
	gram := randomGram(3, 6)
	seed := []float64{0.4, 0.3, 0.3}
	cross := []float64{1, 2, 3}

	_, err := weights.Solve(0, cross, nil, seed, weights.DefaultOptions())
	assert.ErrorIs(t, err, weights.ErrNilGram)

	_, err = weights.Solve(0, cross[:2], gram, seed, weights.DefaultOptions())
	assert.ErrorIs(t, err, weights.ErrDimensionMismatch)

	_, err = weights.Solve(0, cross, gram, seed[:2], weights.DefaultOptions())
	assert.ErrorIs(t, err, weights.ErrDimensionMismatch)

	bad := weights.DefaultOptions()
	bad.Mode = weights.Mode(99)
	_, err = weights.Solve(0, cross, gram, seed, bad)
	assert.ErrorIs(t, err, weights.ErrUnknownMode)

	bad.Mode = weights.Mode(-1)
	_, err = weights.Solve(0, cross, gram, seed, bad)
	assert.ErrorIs(t, err, weights.ErrUnknownMode)
}

// TestMode_String pins the wire names of the update rules.
func TestMode_String(t *testing.T) {
	assert.Equal(t, "negridge", weights.NegRidge.String())
	assert.Equal(t, "ls", weights.LeastSquares.String())
	assert.Equal(t, "lspos", weights.LeastSquaresClamp.String())
	assert.Equal(t, "expgrad", weights.ExpGrad.String())
	assert.Equal(t, "gd", weights.GradDescent.String())
	assert.Equal(t, "mu", weights.MultUpdate.String())
	assert.Equal(t, "unknown", weights.Mode(42).String())
	assert.False(t, weights.Mode(42).Valid())
	assert.True(t, weights.NegRidge.Valid())
}
