package weights

import "errors"

// ErrUnknownMode is returned for a Mode outside the defined set. Unknown
// sub-solvers fail immediately; they never silently fall back to a default.
var ErrUnknownMode = errors.New("weights: unknown update mode")

// ErrDimensionMismatch indicates that cross, gram and the seed weights
// disagree on the number of outputs.
var ErrDimensionMismatch = errors.New("weights: dimension mismatch")

// ErrNilGram indicates a nil Gram matrix.
var ErrNilGram = errors.New("weights: nil gram matrix")

// Mode selects the update rule used by Solve. The zero value is NegRidge,
// the default strategy.
type Mode int

const (
	// NegRidge is iteratively-reweighted least squares: coordinates that are
	// currently negative get their diagonal term inflated by 10× the mean
	// diagonal, pushing the next least-squares solution toward feasibility.
	NegRidge Mode = iota

	// LeastSquares solves the ridged normal equations, ignoring the
	// non-negativity constraint (the projection still enforces it weakly).
	LeastSquares

	// LeastSquaresClamp solves least squares, then clamps negatives to zero.
	LeastSquaresClamp

	// ExpGrad applies an exponentiated-gradient multiplicative update,
	// which preserves positivity by construction.
	ExpGrad

	// GradDescent takes a plain scaled gradient-descent step.
	GradDescent

	// MultUpdate applies an NMF-style multiplicative update.
	MultUpdate

	numModes // sentinel for validation; keep last
)

// Valid reports whether m names a defined update rule.
func (m Mode) Valid() bool { return m >= NegRidge && m < numModes }

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case NegRidge:
		return "negridge"
	case LeastSquares:
		return "ls"
	case LeastSquaresClamp:
		return "lspos"
	case ExpGrad:
		return "expgrad"
	case GradDescent:
		return "gd"
	case MultUpdate:
		return "mu"
	default:
		return "unknown"
	}
}

// Options configures Solve.
//   - Mode: update rule (default NegRidge).
//   - MaxIter: iteration cap (default 30).
//   - Tol: stop when |ΔJ| between iterations falls below this (default 1e-4).
//   - Ridge: diagonal loading added to gram to guarantee invertibility
//     (default 1e-4).
//   - Eps: simplex-projection offset keeping entries strictly positive
//     (default 1e-3).
//   - Eta: learning rate for ExpGrad and GradDescent (default 0.5).
type Options struct {
	Mode    Mode
	MaxIter int
	Tol     float64
	Ridge   float64
	Eps     float64
	Eta     float64
}

// DefaultOptions returns the standard solver configuration.
func DefaultOptions() Options {
	return Options{
		Mode:    NegRidge,
		MaxIter: 30,
		Tol:     1e-4,
		Ridge:   1e-4,
		Eps:     1e-3,
		Eta:     0.5,
	}
}
