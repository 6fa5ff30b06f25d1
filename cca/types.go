package cca

import (
	"errors"
	"log/slog"

	"github.com/neurodec/levelcca/tensor"
	"github.com/neurodec/levelcca/weights"
	"gonum.org/v1/gonum/mat"
)

// ErrBadSeed indicates that SeedWeights has the wrong length for the
// number of outputs in the statistics.
var ErrBadSeed = errors.New("cca: seed weight length mismatch")

// ErrSVDFailed indicates that the singular value decomposition of the
// whitened cross matrix did not converge.
var ErrSVDFailed = errors.New("cca: svd failed to converge")

// IterationEvent carries the per-iteration diagnostics delivered to an
// Observer. The S slice is a copy; observers may retain it.
type IterationEvent struct {
	Iter     int
	JPre     float64 // objective under the incoming weights
	JPost    float64 // objective under the updated weights
	DeltaS   float64 // L1 change in the weight vector
	DeltaJ   float64 // absolute change in the objective
	S        []float64
	Unstable bool // non-finite weights were detected and discarded
}

// Observer receives a callback at every optimizer iteration boundary.
// Implementations must not block; the optimizer invokes them synchronously.
type Observer interface {
	OnIteration(IterationEvent)
}

// Options configures Decompose.
type Options struct {
	// Rank is the number of canonical component pairs to retain. Values
	// below 1 are treated as 1. The effective rank may be lower when the
	// whitened cross matrix has fewer components available.
	Rank int

	// RegX and RegY are the ridge strengths for the spatial and temporal
	// whiteners respectively.
	RegX float64
	RegY float64

	// RcondX and RcondY are the rank/tolerance cutoffs for the spatial and
	// temporal whiteners. See whiten.Options for the sign conventions.
	RcondX float64
	RcondY float64

	// Tol stops the alternation when either the L1 change in the output
	// weights or the absolute change in the objective falls below it
	// (default 1e-3).
	Tol float64

	// MaxIter caps the number of alternating iterations (default 100).
	MaxIter int

	// Weights configures the constrained output-weight sub-solver.
	Weights weights.Options

	// SeedWeights, when non-nil, replaces the uniform initial output
	// weighting. Length must equal the number of outputs.
	SeedWeights []float64

	// Observer, when non-nil, is invoked once per iteration.
	Observer Observer

	// Logger receives numerical-instability warnings. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the standard optimizer configuration.
func DefaultOptions() Options {
	return Options{
		Rank:    1,
		RegX:    1e-9,
		RegY:    1e-9,
		RcondX:  1e-8,
		RcondY:  1e-8,
		Tol:     1e-3,
		MaxIter: 100,
		Weights: weights.DefaultOptions(),
	}
}

// Result is the factored model produced by one optimizer run.
type Result struct {
	// J is the final objective value.
	J float64

	// W holds the spatial filters, one component per row (rank×d).
	W *mat.Dense

	// R holds the temporal responses, indexed (component, event, lag).
	R *tensor.Dense3

	// S is the final output weighting: non-negative, sums to 1.
	S []float64

	// EffectiveRank counts retained components with strictly positive
	// singular value; it may be lower than the requested rank.
	EffectiveRank int

	// Trace records {JPre, JPost} for each executed iteration.
	Trace [][2]float64

	// Iterations is the number of executed iterations, len(Trace).
	Iterations int
}
