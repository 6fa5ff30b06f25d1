// Package levelcca is an in-memory toolkit for learning factored
// spatio-temporal models from multichannel time-series summary statistics,
// when the target output is itself an unknown convex mixture of candidate
// "levels".
//
// 🚀 What is levelcca?
//
//	A pure-numeric library that alternates between whitened generalized
//	CCA and a constrained output-weight update:
//		• Summary statistics: additive covariance accumulation from epochs
//		• Whitening: regularized, rank-truncated inverse square roots
//		• Tensors: compressed lag-structured autocovariances + expansion
//		• Weights: six pluggable non-negative quadratic minimizers
//		• Optimizer: alternating CCA / weight loop with convergence tracing
//
// ✨ Why choose levelcca?
//
//   - Deterministic – no global state, no hidden randomness
//   - Robust – degenerate and rank-deficient inputs degrade, never panic
//   - Observable – per-iteration callbacks and optional structured logging
//   - Small API – options structs, sentinel errors, value-semantics results
//
// Everything is organized under five subpackages:
//
//	tensor/   — flat row-major dense tensors of order 3–6
//	whiten/   — regularized inverse-square-root whitening
//	sumstats/ — covariance containers, accumulation & lag expansion
//	weights/  — constrained output-weight sub-solvers
//	cca/      — the alternating level-weighted CCA optimizer
//
// Quick sketch:
//
//	st, _ := sumstats.Accumulate(nil, X, Y, sumstats.DefaultAccumOptions(15))
//	res, _ := cca.Decompose(st, cca.DefaultOptions())
//	// res.W (spatial filters), res.R (temporal responses), res.S (level weights)
//
// Dive into each package's doc.go for contracts, complexity notes and
// worked examples.
//
//	go get github.com/neurodec/levelcca
package levelcca
