// Package sumstats defines the covariance summary statistics consumed by
// the level-weighted CCA optimizer, and the primitives that produce and
// reshape them.
//
// Three structures summarize a dataset of trial-aligned (input,
// event-indicator) pairs:
//
//	Cxx  (d,d)            — spatial covariance of the input channels
//	Cyx  (nY,nE,tau,d)    — cross covariance between each candidate
//	                        output's event indicators (per lag) and the
//	                        spatial channels
//	Cyy  (tau,nY,nE,nY,nE) — event-indicator autocovariance across outputs
//	                        and event types, compressed over the
//	                        lag-difference axis
//
// All three are additive: statistics accumulated over separate batches and
// merged with Stats.Add equal the statistics of the concatenated data, so
// partial sums may be combined transparently.
//
// ExpandCyy materializes the compressed autocovariance into explicit
// (lag,lag) form for contraction — covariance beyond the stored window is
// exactly zero (the zero-padded convention, reflecting finite-support
// impulse responses).
//
// Accumulate builds statistics from raw epochs, with median-based outlier
// epoch rejection and optional centering / unit-norm scaling.
package sumstats
