// Package tensor provides flat, row-major dense tensors of fixed order
// (3 to 6) over float64, used as backing storage for lag-structured
// covariance statistics.
//
// Design:
//   - Each type (Dense3 … Dense6) stores its extents plus a single flat
//     backing slice; the last axis varies fastest (row-major).
//   - Constructors validate extents (ErrInvalidDimensions); At/Set
//     bounds-check every index (ErrIndexOutOfBounds) and never panic.
//   - Hot loops may read/write the backing slice directly via Data();
//     offsets follow the documented layout.
//   - Add accumulates element-wise into the receiver, enabling the
//     additive, commutative partial-sum contract of summary statistics.
//
// Complexity: all accessors are O(1); Clone/Add/Scale are O(len(Data)).
package tensor
