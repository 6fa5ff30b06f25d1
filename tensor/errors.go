package tensor

import "errors"

// ErrInvalidDimensions indicates that a requested tensor extent is non-positive.
var ErrInvalidDimensions = errors.New("tensor: dimensions must be > 0")

// ErrIndexOutOfBounds indicates that an index lies outside the valid range
// of its axis. Public accessors (At/Set) MUST return this, not panic.
var ErrIndexOutOfBounds = errors.New("tensor: index out of bounds")

// ErrShapeMismatch indicates incompatible extents between two operands,
// e.g. Add over tensors whose axes disagree.
var ErrShapeMismatch = errors.New("tensor: shape mismatch")
