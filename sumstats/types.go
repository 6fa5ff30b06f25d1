package sumstats

import (
	"errors"
	"fmt"

	"github.com/neurodec/levelcca/tensor"
	"gonum.org/v1/gonum/mat"
)

// ErrNilStats indicates a nil Stats value or a nil component matrix/tensor.
var ErrNilStats = errors.New("sumstats: nil statistics")

// ErrShapeMismatch indicates that the channel, output, event or lag counts
// disagree across Cxx, Cyx and Cyy (or between two Stats being merged).
var ErrShapeMismatch = errors.New("sumstats: shape mismatch")

// ErrBadWindow indicates an invalid lag window (Tau < 1 or beyond the
// epoch length).
var ErrBadWindow = errors.New("sumstats: invalid lag window")

// Stats bundles the three covariance structures the optimizer consumes.
// All fields are dense value-semantics arrays; Stats carries no hidden
// state beyond them.
type Stats struct {
	// Cxx is the d×d spatial covariance.
	Cxx *mat.SymDense
	// Cyx is the (nY,nE,tau,d) cross covariance.
	Cyx *tensor.Dense4
	// Cyy is the (tau,nY,nE,nY,nE) lag-difference-compressed autocovariance.
	Cyy *tensor.Dense5
}

// Dims returns (nY, nE, tau, d) as recorded by Cyx.
// Call Validate first if the Stats may be inconsistent.
func (s *Stats) Dims() (nY, nE, tau, d int) {
	return s.Cyx.Dims()
}

// Validate checks that all three structures are present and dimensionally
// consistent. It is the fatal entry gate for the optimizer: a mismatch in
// channel, output, event or lag counts surfaces immediately rather than as
// a numerical failure deep inside a contraction.
func (s *Stats) Validate() error {
	if s == nil || s.Cxx == nil || s.Cyx == nil || s.Cyy == nil {
		return ErrNilStats
	}

	nY, nE, tau, d := s.Cyx.Dims()
	if got := s.Cxx.SymmetricDim(); got != d {
		return fmt.Errorf("%w: Cxx is %d×%d, Cyx has %d channels", ErrShapeMismatch, got, got, d)
	}
	t0, y0, e0, y1, e1 := s.Cyy.Dims()
	if y0 != y1 || e0 != e1 {
		return fmt.Errorf("%w: Cyy output/event axes disagree (%d,%d vs %d,%d)", ErrShapeMismatch, y0, e0, y1, e1)
	}
	if t0 != tau || y0 != nY || e0 != nE {
		return fmt.Errorf("%w: Cyy is (tau=%d,nY=%d,nE=%d), Cyx is (tau=%d,nY=%d,nE=%d)",
			ErrShapeMismatch, t0, y0, e0, tau, nY, nE)
	}

	return nil
}

// Add accumulates o into the receiver. Both operands must validate and
// share identical dimensions. Addition is element-wise, so merging batch
// partial sums in any order yields the statistics of the concatenation.
func (s *Stats) Add(o *Stats) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}

	sy, se, st, sd := s.Dims()
	oy, oe, ot, od := o.Dims()
	if sy != oy || se != oe || st != ot || sd != od {
		return fmt.Errorf("%w: (%d,%d,%d,%d) vs (%d,%d,%d,%d)",
			ErrShapeMismatch, sy, se, st, sd, oy, oe, ot, od)
	}

	s.Cxx.AddSym(s.Cxx, o.Cxx)
	if err := s.Cyx.Add(o.Cyx); err != nil {
		return err
	}

	return s.Cyy.Add(o.Cyy)
}

// NewStats allocates zeroed statistics for the given dimensions.
func NewStats(nY, nE, tau, d int) (*Stats, error) {
	if nY <= 0 || nE <= 0 || tau <= 0 || d <= 0 {
		return nil, tensor.ErrInvalidDimensions
	}
	cyx, err := tensor.NewDense4(nY, nE, tau, d)
	if err != nil {
		return nil, err
	}
	cyy, err := tensor.NewDense5(tau, nY, nE, nY, nE)
	if err != nil {
		return nil, err
	}

	return &Stats{Cxx: mat.NewSymDense(d, nil), Cyx: cyx, Cyy: cyy}, nil
}
