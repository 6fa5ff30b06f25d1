package sumstats

import (
	"fmt"
	"sort"

	"github.com/neurodec/levelcca/tensor"
)

// AccumOptions configures epoch accumulation.
//   - Tau: number of lags of history in the temporal model (1..nSamp).
//   - Offset: shift (in samples) between an event onset and the first
//     input sample attributed to it.
//   - Center: subtract the per-epoch, per-channel mean from the input
//     before accumulating.
//   - UnitNorm: divide the accumulated statistics by the total number of
//     samples, so batches of different sizes contribute comparable scale.
//   - BadEpochThresh: epochs whose total input power exceeds this multiple
//     of the median epoch power are zeroed out before accumulation
//     (outlier rejection). A value ≤ 0 disables rejection.
type AccumOptions struct {
	Tau            int
	Offset         int
	Center         bool
	UnitNorm       bool
	BadEpochThresh float64
}

// DefaultAccumOptions returns the standard accumulation configuration for
// the given lag window: centering on, unit-norm off, outlier threshold 4×.
func DefaultAccumOptions(tau int) AccumOptions {
	return AccumOptions{Tau: tau, Center: true, BadEpochThresh: 4}
}

// Accumulate folds a batch of epochs into summary statistics.
//
// X is the input, (nTrl,nSamp,d); Y is the event-indicator stream,
// (nTrl,nSamp,nY,nE). When st is nil a fresh Stats is allocated; otherwise
// the batch is added into st (which must match the batch dimensions) and
// st is returned. Accumulation is additive and commutative: folding two
// batches separately and merging with Stats.Add equals folding their
// concatenation.
//
// Per epoch, in order: outlier rejection (zero the epoch when its power
// exceeds BadEpochThresh × median), optional centering, then the three
// outer-product sums. Lag products that would reach past the epoch end
// contribute zero (the zero-padded convention).
//
// Complexity: O(nTrl·nSamp·(d² + tau·(nY·nE·d + nY²·nE²))).
func Accumulate(st *Stats, x *tensor.Dense3, y *tensor.Dense4, opts AccumOptions) (*Stats, error) {
	if x == nil || y == nil {
		return nil, ErrNilStats
	}
	nTrl, nSamp, d := x.Dims()
	yTrl, ySamp, nY, nE := y.Dims()
	if yTrl != nTrl || ySamp != nSamp {
		return nil, fmt.Errorf("%w: X is (%d,%d,·), Y is (%d,%d,·,·)", ErrShapeMismatch, nTrl, nSamp, yTrl, ySamp)
	}
	if opts.Tau < 1 || opts.Tau > nSamp {
		return nil, fmt.Errorf("%w: tau=%d with %d samples", ErrBadWindow, opts.Tau, nSamp)
	}
	tau := opts.Tau

	// Work on copies: rejection and centering must not mutate caller data.
	xw := x.Clone()
	yw := y.Clone()
	zeroOutliers(xw, yw, opts.BadEpochThresh)
	if opts.Center {
		centerEpochs(xw)
	}

	ns, err := NewStats(nY, nE, tau, d)
	if err != nil {
		return nil, err
	}

	xd := xw.Data()
	ydat := yw.Data()
	cyx := ns.Cyx.Data()
	cyy := ns.Cyy.Data()
	ye := nY * nE // flattened (y,e) block per sample

	for trl := 0; trl < nTrl; trl++ {
		xBase := trl * nSamp * d
		yBase := trl * nSamp * ye

		// Cxx[d1,d2] += Σ_s x[s,d1]·x[s,d2]
		for s := 0; s < nSamp; s++ {
			row := xd[xBase+s*d : xBase+(s+1)*d]
			for d1 := 0; d1 < d; d1++ {
				v := row[d1]
				if v == 0 {
					continue
				}
				for d2 := d1; d2 < d; d2++ {
					ns.Cxx.SetSym(d1, d2, ns.Cxx.At(d1, d2)+v*row[d2])
				}
			}
		}

		// Cyx[y,e,τ,d] += Σ_s y[s,y,e]·x[s+τ+offset,d]
		// Cyy[τ,y,e,z,f] += Σ_s y[s,y,e]·y[s+τ,z,f]
		for s := 0; s < nSamp; s++ {
			yrow := ydat[yBase+s*ye : yBase+(s+1)*ye]
			for yi := 0; yi < nY; yi++ {
				for e := 0; e < nE; e++ {
					w := yrow[yi*nE+e]
					if w == 0 {
						continue // indicator streams are sparse
					}
					for dt := 0; dt < tau; dt++ {
						sx := s + dt + opts.Offset
						if sx >= 0 && sx < nSamp {
							xrow := xd[xBase+sx*d : xBase+(sx+1)*d]
							cyxOff := ((yi*nE+e)*tau + dt) * d
							for di := 0; di < d; di++ {
								cyx[cyxOff+di] += w * xrow[di]
							}
						}
						sy := s + dt
						if sy < nSamp {
							ylag := ydat[yBase+sy*ye : yBase+(sy+1)*ye]
							cyyOff := ((dt*nY+yi)*nE + e) * ye
							for zf := 0; zf < ye; zf++ {
								cyy[cyyOff+zf] += w * ylag[zf]
							}
						}
					}
				}
			}
		}
	}

	if opts.UnitNorm {
		scale := 1.0 / float64(nTrl*nSamp)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				ns.Cxx.SetSym(i, j, ns.Cxx.At(i, j)*scale)
			}
		}
		ns.Cyx.Scale(scale)
		ns.Cyy.Scale(scale)
	}

	if st == nil {
		return ns, nil
	}
	if err := st.Add(ns); err != nil {
		return nil, err
	}

	return st, nil
}

// zeroOutliers zeroes epochs whose total input power exceeds
// thresh × median epoch power. Zeroed epochs contribute nothing to any of
// the three sums, which keeps the additive contract intact.
func zeroOutliers(x *tensor.Dense3, y *tensor.Dense4, thresh float64) {
	if thresh <= 0 {
		return
	}
	nTrl, nSamp, d := x.Dims()
	_, _, nY, nE := y.Dims()

	xd := x.Data()
	power := make([]float64, nTrl)
	for trl := 0; trl < nTrl; trl++ {
		base := trl * nSamp * d
		var p float64
		for i := base; i < base+nSamp*d; i++ {
			p += xd[i] * xd[i]
		}
		power[trl] = p
	}

	med := median(power)
	if med <= 0 {
		return
	}

	yd := y.Data()
	for trl := 0; trl < nTrl; trl++ {
		if power[trl] <= thresh*med {
			continue
		}
		xBase := trl * nSamp * d
		for i := xBase; i < xBase+nSamp*d; i++ {
			xd[i] = 0
		}
		yBase := trl * nSamp * nY * nE
		for i := yBase; i < yBase+nSamp*nY*nE; i++ {
			yd[i] = 0
		}
	}
}

// centerEpochs removes the per-epoch, per-channel mean from x in place.
func centerEpochs(x *tensor.Dense3) {
	nTrl, nSamp, d := x.Dims()
	xd := x.Data()
	mean := make([]float64, d)

	for trl := 0; trl < nTrl; trl++ {
		base := trl * nSamp * d
		for di := range mean {
			mean[di] = 0
		}
		for s := 0; s < nSamp; s++ {
			row := xd[base+s*d : base+(s+1)*d]
			for di := 0; di < d; di++ {
				mean[di] += row[di]
			}
		}
		inv := 1.0 / float64(nSamp)
		for di := 0; di < d; di++ {
			mean[di] *= inv
		}
		for s := 0; s < nSamp; s++ {
			row := xd[base+s*d : base+(s+1)*d]
			for di := 0; di < d; di++ {
				row[di] -= mean[di]
			}
		}
	}
}

// median returns the median of vs without mutating it.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	cp := make([]float64, len(vs))
	copy(cp, vs)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}

	return 0.5 * (cp[mid-1] + cp[mid])
}
