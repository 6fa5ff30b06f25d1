package sumstats

import (
	"fmt"

	"github.com/neurodec/levelcca/tensor"
)

// ExpandCyy converts the lag-difference-compressed autocovariance
// (tau,nY,nE,nY,nE) into its fully expanded (nY,nE,tau,nY,nE,tau) form.
//
// Rule: entry (y,e,t,z,f,u) equals the compressed entry at lag-difference
// t−u when t−u ≥ 0, and the transposed compressed entry at u−t otherwise;
// lag-differences outside the stored window are zero by convention (the
// window here covers every |t−u| < tau, so the zero-padding is implicit in
// how the compressed form was accumulated).
//
// The result is symmetric under (y,e,t)↔(z,f,u), as a true covariance
// must be.
//
// Materializing trades memory (nE²·tau² per output pair) for contraction
// simplicity downstream; the expansion is derived state and never persisted.
//
// Complexity: O(nY²·nE²·tau²).
func ExpandCyy(c *tensor.Dense5) (*tensor.Dense6, error) {
	if c == nil {
		return nil, ErrNilStats
	}
	tau, nY, nE, nY2, nE2 := c.Dims()
	if nY != nY2 || nE != nE2 {
		return nil, fmt.Errorf("%w: compressed Cyy axes (%d,%d) vs (%d,%d)", ErrShapeMismatch, nY, nE, nY2, nE2)
	}

	full, err := tensor.NewDense6(nY, nE, tau, nY, nE, tau)
	if err != nil {
		return nil, err
	}

	src := c.Data()
	dst := full.Data()
	// Flat offset into the compressed (τ,y,e,z,f) layout.
	compAt := func(dt, y, e, z, f int) float64 {
		return src[(((dt*nY+y)*nE+e)*nY+z)*nE+f]
	}

	idx := 0 // runs over (y,e,t,z,f,u) in row-major order
	for y := 0; y < nY; y++ {
		for e := 0; e < nE; e++ {
			for t := 0; t < tau; t++ {
				for z := 0; z < nY; z++ {
					for f := 0; f < nE; f++ {
						for u := 0; u < tau; u++ {
							dt := t - u
							if dt >= 0 {
								dst[idx] = compAt(dt, y, e, z, f)
							} else {
								dst[idx] = compAt(-dt, z, f, y, e)
							}
							idx++
						}
					}
				}
			}
		}
	}

	return full, nil
}
