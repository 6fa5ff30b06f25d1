package cca

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/neurodec/levelcca/sumstats"
	"github.com/neurodec/levelcca/tensor"
	"github.com/neurodec/levelcca/weights"
	"github.com/neurodec/levelcca/whiten"
	"gonum.org/v1/gonum/mat"
)

// Decompose runs the alternating optimizer on accumulated statistics and
// returns the factored model.
//
// Fatal errors (inconsistent shapes, unknown sub-solver mode, bad seed)
// surface immediately. Numerical degeneracies are recovered: see the
// package documentation.
func Decompose(st *sumstats.Stats, opts Options) (*Result, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if !opts.Weights.Mode.Valid() {
		return nil, fmt.Errorf("cca: %w", weights.ErrUnknownMode)
	}
	nY, nE, tau, d := st.Dims()
	if opts.SeedWeights != nil && len(opts.SeedWeights) != nY {
		return nil, ErrBadSeed
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 100
	}
	if opts.Tol <= 0 {
		opts.Tol = 1e-3
	}
	rank := opts.Rank
	if rank < 1 {
		rank = 1
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	full, err := sumstats.ExpandCyy(st.Cyy)
	if err != nil {
		return nil, err
	}
	fd := full.Data()
	cyx := st.Cyx.Data()
	net := nE * tau

	// The spatial whitener does not depend on the output weighting; compute
	// it once and fold it into the cross covariance up front.
	isqrtCxx, _, err := whiten.Whiten(st.Cxx, whiten.Options{
		Reg:       opts.RegX,
		Rcond:     opts.RcondX,
		Symmetric: true,
	})
	if err != nil {
		return nil, err
	}
	cyxW := make([]float64, nY*net*d)
	for y := 0; y < nY; y++ {
		for a := 0; a < net; a++ {
			base := (y*net + a) * d
			for di := 0; di < d; di++ {
				var acc float64
				for dd := 0; dd < d; dd++ {
					acc += cyx[base+dd] * isqrtCxx.At(dd, di)
				}
				cyxW[base+di] = acc
			}
		}
	}

	s := make([]float64, nY)
	if opts.SeedWeights != nil {
		copy(s, opts.SeedWeights)
	} else {
		for i := range s {
			s[i] = 1.0 / float64(nY)
		}
	}

	j := math.Inf(1)
	trace := make([][2]float64, 0, opts.MaxIter)

	// Per-iteration state carried out of the loop for the final rescale.
	var (
		lastSV []float64
		lastW  [][]float64 // r rows of length d, un-whitened filter space
		lastR2 [][]float64 // r rows of length net, un-whitened response space
		r      int
		eff    int
	)

	for iter := 0; iter < opts.MaxIter; iter++ {
		// Reduce the temporal covariance and the whitened cross covariance
		// over both output axes with the current weighting.
		redYY := make([]float64, net*net)
		idx := 0
		for y := 0; y < nY; y++ {
			sy := s[y]
			for a := 0; a < net; a++ {
				row := a * net
				for z := 0; z < nY; z++ {
					w := sy * s[z]
					for b := 0; b < net; b++ {
						redYY[row+b] += w * fd[idx]
						idx++
					}
				}
			}
		}
		sCyy := mat.NewSymDense(net, nil)
		for a := 0; a < net; a++ {
			for b := a; b < net; b++ {
				sCyy.SetSym(a, b, 0.5*(redYY[a*net+b]+redYY[b*net+a]))
			}
		}

		sCyxW := mat.NewDense(net, d, nil)
		for y := 0; y < nY; y++ {
			sy := s[y]
			for a := 0; a < net; a++ {
				base := (y*net + a) * d
				for di := 0; di < d; di++ {
					sCyxW.Set(a, di, sCyxW.At(a, di)+sy*cyxW[base+di])
				}
			}
		}

		// The temporal whitener depends on the weighting, so it is rebuilt
		// every iteration.
		isqrtCyy, _, werr := whiten.Whiten(sCyy, whiten.Options{
			Reg:       opts.RegY,
			Rcond:     opts.RcondY,
			Symmetric: true,
		})
		if werr != nil {
			return nil, werr
		}

		var m mat.Dense
		m.Mul(isqrtCyy, sCyxW)

		var svd mat.SVD
		if ok := svd.Factorize(&m, mat.SVDThin); !ok {
			return nil, ErrSVDFailed
		}
		sv := svd.Values(nil) // descending
		var u, v mat.Dense
		svd.UTo(&u)
		svd.VTo(&v)

		r = rank
		if r > len(sv) {
			r = len(sv)
		}
		eff = 0
		for k := 0; k < r; k++ {
			if sv[k] > 0 {
				eff++
			}
		}
		lastSV = sv[:r]

		// Map the retained singular vectors back through the inverse
		// whiteners so W and R apply to un-whitened data.
		lastW = make([][]float64, r)
		for k := 0; k < r; k++ {
			row := make([]float64, d)
			for di := 0; di < d; di++ {
				var acc float64
				for dd := 0; dd < d; dd++ {
					acc += v.At(dd, k) * isqrtCxx.At(dd, di)
				}
				row[di] = acc
			}
			lastW[k] = row
		}
		lastR2 = make([][]float64, r)
		for k := 0; k < r; k++ {
			row := make([]float64, net)
			for a := 0; a < net; a++ {
				var acc float64
				for b := 0; b < net; b++ {
					acc += u.At(b, k) * isqrtCyy.At(b, a)
				}
				row[a] = acc
			}
			lastR2[k] = row
		}

		// Reduced statistics for the weight solver.
		var energy float64
		for k := 0; k < r; k++ {
			for i := 0; i < d; i++ {
				for jj := 0; jj < d; jj++ {
					energy += lastW[k][i] * st.Cxx.At(i, jj) * lastW[k][jj]
				}
			}
		}

		// q[a,b] = Σ_k R[k,a]·R[k,b], shared across all output pairs.
		q := make([]float64, net*net)
		for k := 0; k < r; k++ {
			row := lastR2[k]
			for a := 0; a < net; a++ {
				ra := row[a]
				if ra == 0 {
					continue
				}
				for b := 0; b < net; b++ {
					q[a*net+b] += ra * row[b]
				}
			}
		}
		gramRaw := make([]float64, nY*nY)
		idx = 0
		for y := 0; y < nY; y++ {
			for a := 0; a < net; a++ {
				qa := a * net
				for z := 0; z < nY; z++ {
					g := y*nY + z
					for b := 0; b < net; b++ {
						gramRaw[g] += q[qa+b] * fd[idx]
						idx++
					}
				}
			}
		}
		gram := mat.NewSymDense(nY, nil)
		for y := 0; y < nY; y++ {
			for z := y; z < nY; z++ {
				gram.SetSym(y, z, 0.5*(gramRaw[y*nY+z]+gramRaw[z*nY+y]))
			}
		}

		cross := make([]float64, nY)
		for y := 0; y < nY; y++ {
			for k := 0; k < r; k++ {
				var acc float64
				for a := 0; a < net; a++ {
					base := (y*net + a) * d
					var xw float64
					for dd := 0; dd < d; dd++ {
						xw += cyx[base+dd] * lastW[k][dd]
					}
					acc += lastR2[k][a] * xw
				}
				cross[y] += acc
			}
		}

		objAt := func(v []float64) float64 {
			o := energy
			for y := 0; y < nY; y++ {
				o -= 2 * cross[y] * v[y]
				for z := 0; z < nY; z++ {
					o += v[y] * gram.At(y, z) * v[z]
				}
			}

			return o
		}

		jPre := objAt(s)

		newS, serr := weights.Solve(energy, cross, gram, s, opts.Weights)
		if serr != nil {
			return nil, serr
		}
		unstable := false
		for _, v := range newS {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstable = true

				break
			}
		}
		if unstable {
			log.Warn("non-finite output weights, keeping previous iterate",
				slog.Int("iteration", iter))
			newS = append([]float64(nil), s...)
		}
		var sum float64
		for _, v := range newS {
			sum += v
		}
		if sum != 0 && sum != 1 {
			for i := range newS {
				newS[i] /= sum
			}
		}

		jPost := objAt(newS)
		trace = append(trace, [2]float64{jPre, jPost})

		var deltaS float64
		for i := range newS {
			deltaS += math.Abs(newS[i] - s[i])
		}
		deltaJ := math.Abs(j - jPost)
		j = jPost
		s = newS

		if opts.Observer != nil {
			opts.Observer.OnIteration(IterationEvent{
				Iter:     iter,
				JPre:     jPre,
				JPost:    jPost,
				DeltaS:   deltaS,
				DeltaJ:   deltaJ,
				S:        append([]float64(nil), s...),
				Unstable: unstable,
			})
		}

		if deltaS < opts.Tol || deltaJ < opts.Tol {
			break
		}
	}

	// Fold component importance into the returned model: scale each
	// component by the square root of its relative singular value, with
	// unit scaling when the model is fully degenerate.
	scales := make([]float64, r)
	svMax := 0.0
	if r > 0 {
		svMax = lastSV[0]
	}
	for k := range scales {
		if svMax > 0 {
			scales[k] = math.Sqrt(lastSV[k] / svMax)
		} else {
			scales[k] = 1
		}
	}

	wOut := mat.NewDense(r, d, nil)
	for k := 0; k < r; k++ {
		for di := 0; di < d; di++ {
			wOut.Set(k, di, lastW[k][di]*scales[k])
		}
	}
	rOut, err := tensor.NewDense3(r, nE, tau)
	if err != nil {
		return nil, err
	}
	rd := rOut.Data()
	for k := 0; k < r; k++ {
		for a := 0; a < net; a++ {
			rd[k*net+a] = lastR2[k][a] * scales[k]
		}
	}

	return &Result{
		J:             j,
		W:             wOut,
		R:             rOut,
		S:             s,
		EffectiveRank: eff,
		Trace:         trace,
		Iterations:    len(trace),
	}, nil
}

// DecomposeEpochs accumulates statistics from raw epochs and runs the
// optimizer in one call. X is (trials, samples, channels) and Y is
// (trials, samples, outputs, events).
func DecomposeEpochs(x *tensor.Dense3, y *tensor.Dense4, accum sumstats.AccumOptions, opts Options) (*Result, error) {
	st, err := sumstats.Accumulate(nil, x, y, accum)
	if err != nil {
		return nil, err
	}

	return Decompose(st, opts)
}
