package fractal

import (
	"math"
	"math/cmplx"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// newton runs the relaxed Newton-Raphson step z ↦ z − α·f(z)/f′(z) (+ the dual
// parameter in dual mode). Every pixel starts at its own plane coordinate.
func (it *Iterator) newton(pixel complex128) iteration.Result {
	cfg := it.cfg
	f := newtonFunc(cfg.Newton)
	alpha := cfg.Newton.Relaxation

	z := pixel
	var c complex128
	if cfg.Mode == ModeDual {
		c = cfg.Dual
	}

	r2 := cfg.EscapeRadius * cfg.EscapeRadius
	tr := newTracker(cfg)
	tr.start(z)
	tr.capture(it, z)

	var expSum, lyapSum float64
	var step float64
	converged := false
	n := 0
	for n < cfg.MaxIterations {
		fz := f(z)
		dfz := derivative(f, z, fz, it.h)
		if dfz == 0 || bad(dfz) {
			break
		}

		next := z - alpha*fz/dfz + c
		step = cmplx.Abs(next - z)
		n++

		expSum += math.Exp(-1 / step)
		lyapSum += math.Log(cmplx.Abs(dfz))

		z = next
		tr.step(z)
		tr.capture(it, z)

		if step < cfg.RootTolerance && abs2(z) < r2 {
			converged = true
			break
		}
		if abs2(z) > r2 || bad(z) {
			break
		}
	}

	r := iteration.Result{
		IterationCount:            iteration.Unbounded,
		NormalizedIterationCount:  iteration.Unbounded,
		ExponentialIterationCount: expSum,
		Real:                      real(z),
		Imag:                      imag(z),
		Modulus:                   cmplx.Abs(z),
		Angle:                     cmplx.Phase(z),
	}
	if n > 0 {
		r.Lyapunov = lyapSum / float64(n)
	}

	frac := 1.0
	if converged {
		r.IterationCount = float64(n)
		r.NormalizedIterationCount = float64(n) + step/cfg.RootTolerance
		r.RootIndex = 1
		frac = fraction(r.NormalizedIterationCount)
	}
	tr.finish(&r, converged, frac)
	return r
}
