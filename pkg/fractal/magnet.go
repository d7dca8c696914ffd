package fractal

import (
	"math"
	"math/cmplx"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// magnet iterates the type I magnetism map z ↦ ((z²+c−1)/(2z+c−2))² until the
// orbit escapes or settles on the fixed point 1, whichever happens first.
func (it *Iterator) magnet(pixel complex128) iteration.Result {
	cfg := it.cfg
	z, c := it.start(pixel)

	r2 := cfg.EscapeRadius * cfg.EscapeRadius
	tol2 := cfg.RootTolerance * cfg.RootTolerance
	tr := newTracker(cfg)
	tr.start(z)
	tr.capture(it, z)

	var expSum, lyapSum float64
	escaped, converged := false, false
	n := 0
	for n < cfg.MaxIterations {
		den := 2*z + c - 2
		if den == 0 {
			break
		}
		q := (z*z + c - 1) / den
		z = q * q
		n++

		m2 := abs2(z)
		expSum += math.Exp(-math.Sqrt(m2))
		if m2 > 0 {
			lyapSum += 0.5 * math.Log(m2)
		}
		tr.step(z)
		tr.capture(it, z)

		if m2 >= r2 || bad(z) {
			escaped = true
			break
		}
		if abs2(z-1) <= tol2 {
			converged = true
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
	switch {
	case escaped:
		r.IterationCount = float64(n)
		r.NormalizedIterationCount = smoothEscape(n, z, cfg.EscapeRadius, 2)
		frac = fraction(r.NormalizedIterationCount)
	case converged:
		r.IterationCount = float64(n)
		r.NormalizedIterationCount = float64(n) + cmplx.Abs(z-1)/cfg.RootTolerance
		r.RootIndex = 1
		frac = fraction(r.NormalizedIterationCount)
	}
	tr.finish(&r, escaped || converged, frac)
	return r
}
