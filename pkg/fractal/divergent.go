package fractal

import (
	"math"
	"math/cmplx"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// divergent runs the escape-time iteration z ↦ f(z, c) until |z|² exceeds
// the escape radius squared or the budget runs out.
func (it *Iterator) divergent(pixel complex128) iteration.Result {
	cfg := it.cfg
	f, degree := divergentStep(cfg.Divergent)
	z, c := it.start(pixel)

	switch cfg.Divergent.Formula {
	case FormulaSine:
		// sin(0) is a fixed point; start on the parameter itself.
		if cfg.Mode == ModeMain {
			z = c
		}
	case FormulaTangent:
		// tan has a degenerate derivative at the origin.
		if z == 0 {
			z = cfg.Dual
		}
	}

	// dz tracks d z_n / d c in main mode and d z_n / d z_0 in dual mode.
	dz := complex(0, 0)
	if cfg.Mode == ModeDual {
		dz = 1
	}
	fz := func(w complex128) complex128 { return f(w, c) }

	r2 := cfg.EscapeRadius * cfg.EscapeRadius
	tr := newTracker(cfg)
	tr.start(z)
	tr.capture(it, z)

	var expSum, lyapSum float64
	escaped := false
	n := 0
	for n < cfg.MaxIterations {
		if cfg.Advanced {
			next := fz(z)
			d := derivative(fz, z, next, it.h)
			dz = d * dz
			if cfg.Mode == ModeMain {
				dz++
			}
			z = next
		} else {
			z = fz(z)
		}
		n++

		mod := cmplx.Abs(z)
		expSum += math.Exp(-mod)
		if mod > 0 {
			lyapSum += math.Log(mod)
		}
		tr.step(z)
		tr.capture(it, z)

		if abs2(z) > r2 || bad(z) {
			escaped = true
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
	if escaped {
		r.IterationCount = float64(n)
		r.NormalizedIterationCount = smoothEscape(n, z, cfg.EscapeRadius, degree)
		frac = fraction(r.NormalizedIterationCount)
		if cfg.Advanced {
			r.ExteriorDistance = exteriorDistance(z, dz)
		}
	}
	tr.finish(&r, escaped, frac)
	return r
}

// exteriorDistance estimates the distance to the set boundary. A zero
// derivative deliberately yields +Inf rather than being clamped.
func exteriorDistance(z, dz complex128) float64 {
	z2 := abs2(z)
	dz2 := abs2(dz)
	return math.Sqrt(z2/dz2) * 0.5 * math.Log2(z2)
}
