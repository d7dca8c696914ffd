package fractal

import (
	"math"
	"strings"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// lyapunov computes the Markus-Lyapunov exponent of the logistic map
// x ↦ r·x·(1−x), where r alternates between the pixel's real part (symbol A)
// and imaginary part (symbol B) following the configured sequence.
//
// There is no escape test: IterationCount stays unbounded and only the
// exponent carries information. In dual mode the start value comes from the
// real part of the dual parameter.
func (it *Iterator) lyapunov(pixel complex128) iteration.Result {
	cfg := it.cfg
	seq := strings.ToUpper(cfg.Lyapunov.Sequence)
	a, b := real(pixel), imag(pixel)

	x := cfg.Lyapunov.Start
	if cfg.Mode == ModeDual {
		x = real(cfg.Dual)
	}

	rate := func(i int) float64 {
		if seq[i%len(seq)] == 'A' {
			return a
		}
		return b
	}

	for i := 0; i < cfg.Lyapunov.Warmup; i++ {
		x = rate(i) * x * (1 - x)
	}

	var sum float64
	var orbit []iteration.OrbitPoint
	count := 0
	for i := 0; i < cfg.MaxIterations; i++ {
		r := rate(cfg.Lyapunov.Warmup + i)
		if d := math.Abs(r * (1 - 2*x)); d > 0 && !math.IsInf(d, 0) {
			sum += math.Log(d)
			count++
		}
		x = r * x * (1 - x)
		if cfg.CaptureOrbit {
			w := complex(x, 0)
			orbit = append(orbit, iteration.OrbitPoint{Z: w, Screen: it.transform.ToScreen(w)})
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			break
		}
	}

	res := iteration.Result{
		IterationCount:           iteration.Unbounded,
		NormalizedIterationCount: iteration.Unbounded,
		Real:                     x,
		Modulus:                  math.Abs(x),
		Orbit:                    orbit,
	}
	if count > 0 {
		res.Lyapunov = sum / float64(count)
	}
	return res
}
