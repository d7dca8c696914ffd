package fractal

import (
	"math"
	"math/cmplx"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// Side indexes for the interior/exterior parameter pairs.
const (
	interior = 0
	exterior = 1
)

// running is a sum with a count, snapshotting its state through the
// previous step so the final value can be blended between steps n−1 and n.
type running struct {
	sum, prevSum     float64
	count, prevCount int
}

func (r *running) add(v float64) {
	r.prevSum, r.prevCount = r.sum, r.count
	r.sum += v
	r.count++
}

// hold records that a step passed without a sample, keeping n−1 == n.
func (r *running) hold() {
	r.prevSum, r.prevCount = r.sum, r.count
}

func (r *running) mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

func (r *running) prevMean() float64 {
	if r.prevCount == 0 {
		return r.mean()
	}
	return r.prevSum / float64(r.prevCount)
}

// blend interpolates between the averages through n−1 and n.
func (r *running) blend(frac float64) float64 {
	return r.prevMean()*(1-frac) + r.mean()*frac
}

// tracker accumulates the orbit statistics shared by the escape-time, magnet
// and Newton families. Only distance and orbit capture run unconditionally;
// everything else is gated behind advanced coloring.
type tracker struct {
	advanced bool
	col      *ColoringParams

	steps   int
	sumDist float64

	prev, prevPrev complex128
	seen           int

	curvature running
	stripe    [2]running

	gaussMin   [2]float64
	gaussSum   [2]float64
	gaussCount [2]int

	traps [2][4]float64

	orbit []iteration.OrbitPoint
}

func newTracker(cfg *Config) *tracker {
	t := &tracker{advanced: cfg.Advanced, col: &cfg.Coloring}
	if t.advanced {
		for s := range 2 {
			t.gaussMin[s] = math.Inf(1)
			for i := range 4 {
				t.traps[s][i] = math.Inf(1)
			}
		}
	}
	return t
}

// start records the initial orbit value without sampling it.
func (t *tracker) start(z complex128) {
	t.prev = z
	t.seen = 1
}

// step samples the orbit value after one more iteration.
func (t *tracker) step(z complex128) {
	t.steps++
	t.sumDist += cmplx.Abs(z)

	if t.advanced {
		t.sampleCurvature(z)
		t.sampleStripes(z)
		t.sampleGaussian(z)
		t.sampleTraps(z)
	}

	t.prevPrev, t.prev = t.prev, z
	t.seen++
}

func (t *tracker) sampleCurvature(z complex128) {
	if t.seen < 2 {
		t.curvature.hold()
		return
	}
	d1 := z - t.prev
	d0 := t.prev - t.prevPrev
	if d0 == 0 || d1 == 0 {
		t.curvature.hold()
		return
	}
	angle := math.Abs(cmplx.Phase(d1 / d0))
	if math.IsNaN(angle) {
		t.curvature.hold()
		return
	}
	t.curvature.add(angle)
}

func (t *tracker) sampleStripes(z complex128) {
	arg := cmplx.Phase(z)
	t.stripe[interior].add(0.5 + 0.5*math.Sin(t.col.StripeInterior*arg))
	t.stripe[exterior].add(0.5 + 0.5*math.Sin(t.col.StripeExterior*arg))
}

func (t *tracker) sampleGaussian(z complex128) {
	factors := [2]float64{t.col.GaussianInterior, t.col.GaussianExterior}
	for s, f := range factors {
		if f == 0 {
			continue
		}
		w := z * complex(f, 0)
		g := complex(math.Round(real(w)), math.Round(imag(w)))
		d := cmplx.Abs(w-g) / math.Abs(f)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		t.gaussSum[s] += d
		t.gaussCount[s]++
		if d < t.gaussMin[s] {
			t.gaussMin[s] = d
		}
	}
}

func (t *tracker) sampleTraps(z complex128) {
	geoms := [2]*TrapGeometry{&t.col.TrapInterior, &t.col.TrapExterior}
	for s, g := range geoms {
		w := z - g.Center
		x, y := real(w), imag(w)

		t.trap(s, 0, math.Abs(cmplx.Abs(w)-g.Radius))
		t.trap(s, 1, math.Min(math.Abs(x), math.Abs(y)))
		t.trap(s, 2, math.Abs(y-g.SineAmplitude*math.Sin(g.SineFrequency*x)))

		if c := math.Cos(g.TangentFrequency * x); c != 0 {
			tan := math.Sin(g.TangentFrequency*x) / c
			t.trap(s, 3, math.Abs(y-g.TangentAmplitude*tan))
		}
	}
}

func (t *tracker) trap(side, idx int, d float64) {
	if math.IsNaN(d) {
		return
	}
	if d < t.traps[side][idx] {
		t.traps[side][idx] = d
	}
}

// capture appends an orbit point when orbit capture is enabled.
func (t *tracker) capture(it *Iterator, z complex128) {
	if it.cfg.CaptureOrbit {
		t.orbit = append(t.orbit, iteration.OrbitPoint{Z: z, Screen: it.transform.ToScreen(z)})
	}
}

// finish writes the accumulated statistics into r. outside selects the
// exterior parameter set; frac blends curvature and striping between the last
// two steps.
func (t *tracker) finish(r *iteration.Result, outside bool, frac float64) {
	if t.steps > 0 {
		r.AverageDistance = t.sumDist / float64(t.steps)
	}
	r.Orbit = t.orbit
	if !t.advanced {
		return
	}

	side := interior
	if outside {
		side = exterior
	}

	r.Curvature = t.curvature.blend(frac)
	r.Striping = t.stripe[side].blend(frac)

	if t.gaussCount[side] > 0 {
		r.MinGaussianDistance = t.gaussMin[side]
		r.AvgGaussianDistance = t.gaussSum[side] / float64(t.gaussCount[side])
	}

	r.TrapDisk = t.traps[side][0]
	r.TrapCross = t.traps[side][1]
	r.TrapSine = t.traps[side][2]
	r.TrapTangent = t.traps[side][3]
}
