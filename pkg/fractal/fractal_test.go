package fractal

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/iteration"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// mandelbrotAt builds a 4x4 screen over [-2,2]² so that pixel (2,2) is 0 and
// pixel (4,0) is 2+2i.
func mandelbrotAt(t *testing.T, p plane.Point) iteration.Result {
	t.Helper()
	cfg := Default(KindDivergent)
	cfg.View = plane.NewView(complex(-2, -2), complex(2, 2))
	cfg.EscapeRadius = 2
	cfg.MaxIterations = 1000
	return Iterate(&cfg, plane.Screen{Width: 4, Height: 4}, p)
}

func TestMandelbrotOriginNeverEscapes(t *testing.T) {
	r := mandelbrotAt(t, plane.Point{X: 2, Y: 2})
	if !math.IsInf(r.IterationCount, 1) {
		t.Errorf("IterationCount = %v, want +Inf", r.IterationCount)
	}
	if r.Bounded() {
		t.Error("origin should be unbounded")
	}
	if r.RootIndex != 0 {
		t.Errorf("RootIndex = %d, want 0 for escape-time family", r.RootIndex)
	}
}

func TestMandelbrotFarPointEscapesQuickly(t *testing.T) {
	r := mandelbrotAt(t, plane.Point{X: 4, Y: 0})
	if math.IsInf(r.IterationCount, 0) {
		t.Fatal("2+2i should escape")
	}
	if r.IterationCount > 3 {
		t.Errorf("IterationCount = %v, want a few iterations", r.IterationCount)
	}
	if r.NormalizedIterationCount < 0 || r.NormalizedIterationCount > r.IterationCount+1 {
		t.Errorf("NormalizedIterationCount = %v out of range", r.NormalizedIterationCount)
	}
}

func TestDualModeUsesFixedParameter(t *testing.T) {
	cfg := Default(KindDivergent)
	cfg.Mode = ModeDual
	cfg.Dual = 0
	cfg.MaxIterations = 200
	it := NewIterator(&cfg, plane.Screen{Width: 10, Height: 10})

	// z ↦ z² stays on the unit circle forever and escapes outside it.
	if r := it.Point(complex(0.5, 0)); r.Bounded() {
		t.Error("0.5 should not escape under z²")
	}
	if r := it.Point(complex(1.5, 0)); !r.Bounded() {
		t.Error("1.5 should escape under z²")
	}
}

func TestAdvancedColoringStatistics(t *testing.T) {
	cfg := Default(KindDivergent)
	cfg.Advanced = true
	cfg.MaxIterations = 200
	it := NewIterator(&cfg, plane.Screen{Width: 100, Height: 100})

	r := it.Point(complex(0.4, 0.6))
	if !r.Bounded() {
		t.Fatal("0.4+0.6i should escape")
	}
	if !(r.ExteriorDistance > 0) || math.IsInf(r.ExteriorDistance, 0) {
		t.Errorf("ExteriorDistance = %v, want positive finite", r.ExteriorDistance)
	}
	if r.Striping < 0 || r.Striping > 1 {
		t.Errorf("Striping = %v, want within [0,1]", r.Striping)
	}
	if r.Curvature < 0 || r.Curvature > math.Pi {
		t.Errorf("Curvature = %v, want within [0,π]", r.Curvature)
	}
	for name, v := range map[string]float64{
		"disk": r.TrapDisk, "cross": r.TrapCross, "sine": r.TrapSine, "tangent": r.TrapTangent,
		"gaussian min": r.MinGaussianDistance, "gaussian avg": r.AvgGaussianDistance,
	} {
		if v < 0 || math.IsNaN(v) {
			t.Errorf("%s = %v, want non-negative", name, v)
		}
	}
	if r.MinGaussianDistance > r.AvgGaussianDistance {
		t.Errorf("min Gaussian distance %v exceeds average %v", r.MinGaussianDistance, r.AvgGaussianDistance)
	}
}

func TestAdvancedColoringOffLeavesFieldsZero(t *testing.T) {
	cfg := Default(KindDivergent)
	it := NewIterator(&cfg, plane.Screen{Width: 100, Height: 100})
	r := it.Point(complex(0.4, 0.6))
	if r.ExteriorDistance != 0 || r.Curvature != 0 || r.Striping != 0 || r.TrapDisk != 0 {
		t.Errorf("advanced fields should stay zero, got %+v", r)
	}
	if r.AverageDistance <= 0 {
		t.Error("AverageDistance is always tracked")
	}
}

func TestExteriorDistanceZeroDerivativeIsInfinite(t *testing.T) {
	if d := exteriorDistance(complex(3, 0), 0); !math.IsInf(d, 1) {
		t.Errorf("exteriorDistance with dz=0 = %v, want +Inf", d)
	}
}

func TestTangentSubstitutesDualForZeroStart(t *testing.T) {
	cfg := Default(KindDivergent)
	cfg.Divergent.Formula = FormulaTangent
	cfg.EscapeRadius = 50
	cfg.MaxIterations = 5
	cfg.Dual = complex(0.4, 0.2)

	r := Orbit(cfg, plane.Screen{Width: 10, Height: 10}, plane.Point{X: 3, Y: 3})
	if len(r.Orbit) == 0 {
		t.Fatal("orbit should be captured")
	}
	if r.Orbit[0].Z != cfg.Dual {
		t.Errorf("orbit starts at %v, want dual parameter %v", r.Orbit[0].Z, cfg.Dual)
	}
}

func TestOrbitCaptureIsOptIn(t *testing.T) {
	cfg := Default(KindDivergent)
	cfg.MaxIterations = 50
	screen := plane.Screen{Width: 20, Height: 20}

	if r := Iterate(&cfg, screen, plane.Point{X: 10, Y: 10}); r.Orbit != nil {
		t.Error("orbit should not be allocated without capture")
	}

	r := Orbit(cfg, screen, plane.Point{X: 0, Y: 0})
	if !r.Bounded() {
		t.Fatal("corner pixel should escape")
	}
	if want := int(r.IterationCount) + 1; len(r.Orbit) != want {
		t.Errorf("len(Orbit) = %d, want %d (start + one per iteration)", len(r.Orbit), want)
	}
	if cfg.CaptureOrbit {
		t.Error("Orbit must not modify the caller's config")
	}
}

func TestNewtonConvergesToCubeRoots(t *testing.T) {
	cfg := Default(KindNewton)
	it := NewIterator(&cfg, plane.Screen{Width: 100, Height: 100})

	roots := []complex128{1, cmplx.Rect(1, 2*math.Pi/3), cmplx.Rect(1, -2*math.Pi/3)}
	starts := []complex128{complex(1.3, 0.1), complex(-0.6, 0.9), complex(-0.6, -0.9)}

	for i, s := range starts {
		r := it.Point(s)
		if !r.Bounded() {
			t.Fatalf("start %v did not converge", s)
		}
		if r.RootIndex != 1 {
			t.Errorf("start %v: RootIndex = %d, want provisional 1", s, r.RootIndex)
		}
		if d := cmplx.Abs(r.Z() - roots[i]); d > 1e-5 {
			t.Errorf("start %v converged to %v, want %v", s, r.Z(), roots[i])
		}
		frac := r.NormalizedIterationCount - r.IterationCount
		if frac < 0 || frac >= 1 {
			t.Errorf("start %v: normalized fraction %v out of [0,1)", s, frac)
		}
	}
}

func TestNewtonRelaxationSlowsConvergence(t *testing.T) {
	plain := Default(KindNewton)
	relaxed := Default(KindNewton)
	relaxed.Newton.Relaxation = 0.5

	screen := plane.Screen{Width: 10, Height: 10}
	a := NewIterator(&plain, screen).Point(complex(1.5, 0.5))
	b := NewIterator(&relaxed, screen).Point(complex(1.5, 0.5))
	if !a.Bounded() || !b.Bounded() {
		t.Fatal("both should converge")
	}
	if b.IterationCount <= a.IterationCount {
		t.Errorf("relaxed Newton took %v iterations, plain %v", b.IterationCount, a.IterationCount)
	}
}

func TestMagnetEscapeAndConvergence(t *testing.T) {
	cfg := Default(KindMagnet)
	it := NewIterator(&cfg, plane.Screen{Width: 10, Height: 10})

	conv := it.Point(complex(-1, 0))
	if !conv.Bounded() || conv.RootIndex != 1 {
		t.Fatalf("c=-1 should converge to 1, got count %v root %d", conv.IterationCount, conv.RootIndex)
	}
	if d := cmplx.Abs(conv.Z() - 1); d > cfg.RootTolerance {
		t.Errorf("converged value %v too far from 1", conv.Z())
	}

	dual := cfg
	dual.Mode = ModeDual
	dual.Dual = 0
	esc := NewIterator(&dual, plane.Screen{Width: 10, Height: 10}).Point(complex(50, 0))
	if !esc.Bounded() || esc.RootIndex != 0 {
		t.Fatalf("z0=50 should escape, got count %v root %d", esc.IterationCount, esc.RootIndex)
	}
	if esc.IterationCount != 1 {
		t.Errorf("IterationCount = %v, want 1", esc.IterationCount)
	}
}

func TestLyapunovExponentSign(t *testing.T) {
	cfg := Default(KindLyapunov)
	cfg.MaxIterations = 2000
	it := NewIterator(&cfg, plane.Screen{Width: 10, Height: 10})

	stable := it.Point(complex(3.2, 3.2))
	if stable.Lyapunov >= 0 {
		t.Errorf("r=3.2 should be stable, λ = %v", stable.Lyapunov)
	}
	chaotic := it.Point(complex(4, 4))
	if chaotic.Lyapunov <= 0 {
		t.Errorf("r=4 should be chaotic, λ = %v", chaotic.Lyapunov)
	}
	if chaotic.Bounded() {
		t.Error("lyapunov pixels never report an escape")
	}
}

func TestDefaultViewsArePerFamily(t *testing.T) {
	lyap := Default(KindLyapunov)
	if lyap.View.Min != complex(2, 2) || lyap.View.Max != complex(4, 4) {
		t.Errorf("lyapunov view = %+v, want [2,4]x[2,4]", lyap.View)
	}
	for _, k := range Kinds {
		cfg := Default(k)
		if err := cfg.Validate(); err != nil {
			t.Errorf("Default(%s).Validate() = %v", k, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown kind", func(c *Config) { c.Kind = "julia-set" }},
		{"empty view", func(c *Config) { c.View = plane.View{} }},
		{"zero budget", func(c *Config) { c.MaxIterations = 0 }},
		{"negative radius", func(c *Config) { c.EscapeRadius = -1 }},
		{"unit radius", func(c *Config) { c.EscapeRadius = 1 }},
		{"zero delta", func(c *Config) { c.DerivativeDelta = 0 }},
		{"bad formula", func(c *Config) { c.Divergent.Formula = "spiral" }},
		{"multibrot power", func(c *Config) { c.Divergent.Formula = FormulaMultibrot; c.Divergent.Power = 1 }},
	}
	for _, tt := range tests {
		cfg := Default(KindDivergent)
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if errors.GetCode(err) == "" {
			t.Errorf("%s: error should carry a code: %v", tt.name, err)
		}
	}

	newton := Default(KindNewton)
	newton.Newton.Relaxation = 0
	if err := newton.Validate(); err == nil {
		t.Error("zero relaxation should fail")
	}

	lyap := Default(KindLyapunov)
	lyap.Lyapunov.Sequence = "ABC"
	if err := lyap.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad sequence: got %v", err)
	}
}

func TestParseKindAndMode(t *testing.T) {
	if k, err := ParseKind(" Newton "); err != nil || k != KindNewton {
		t.Errorf("ParseKind = %v, %v", k, err)
	}
	if _, err := ParseKind("fern"); !errors.Is(err, errors.ErrCodeInvalidFamily) {
		t.Errorf("ParseKind(fern) error = %v", err)
	}
	if m, err := ParseMode("julia"); err != nil || m != ModeDual {
		t.Errorf("ParseMode(julia) = %v, %v", m, err)
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestFingerprintChangesWithConfig(t *testing.T) {
	a := Default(KindDivergent)
	b := Default(KindDivergent)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal configs should share a fingerprint")
	}
	b.MaxIterations++
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint should change with the budget")
	}
}

func TestPowInt(t *testing.T) {
	z := complex(0.3, -1.2)
	for n := 0; n < 7; n++ {
		want := cmplx.Pow(z, complex(float64(n), 0))
		if got := powInt(z, n); cmplx.Abs(got-want) > 1e-12 {
			t.Errorf("powInt(z, %d) = %v, want %v", n, got, want)
		}
	}
}

func TestKindFormulas(t *testing.T) {
	if got := KindDivergent.Formulas(); len(got) != 6 || got[0] != "mandelbrot" {
		t.Errorf("divergent formulas = %v", got)
	}
	if got := KindNewton.Formulas(); len(got) != 3 {
		t.Errorf("newton formulas = %v", got)
	}
	if got := KindMagnet.Formulas(); got != nil {
		t.Errorf("magnet formulas = %v, want nil", got)
	}
}
