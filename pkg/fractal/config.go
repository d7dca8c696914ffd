package fractal

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// =============================================================================
// Families
// =============================================================================

// Kind selects a fractal family.
type Kind string

// Supported families.
const (
	KindDivergent Kind = "divergent"
	KindNewton    Kind = "newton"
	KindMagnet    Kind = "magnet"
	KindLyapunov  Kind = "lyapunov"
)

// Kinds lists every family in display order.
var Kinds = []Kind{KindDivergent, KindNewton, KindMagnet, KindLyapunov}

// Convergent reports whether the family marks pixels that settle on a root.
// Only these families go through root clustering.
func (k Kind) Convergent() bool {
	return k == KindNewton || k == KindMagnet
}

// ParseKind validates a family name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFamily, "unknown fractal family %q", s)
}

// Mode selects between the varying-parameter and the fixed-parameter view.
type Mode int

const (
	// ModeMain varies the family parameter across the screen.
	ModeMain Mode = iota
	// ModeDual fixes the parameter at Config.Dual and varies the start value.
	ModeDual
)

// String returns "main" or "dual".
func (m Mode) String() string {
	if m == ModeDual {
		return "dual"
	}
	return "main"
}

// ParseMode accepts "main", "dual" or "julia".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "main":
		return ModeMain, nil
	case "dual", "julia":
		return ModeDual, nil
	}
	return ModeMain, errors.New(errors.ErrCodeInvalidConfig, "unknown mode %q (must be 'main' or 'dual')", s)
}

// DivergentFormula selects the map iterated by the escape-time family.
type DivergentFormula string

// Escape-time formulas.
const (
	FormulaMandelbrot  DivergentFormula = "mandelbrot"   // z² + c
	FormulaMultibrot   DivergentFormula = "multibrot"    // z^p + c
	FormulaBurningShip DivergentFormula = "burning-ship" // (|x| + i|y|)² + c
	FormulaTricorn     DivergentFormula = "tricorn"      // conj(z)² + c
	FormulaSine        DivergentFormula = "sine"         // c·sin z
	FormulaTangent     DivergentFormula = "tangent"      // c·tan z
)

// NewtonFormula selects the function whose roots the Newton family finds.
type NewtonFormula string

// Root-finding formulas.
const (
	FormulaPolynomial NewtonFormula = "polynomial" // z^p − 1
	FormulaNewtonSine NewtonFormula = "sine"       // sin z
	FormulaCubic      NewtonFormula = "cubic"      // z³ − 2z + 2
)

// DivergentFormulas lists the escape-time formulas in display order.
var DivergentFormulas = []DivergentFormula{
	FormulaMandelbrot, FormulaMultibrot, FormulaBurningShip,
	FormulaTricorn, FormulaSine, FormulaTangent,
}

// NewtonFormulas lists the root-finding formulas in display order.
var NewtonFormulas = []NewtonFormula{FormulaPolynomial, FormulaNewtonSine, FormulaCubic}

// Formulas returns the formula names a family accepts; nil if it has none.
func (k Kind) Formulas() []string {
	var out []string
	switch k {
	case KindDivergent:
		for _, f := range DivergentFormulas {
			out = append(out, string(f))
		}
	case KindNewton:
		for _, f := range NewtonFormulas {
			out = append(out, string(f))
		}
	}
	return out
}

// =============================================================================
// Parameters
// =============================================================================

// DivergentParams configures the escape-time family.
type DivergentParams struct {
	Formula DivergentFormula
	Power   float64 // exponent for FormulaMultibrot
}

// NewtonParams configures relaxed Newton-Raphson root finding.
type NewtonParams struct {
	Formula    NewtonFormula
	Degree     int        // p for FormulaPolynomial
	Relaxation complex128 // α in z − α·f/f′
}

// LyapunovParams configures the Markus-Lyapunov family.
type LyapunovParams struct {
	Sequence string  // periodic symbols over {A, B}
	Start    float64 // x₀ of the logistic map
	Warmup   int     // iterations run before the exponent accumulates
}

// TrapGeometry positions the four orbit traps.
type TrapGeometry struct {
	Center           complex128
	Radius           float64 // disk trap radius
	SineAmplitude    float64
	SineFrequency    float64
	TangentAmplitude float64
	TangentFrequency float64
}

// ColoringParams holds the knobs of the advanced coloring statistics.
// Every pair is indexed by whether the pixel ends up inside (unbounded) or
// outside (escaped or converged).
type ColoringParams struct {
	StripeInterior   float64
	StripeExterior   float64
	GaussianInterior float64
	GaussianExterior float64
	TrapInterior     TrapGeometry
	TrapExterior     TrapGeometry
}

// Config is the immutable per-batch snapshot of a fractal family and its view.
// Iterators never modify it; share it freely between goroutines.
type Config struct {
	Kind Kind
	Mode Mode
	View plane.View
	Dual complex128 // fixed parameter for ModeDual

	MaxIterations   int
	EscapeRadius    float64
	DerivativeDelta float64
	RootTolerance   float64

	Advanced     bool // curvature, striping, Gaussian, traps, exterior distance
	CaptureOrbit bool

	Divergent DivergentParams
	Newton    NewtonParams
	Lyapunov  LyapunovParams
	Coloring  ColoringParams
}

// Defaults shared by every family.
const (
	DefaultMaxIterations   = 500
	DefaultDerivativeDelta = 1e-7
	DefaultSequence        = "BBABA"
)

// Default returns a ready-to-use configuration for a family, including the
// family's own default view rectangle.
func Default(kind Kind) Config {
	cfg := Config{
		Kind:            kind,
		MaxIterations:   DefaultMaxIterations,
		DerivativeDelta: DefaultDerivativeDelta,
		Divergent:       DivergentParams{Formula: FormulaMandelbrot, Power: 2},
		Newton:          NewtonParams{Formula: FormulaPolynomial, Degree: 3, Relaxation: 1},
		Lyapunov:        LyapunovParams{Sequence: DefaultSequence, Start: 0.5},
		Coloring: ColoringParams{
			StripeInterior:   2,
			StripeExterior:   5,
			GaussianInterior: 1,
			GaussianExterior: 1,
			TrapInterior: TrapGeometry{
				Radius: 0.5, SineAmplitude: 0.5, SineFrequency: 1,
				TangentAmplitude: 0.5, TangentFrequency: 1,
			},
			TrapExterior: TrapGeometry{
				Radius: 1, SineAmplitude: 1, SineFrequency: 2,
				TangentAmplitude: 1, TangentFrequency: 2,
			},
		},
	}

	switch kind {
	case KindNewton:
		cfg.View = plane.NewView(complex(-2, -2), complex(2, 2))
		cfg.EscapeRadius = 1e10
		cfg.RootTolerance = 1e-6
	case KindMagnet:
		cfg.View = plane.NewView(complex(-2, -3), complex(4, 3))
		cfg.EscapeRadius = 100
		cfg.RootTolerance = 1e-4
	case KindLyapunov:
		cfg.View = plane.NewView(complex(2, 2), complex(4, 4))
		cfg.EscapeRadius = 2
	default:
		cfg.View = plane.NewView(complex(-2.5, -1.25), complex(1, 1.25))
		cfg.EscapeRadius = 2
		cfg.Dual = complex(-0.8, 0.156)
	}
	return cfg
}

// Validate checks the configuration before a batch starts.
func (c *Config) Validate() error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if !c.View.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "view rectangle must have positive width and height")
	}
	if c.MaxIterations < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if !(c.EscapeRadius > 0) || math.IsInf(c.EscapeRadius, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "escape radius must be positive and finite")
	}
	if !(c.DerivativeDelta > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "derivative delta must be positive")
	}

	switch c.Kind {
	case KindDivergent:
		return c.validateDivergent()
	case KindNewton:
		return c.validateNewton()
	case KindMagnet:
		if !(c.RootTolerance > 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "root tolerance must be positive")
		}
		if c.EscapeRadius <= 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "magnet escape radius must exceed 1")
		}
	case KindLyapunov:
		if c.Lyapunov.Sequence == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "lyapunov sequence cannot be empty")
		}
		for _, r := range strings.ToUpper(c.Lyapunov.Sequence) {
			if r != 'A' && r != 'B' {
				return errors.New(errors.ErrCodeInvalidConfig, "lyapunov sequence may only contain A and B, got %q", c.Lyapunov.Sequence)
			}
		}
		if c.Lyapunov.Warmup < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "lyapunov warmup cannot be negative")
		}
	}
	return nil
}

func (c *Config) validateDivergent() error {
	if c.EscapeRadius <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "escape radius must exceed 1 for escape-time families")
	}
	switch c.Divergent.Formula {
	case FormulaMandelbrot, FormulaBurningShip, FormulaTricorn, FormulaSine, FormulaTangent:
	case FormulaMultibrot:
		if !(c.Divergent.Power > 1) {
			return errors.New(errors.ErrCodeInvalidConfig, "multibrot power must exceed 1, got %v", c.Divergent.Power)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown escape-time formula %q", c.Divergent.Formula)
	}
	return nil
}

func (c *Config) validateNewton() error {
	if !(c.RootTolerance > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "root tolerance must be positive")
	}
	if c.Newton.Relaxation == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "relaxation factor cannot be zero")
	}
	switch c.Newton.Formula {
	case FormulaNewtonSine, FormulaCubic:
	case FormulaPolynomial:
		if c.Newton.Degree < 2 {
			return errors.New(errors.ErrCodeInvalidConfig, "polynomial degree must be at least 2, got %d", c.Newton.Degree)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown newton formula %q", c.Newton.Formula)
	}
	return nil
}

// Fingerprint is a stable textual identity of the configuration, suitable for
// hashing into cache keys. Floats print in shortest round-trip form.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("%+v", *c)
}

// Formula returns a short human-readable description of the iterated map.
func (c *Config) Formula() string {
	switch c.Kind {
	case KindDivergent:
		if c.Divergent.Formula == FormulaMultibrot {
			return fmt.Sprintf("%s (p=%g)", c.Divergent.Formula, c.Divergent.Power)
		}
		return string(c.Divergent.Formula)
	case KindNewton:
		if c.Newton.Formula == FormulaPolynomial {
			return fmt.Sprintf("z^%d-1", c.Newton.Degree)
		}
		return string(c.Newton.Formula)
	case KindLyapunov:
		return strings.ToUpper(c.Lyapunov.Sequence)
	}
	return string(c.Kind)
}
