// Package config loads frame descriptions from TOML files.
//
// A frame file names a family and overrides any subset of its defaults:
//
//	[family]
//	kind = "newton"
//	mode = "main"
//	formula = "polynomial"
//	max_iterations = 200
//
//	[view]
//	min = [-2.0, -2.0]
//	max = [2.0, 2.0]
//
//	[newton]
//	degree = 5
//	relaxation = [1.0, 0.5]
//
//	[screen]
//	width = 1024
//	height = 768
//
//	[engine]
//	blocks = 32
//	pdf = true
//
// Complex values are written as two-element arrays [re, im]. Keys that are
// absent keep the values of [fractal.Default] for the chosen kind.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Default screen size when a file has no [screen] section.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// File mirrors the TOML layout. Pointer fields distinguish "absent" from zero.
type File struct {
	Family    Family    `toml:"family"`
	View      View      `toml:"view"`
	Divergent Divergent `toml:"divergent"`
	Newton    Newton    `toml:"newton"`
	Lyapunov  Lyapunov  `toml:"lyapunov"`
	Coloring  Coloring  `toml:"coloring"`
	Traps     Traps     `toml:"traps"`
	Screen    Screen    `toml:"screen"`
	Engine    Engine    `toml:"engine"`
}

// Family selects the family and its shared numeric knobs.
type Family struct {
	Kind            string    `toml:"kind"`
	Mode            string    `toml:"mode"`
	Formula         string    `toml:"formula"`
	Dual            []float64 `toml:"dual"`
	MaxIterations   *int      `toml:"max_iterations"`
	EscapeRadius    *float64  `toml:"escape_radius"`
	DerivativeDelta *float64  `toml:"derivative_delta"`
	RootTolerance   *float64  `toml:"root_tolerance"`
	Advanced        *bool     `toml:"advanced"`
}

// View is the plane rectangle.
type View struct {
	Min []float64 `toml:"min"`
	Max []float64 `toml:"max"`
}

// Divergent holds escape-time options.
type Divergent struct {
	Power *float64 `toml:"power"`
}

// Newton holds root-finding options.
type Newton struct {
	Degree     *int      `toml:"degree"`
	Relaxation []float64 `toml:"relaxation"`
}

// Lyapunov holds logistic-map options.
type Lyapunov struct {
	Sequence string   `toml:"sequence"`
	Start    *float64 `toml:"start"`
	Warmup   *int     `toml:"warmup"`
}

// Coloring holds the advanced coloring densities.
type Coloring struct {
	StripeInterior   *float64 `toml:"stripe_interior"`
	StripeExterior   *float64 `toml:"stripe_exterior"`
	GaussianInterior *float64 `toml:"gaussian_interior"`
	GaussianExterior *float64 `toml:"gaussian_exterior"`
}

// Traps holds both orbit trap geometries.
type Traps struct {
	Interior Trap `toml:"interior"`
	Exterior Trap `toml:"exterior"`
}

// Trap is one orbit trap geometry.
type Trap struct {
	Center           []float64 `toml:"center"`
	Radius           *float64  `toml:"radius"`
	SineAmplitude    *float64  `toml:"sine_amplitude"`
	SineFrequency    *float64  `toml:"sine_frequency"`
	TangentAmplitude *float64  `toml:"tangent_amplitude"`
	TangentFrequency *float64  `toml:"tangent_frequency"`
}

// Screen is the output size in pixels.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Engine holds scheduling options.
type Engine struct {
	Blocks      int    `toml:"blocks"`
	Workers     int    `toml:"workers"`
	Seed        uint64 `toml:"seed"`
	PDF         bool   `toml:"pdf"`
	LegacyRoots bool   `toml:"legacy_roots"`
}

// Load reads and decodes the TOML file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Decode reads a TOML frame description from r. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return &file, nil
}

// Fractal builds the validated family configuration.
func (f *File) Fractal() (fractal.Config, error) {
	kind := fractal.KindDivergent
	if f.Family.Kind != "" {
		k, err := fractal.ParseKind(f.Family.Kind)
		if err != nil {
			return fractal.Config{}, err
		}
		kind = k
	}
	cfg := fractal.Default(kind)

	if err := f.applyFamily(&cfg); err != nil {
		return fractal.Config{}, err
	}
	if err := f.applyView(&cfg); err != nil {
		return fractal.Config{}, err
	}
	if err := f.applyParams(&cfg); err != nil {
		return fractal.Config{}, err
	}
	if err := f.applyColoring(&cfg); err != nil {
		return fractal.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return fractal.Config{}, err
	}
	return cfg, nil
}

// ScreenSize returns the configured screen, defaulting to 800x600.
func (f *File) ScreenSize() plane.Screen {
	s := plane.Screen{Width: f.Screen.Width, Height: f.Screen.Height}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	return s
}

// EngineOptions returns the scheduling options; zero fields keep engine defaults.
func (f *File) EngineOptions() engine.Options {
	return engine.Options{
		Blocks:              f.Engine.Blocks,
		Workers:             f.Engine.Workers,
		Seed:                f.Engine.Seed,
		EstimatePDF:         f.Engine.PDF,
		LeaveSeedUnassigned: f.Engine.LegacyRoots,
	}
}

func (f *File) applyFamily(cfg *fractal.Config) error {
	fam := f.Family
	if fam.Mode != "" {
		m, err := fractal.ParseMode(fam.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if fam.Formula != "" {
		switch cfg.Kind {
		case fractal.KindDivergent:
			cfg.Divergent.Formula = fractal.DivergentFormula(fam.Formula)
		case fractal.KindNewton:
			cfg.Newton.Formula = fractal.NewtonFormula(fam.Formula)
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "family %s has no formula choice", cfg.Kind)
		}
	}
	if fam.Dual != nil {
		z, err := complexValue("family.dual", fam.Dual)
		if err != nil {
			return err
		}
		cfg.Dual = z
	}
	set(&cfg.MaxIterations, fam.MaxIterations)
	set(&cfg.EscapeRadius, fam.EscapeRadius)
	set(&cfg.DerivativeDelta, fam.DerivativeDelta)
	set(&cfg.RootTolerance, fam.RootTolerance)
	set(&cfg.Advanced, fam.Advanced)
	return nil
}

func (f *File) applyView(cfg *fractal.Config) error {
	if f.View.Min == nil && f.View.Max == nil {
		return nil
	}
	if f.View.Min == nil || f.View.Max == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "view needs both min and max")
	}
	lo, err := complexValue("view.min", f.View.Min)
	if err != nil {
		return err
	}
	hi, err := complexValue("view.max", f.View.Max)
	if err != nil {
		return err
	}
	cfg.View = plane.NewView(lo, hi)
	return nil
}

func (f *File) applyParams(cfg *fractal.Config) error {
	set(&cfg.Divergent.Power, f.Divergent.Power)
	set(&cfg.Newton.Degree, f.Newton.Degree)
	if f.Newton.Relaxation != nil {
		z, err := complexValue("newton.relaxation", f.Newton.Relaxation)
		if err != nil {
			return err
		}
		cfg.Newton.Relaxation = z
	}
	if f.Lyapunov.Sequence != "" {
		cfg.Lyapunov.Sequence = f.Lyapunov.Sequence
	}
	set(&cfg.Lyapunov.Start, f.Lyapunov.Start)
	set(&cfg.Lyapunov.Warmup, f.Lyapunov.Warmup)
	return nil
}

func (f *File) applyColoring(cfg *fractal.Config) error {
	c := &cfg.Coloring
	set(&c.StripeInterior, f.Coloring.StripeInterior)
	set(&c.StripeExterior, f.Coloring.StripeExterior)
	set(&c.GaussianInterior, f.Coloring.GaussianInterior)
	set(&c.GaussianExterior, f.Coloring.GaussianExterior)

	if err := f.Traps.Interior.apply("traps.interior", &c.TrapInterior); err != nil {
		return err
	}
	return f.Traps.Exterior.apply("traps.exterior", &c.TrapExterior)
}

func (t Trap) apply(name string, g *fractal.TrapGeometry) error {
	if t.Center != nil {
		z, err := complexValue(name+".center", t.Center)
		if err != nil {
			return err
		}
		g.Center = z
	}
	set(&g.Radius, t.Radius)
	set(&g.SineAmplitude, t.SineAmplitude)
	set(&g.SineFrequency, t.SineFrequency)
	set(&g.TangentAmplitude, t.TangentAmplitude)
	set(&g.TangentFrequency, t.TangentFrequency)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func complexValue(key string, v []float64) (complex128, error) {
	if len(v) != 2 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be [re, im], got %d values", key, len(v))
	}
	return complex(v[0], v[1]), nil
}
