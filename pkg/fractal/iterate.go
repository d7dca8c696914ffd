package fractal

import (
	"github.com/matzehuels/fractalplane/pkg/iteration"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Iterator computes per-pixel results for one configuration and screen.
// It holds no mutable state and is safe for concurrent use.
type Iterator struct {
	cfg       *Config
	screen    plane.Screen
	transform plane.Transform
	h         complex128
}

// NewIterator binds a configuration to a screen. The configuration must not
// be modified while the iterator is in use.
func NewIterator(cfg *Config, screen plane.Screen) *Iterator {
	return &Iterator{
		cfg:       cfg,
		screen:    screen,
		transform: plane.NewTransform(cfg.View, screen),
		h:         finiteStep(cfg.DerivativeDelta),
	}
}

// Config returns the bound configuration.
func (it *Iterator) Config() *Config { return it.cfg }

// Transform returns the screen↔plane transform.
func (it *Iterator) Transform() plane.Transform { return it.transform }

// At computes the result for pixel p.
func (it *Iterator) At(p plane.Point) iteration.Result {
	return it.Point(it.transform.ToPlane(p))
}

// Point computes the result for an arbitrary point of the plane, dispatching
// on the configured family.
func (it *Iterator) Point(pixel complex128) iteration.Result {
	switch it.cfg.Kind {
	case KindNewton:
		return it.newton(pixel)
	case KindMagnet:
		return it.magnet(pixel)
	case KindLyapunov:
		return it.lyapunov(pixel)
	default:
		return it.divergent(pixel)
	}
}

// Iterate is the single-call form of NewIterator(cfg, screen).At(p).
func Iterate(cfg *Config, screen plane.Screen, p plane.Point) iteration.Result {
	return NewIterator(cfg, screen).At(p)
}

// Orbit computes pixel p with orbit capture forced on.
func Orbit(cfg Config, screen plane.Screen, p plane.Point) iteration.Result {
	cfg.CaptureOrbit = true
	return NewIterator(&cfg, screen).At(p)
}

// start returns the initial orbit value and the family parameter for a
// pixel, according to the configured mode.
func (it *Iterator) start(pixel complex128) (z, c complex128) {
	if it.cfg.Mode == ModeDual {
		return pixel, it.cfg.Dual
	}
	return 0, pixel
}
