// Package iteration defines the per-pixel record produced by the fractal
// iterators and the frame-sized buffer that holds one record per pixel.
package iteration

import (
	"math"

	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Unbounded is the IterationCount of a pixel that neither escaped nor
// converged within the iteration budget.
var Unbounded = math.Inf(1)

// OrbitPoint is one step of a captured orbit.
type OrbitPoint struct {
	Z      complex128
	Screen plane.Point
}

// Result is the statistical record of one pixel.
//
// RootIndex is only ever positive for convergent families, and only after the
// root clustering pass has run; iterators set it to 1 as a provisional
// "converged" marker.
type Result struct {
	IterationCount            float64 // +Inf when the budget was exhausted
	NormalizedIterationCount  float64
	ExponentialIterationCount float64

	Real    float64
	Imag    float64
	Modulus float64

	AverageDistance float64
	Angle           float64
	Lyapunov        float64
	Curvature       float64
	Striping        float64

	MinGaussianDistance float64
	AvgGaussianDistance float64
	ExteriorDistance    float64

	TrapDisk    float64
	TrapCross   float64
	TrapSine    float64
	TrapTangent float64

	RootIndex int

	// Orbit is only populated when orbit capture was requested.
	Orbit []OrbitPoint
}

// Bounded reports whether the pixel escaped or converged within budget.
func (r *Result) Bounded() bool {
	return !math.IsInf(r.IterationCount, 1)
}

// Converged reports whether the pixel was marked as converged to a root.
func (r *Result) Converged() bool {
	return r.RootIndex > 0
}

// Z returns the final orbit value as a complex number.
func (r *Result) Z() complex128 {
	return complex(r.Real, r.Imag)
}
