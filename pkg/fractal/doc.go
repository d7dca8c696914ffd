// Package fractal implements the per-pixel iterators of every supported
// fractal family.
//
// The families form a closed set selected by [Kind]:
//
//   - [KindDivergent]: escape-time maps (Mandelbrot, Multibrot, Burning Ship,
//     Tricorn, sine, tangent)
//   - [KindNewton]: relaxed Newton-Raphson root finding
//   - [KindMagnet]: the type I magnetism map, which may escape or converge
//   - [KindLyapunov]: Markus-Lyapunov exponent of a periodically forced
//     logistic map
//
// All families share one contract: a pixel goes in, an [iteration.Result]
// comes out. [Iterator] binds an immutable [Config] to a screen and dispatches
// on the family with a plain switch; there is no per-family interface.
//
// # Derivatives
//
// Derivatives are never computed symbolically. Both the Newton step and the
// exterior distance estimate use a forward difference with the complex step
// h = δ + δi, where δ is Config.DerivativeDelta (1e-7 by default).
//
// # Advanced coloring
//
// Curvature, striping, Gaussian-integer distances, the four orbit traps and
// the exterior distance are only accumulated when Config.Advanced is set.
// Each statistic that distinguishes interior from exterior pixels tracks both
// parameter sets during iteration and picks one when the outcome is known.
// Curvature and striping are blended between the averages through steps n−1
// and n using the fractional part of the normalized iteration count.
//
// [iteration.Result]: github.com/matzehuels/fractalplane/pkg/iteration.Result
package fractal
