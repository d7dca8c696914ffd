package fractal

import (
	"math"
	"math/cmplx"
)

// stepFunc advances an escape-time orbit: z ↦ f(z, c).
type stepFunc func(z, c complex128) complex128

// divergentStep returns the map for an escape-time formula together with the
// nominal polynomial degree used by the smooth iteration count.
func divergentStep(p DivergentParams) (stepFunc, float64) {
	switch p.Formula {
	case FormulaMultibrot:
		exp := complex(p.Power, 0)
		return func(z, c complex128) complex128 {
			if z == 0 {
				return c
			}
			return cmplx.Pow(z, exp) + c
		}, p.Power
	case FormulaBurningShip:
		return func(z, c complex128) complex128 {
			a := complex(math.Abs(real(z)), math.Abs(imag(z)))
			return a*a + c
		}, 2
	case FormulaTricorn:
		return func(z, c complex128) complex128 {
			w := cmplx.Conj(z)
			return w*w + c
		}, 2
	case FormulaSine:
		return func(z, c complex128) complex128 { return c * cmplx.Sin(z) }, 2
	case FormulaTangent:
		return func(z, c complex128) complex128 { return c * cmplx.Tan(z) }, 2
	default:
		return func(z, c complex128) complex128 { return z*z + c }, 2
	}
}

// rootFunc is the function whose zeros the Newton family searches.
type rootFunc func(z complex128) complex128

func newtonFunc(p NewtonParams) rootFunc {
	switch p.Formula {
	case FormulaNewtonSine:
		return cmplx.Sin
	case FormulaCubic:
		return func(z complex128) complex128 { return z*z*z - 2*z + 2 }
	default:
		deg := p.Degree
		return func(z complex128) complex128 { return powInt(z, deg) - 1 }
	}
}

// powInt raises z to a non-negative integer power by repeated squaring.
func powInt(z complex128, n int) complex128 {
	result := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			result *= z
		}
		z *= z
		n >>= 1
	}
	return result
}

// finiteStep is the complex finite-difference step h = δ + δi.
func finiteStep(delta float64) complex128 {
	return complex(delta, delta)
}

// derivative estimates f′(z) from a forward difference; fz must equal f(z).
func derivative(f rootFunc, z, fz, h complex128) complex128 {
	return (f(z+h) - fz) / h
}

// abs2 returns |z|².
func abs2(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// bad reports whether z holds a NaN or infinite component.
func bad(z complex128) bool {
	return math.IsNaN(real(z)) || math.IsNaN(imag(z)) ||
		math.IsInf(real(z), 0) || math.IsInf(imag(z), 0)
}

// smoothEscape returns the continuous escape count for an orbit that left the
// disk of radius escape after n steps, for a map of the given degree.
func smoothEscape(n int, z complex128, escape, degree float64) float64 {
	lz := 0.5 * math.Log(abs2(z))
	if !(lz > 0) || !(degree > 1) || !(escape > 1) {
		return float64(n)
	}
	nu := float64(n) + 1 - math.Log(lz/math.Log(escape))/math.Log(degree)
	if math.IsNaN(nu) || math.IsInf(nu, 0) {
		return float64(n)
	}
	return nu
}

// fraction returns the fractional part of a finite normalized count.
func fraction(nu float64) float64 {
	if math.IsInf(nu, 0) || math.IsNaN(nu) {
		return 1
	}
	return nu - math.Floor(nu)
}
