// Package plane maps between screen pixels and the complex plane.
//
// A [View] is a rectangle on the complex plane; a [Screen] is the pixel grid it
// is projected onto. Pixel (0, 0) is the top-left corner of the screen and maps
// to (View.Min.Real, View.Max.Imag): the imaginary axis grows upwards while
// screen rows grow downwards.
package plane

import (
	"fmt"
	"math"
)

// Point is an integer pixel location on the screen.
type Point struct {
	X, Y int
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// NormalizeCorners orders two corners so that the first is the top-left and
// the second the bottom-right of the rectangle they span.
func NormalizeCorners(a, b Point) (Point, Point) {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return a, b
}

// Screen is the pixel size of a frame.
type Screen struct {
	Width, Height int
}

// Pixels returns Width*Height.
func (s Screen) Pixels() int { return s.Width * s.Height }

// Contains reports whether p lies on the screen.
func (s Screen) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// View is a rectangle on the complex plane.
type View struct {
	Min complex128 // lower-left corner
	Max complex128 // upper-right corner
}

// NewView builds a view from two arbitrary corners.
func NewView(a, b complex128) View {
	return View{
		Min: complex(math.Min(real(a), real(b)), math.Min(imag(a), imag(b))),
		Max: complex(math.Max(real(a), real(b)), math.Max(imag(a), imag(b))),
	}
}

// Width returns the real extent of the view.
func (v View) Width() float64 { return real(v.Max) - real(v.Min) }

// Height returns the imaginary extent of the view.
func (v View) Height() float64 { return imag(v.Max) - imag(v.Min) }

// Center returns the midpoint of the view.
func (v View) Center() complex128 { return (v.Min + v.Max) / 2 }

// Valid reports whether the view has a positive, finite area.
func (v View) Valid() bool {
	w, h := v.Width(), v.Height()
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0) && !math.IsNaN(w) && !math.IsNaN(h)
}

// Transform converts between pixels of one screen and points of one view.
// The zero value is not usable; build it with NewTransform.
type Transform struct {
	view   View
	screen Screen
	dx, dy float64
}

// NewTransform returns the transform projecting view onto screen.
func NewTransform(view View, screen Screen) Transform {
	return Transform{
		view:   view,
		screen: screen,
		dx:     view.Width() / float64(screen.Width),
		dy:     view.Height() / float64(screen.Height),
	}
}

// ToPlane returns the complex coordinate of pixel p.
func (t Transform) ToPlane(p Point) complex128 {
	return complex(
		real(t.view.Min)+float64(p.X)*t.dx,
		imag(t.view.Max)-float64(p.Y)*t.dy,
	)
}

// ToScreen returns the pixel closest to z. The result may lie off screen.
func (t Transform) ToScreen(z complex128) Point {
	x := (real(z) - real(t.view.Min)) / t.dx
	y := (imag(t.view.Max) - imag(z)) / t.dy
	return Point{X: clampInt(x), Y: clampInt(y)}
}

// PixelSize returns the complex-plane width and height of a single pixel.
func (t Transform) PixelSize() (float64, float64) { return t.dx, t.dy }

// clampInt rounds f to an int, saturating on overflow and mapping NaN to 0.
func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Floor(f))
}
