package iteration

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Buffer holds one Result per pixel in row-major order.
type Buffer struct {
	Width, Height int
	Results       []Result
}

// NewBuffer allocates a zeroed buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("iteration: negative buffer size %dx%d", width, height))
	}
	return &Buffer{
		Width:   width,
		Height:  height,
		Results: make([]Result, width*height),
	}
}

// Len returns the number of pixels.
func (b *Buffer) Len() int { return len(b.Results) }

// Index returns the row-major offset of (x, y).
func (b *Buffer) Index(x, y int) int { return x + y*b.Width }

// At returns a pointer to the result at (x, y).
func (b *Buffer) At(x, y int) *Result { return &b.Results[b.Index(x, y)] }

// AtPoint is At for a plane.Point.
func (b *Buffer) AtPoint(p plane.Point) *Result { return b.At(p.X, p.Y) }

// Counts returns a copy of every pixel's IterationCount.
func (b *Buffer) Counts() []float64 {
	out := make([]float64, len(b.Results))
	for i := range b.Results {
		out[i] = b.Results[i].IterationCount
	}
	return out
}

// Checksum returns an xxhash digest over every numeric field of every pixel.
// Two buffers with identical results have identical checksums; orbits are not
// included and negative zero hashes like zero.
func (b *Buffer) Checksum() uint64 {
	d := xxhash.New()
	var scratch [8]byte
	put := func(f float64) {
		if f == 0 {
			f = 0
		}
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		_, _ = d.Write(scratch[:])
	}
	put(float64(b.Width))
	put(float64(b.Height))
	for i := range b.Results {
		r := &b.Results[i]
		put(r.IterationCount)
		put(r.NormalizedIterationCount)
		put(r.ExponentialIterationCount)
		put(r.Real)
		put(r.Imag)
		put(r.Modulus)
		put(r.AverageDistance)
		put(r.Angle)
		put(r.Lyapunov)
		put(r.Curvature)
		put(r.Striping)
		put(r.MinGaussianDistance)
		put(r.AvgGaussianDistance)
		put(r.ExteriorDistance)
		put(r.TrapDisk)
		put(r.TrapCross)
		put(r.TrapSine)
		put(r.TrapTangent)
		put(float64(r.RootIndex))
	}
	return d.Sum64()
}

// Summary counts pixels by outcome.
type Summary struct {
	Pixels    int
	Bounded   int // escaped or converged within budget
	Unbounded int
	Converged int // RootIndex > 0
	MaxRoot   int
}

// Summarize walks the buffer once and counts outcomes.
func (b *Buffer) Summarize() Summary {
	s := Summary{Pixels: len(b.Results)}
	for i := range b.Results {
		r := &b.Results[i]
		if r.Bounded() {
			s.Bounded++
		} else {
			s.Unbounded++
		}
		if r.RootIndex > 0 {
			s.Converged++
			if r.RootIndex > s.MaxRoot {
				s.MaxRoot = r.RootIndex
			}
		}
	}
	return s
}
