// Package density estimates the distribution of iteration counts over a frame.
//
// The estimate is a kernel density (Epanechnikov kernel) averaged over a fixed
// number of bins spanning [0, maxIterations]. Each sample's kernel mass is
// split across the bins it overlaps, so the table integrates to 1 whatever
// the bandwidth. Colorers use it to spread palette entries where most pixels
// are.
package density

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// DefaultBins is the number of bins of an estimate.
const DefaultBins = 100

// Sentinel errors.
var (
	ErrNoSamples = errors.New("density: no finite samples")
	ErrDomain    = errors.New("density: max iterations must be positive")
)

// PDF is a sampled probability density over [Min, Max].
type PDF struct {
	Min       float64
	Max       float64
	Bandwidth float64
	Bins      []float64 // mean density over each bin
}

// BinWidth returns the width of one bin.
func (p *PDF) BinWidth() float64 {
	if len(p.Bins) == 0 {
		return 0
	}
	return (p.Max - p.Min) / float64(len(p.Bins))
}

// Center returns the abscissa of bin i.
func (p *PDF) Center(i int) float64 {
	return p.Min + (float64(i)+0.5)*p.BinWidth()
}

// At returns the density at x, interpolated linearly between bin centers.
// Values outside [Min, Max] have density 0.
func (p *PDF) At(x float64) float64 {
	n := len(p.Bins)
	if n == 0 || math.IsNaN(x) || x < p.Min || x > p.Max {
		return 0
	}
	t := (x-p.Min)/p.BinWidth() - 0.5
	if t <= 0 {
		return p.Bins[0]
	}
	if t >= float64(n-1) {
		return p.Bins[n-1]
	}
	i := int(t)
	f := t - float64(i)
	return p.Bins[i]*(1-f) + p.Bins[i+1]*f
}

// Mode returns the center of the bin with the highest density.
func (p *PDF) Mode() float64 {
	best := 0
	for i, v := range p.Bins {
		if v > p.Bins[best] {
			best = i
		}
	}
	return p.Center(best)
}

// Integral returns the Riemann sum of the table; 1 for a normalized estimate.
func (p *PDF) Integral() float64 {
	var sum float64
	for _, v := range p.Bins {
		sum += v
	}
	return sum * p.BinWidth()
}

// Samples extracts the iteration counts of buf, substituting maxIterations
// for pixels that never escaped or converged.
func Samples(buf *iteration.Buffer, maxIterations float64) []float64 {
	out := buf.Counts()
	for i, v := range out {
		if math.IsInf(v, 1) {
			out[i] = maxIterations
		}
	}
	return out
}

// FromBuffer estimates the iteration count density of a frame.
func FromBuffer(buf *iteration.Buffer, maxIterations int) (*PDF, error) {
	m := float64(maxIterations)
	return Estimate(Samples(buf, m), m)
}

// Estimate builds a DefaultBins-bin estimate over [0, maxIterations].
// Positive infinities are replaced by maxIterations; NaNs are dropped.
func Estimate(samples []float64, maxIterations float64) (*PDF, error) {
	if !(maxIterations > 0) || math.IsInf(maxIterations, 0) {
		return nil, ErrDomain
	}

	xs := make([]float64, 0, len(samples))
	for _, v := range samples {
		switch {
		case math.IsNaN(v), math.IsInf(v, -1):
			continue
		case math.IsInf(v, 1):
			v = maxIterations
		}
		xs = append(xs, v)
	}
	if len(xs) == 0 {
		return nil, ErrNoSamples
	}
	p := &PDF{Min: 0, Max: maxIterations, Bins: make([]float64, DefaultBins)}
	w := p.BinWidth()
	p.Bandwidth = Bandwidth(xs, w)

	// Mass falling outside the domain is kept in the edge bins.
	h := p.Bandwidth
	last := len(p.Bins) - 1
	mass := make([]float64, len(p.Bins))
	for _, s := range xs {
		lo := bin(s-h, w, last)
		hi := bin(s+h, w, last)
		for i := lo; i <= hi; i++ {
			a, b := math.Inf(-1), math.Inf(1)
			if i > 0 {
				a = float64(i) * w
			}
			if i < last {
				b = float64(i+1) * w
			}
			mass[i] += epanechnikovCDF((b-s)/h) - epanechnikovCDF((a-s)/h)
		}
	}
	norm := 1 / (float64(len(xs)) * w)
	for i, m := range mass {
		p.Bins[i] = m * norm
	}

	total := p.Integral()
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("density: degenerate estimate (integral %v)", total)
	}
	for i := range p.Bins {
		p.Bins[i] /= total
	}
	return p, nil
}

// Bandwidth returns Silverman's rule-of-thumb bandwidth
// 0.9·min(σ, IQR/1.34)·n^(-1/5) for xs, or fallback when the spread of the
// sample is zero or cannot be computed.
func Bandwidth(xs []float64, fallback float64) float64 {
	data := stats.Float64Data(xs)
	sd, err := stats.StandardDeviationSample(data)
	if err != nil || math.IsNaN(sd) {
		return fallback
	}
	spread := sd
	if iqr, err := stats.InterQuartileRange(data); err == nil && iqr > 0 {
		spread = math.Min(sd, iqr/1.34)
	}
	h := 0.9 * spread * math.Pow(float64(len(xs)), -0.2)
	if !(h > 0) || math.IsInf(h, 0) {
		return fallback
	}
	return h
}

// epanechnikovCDF is the cumulative distribution of the kernel 3/4·(1−u²).
func epanechnikovCDF(u float64) float64 {
	switch {
	case u <= -1:
		return 0
	case u >= 1:
		return 1
	}
	return 0.25 * (2 + 3*u - u*u*u)
}

// bin returns the index of the bin holding x, clamped to [0, last].
func bin(x, w float64, last int) int {
	i := math.Floor(x / w)
	switch {
	case i < 0:
		return 0
	case i > float64(last):
		return last
	}
	return int(i)
}
