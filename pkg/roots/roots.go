// Package roots groups the converged values of a Newton or magnet frame into
// stable root identities.
//
// Pixels whose iteration converged carry a provisional RootIndex of 1. A
// Clusterer replaces it with the 1-based index of the root the pixel settled
// on, so that two pixels attracted by the same root share an index.
package roots

import (
	"math/cmplx"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// Options controls clustering.
type Options struct {
	// Tolerance is the maximum plane distance between a converged value and a
	// cluster representative for the two to be considered the same root.
	Tolerance float64

	// LeaveSeedUnassigned reproduces the legacy behavior where the pixel that
	// registers a new cluster keeps RootIndex 0.
	LeaveSeedUnassigned bool
}

// Result summarizes a clustering pass.
type Result struct {
	// Roots holds one representative per cluster; cluster i has index i+1.
	Roots []complex128

	// MaxExpIterations is the largest ExponentialIterationCount observed among
	// converged pixels, used to normalize interior coloring.
	MaxExpIterations float64
}

// Clusterer assigns root indices in raster order.
type Clusterer struct {
	opts Options
}

// New creates a clusterer.
func New(opts Options) *Clusterer {
	return &Clusterer{opts: opts}
}

// Cluster rewrites RootIndex for every converged pixel of buf in place.
// Pixels with RootIndex 0 are left untouched.
func (c *Clusterer) Cluster(buf *iteration.Buffer) Result {
	var res Result
	for i := range buf.Results {
		r := &buf.Results[i]
		if r.RootIndex <= 0 {
			continue
		}
		if r.ExponentialIterationCount > res.MaxExpIterations {
			res.MaxExpIterations = r.ExponentialIterationCount
		}

		z := r.Z()
		match := 0
		for k, root := range res.Roots {
			// last match wins
			if cmplx.Abs(z-root) < c.opts.Tolerance {
				match = k + 1
			}
		}
		if match > 0 {
			r.RootIndex = match
			continue
		}

		res.Roots = append(res.Roots, z)
		if c.opts.LeaveSeedUnassigned {
			r.RootIndex = 0
		} else {
			r.RootIndex = len(res.Roots)
		}
	}
	return res
}

// Cluster is shorthand for New(opts).Cluster(buf).
func Cluster(buf *iteration.Buffer, opts Options) Result {
	return New(opts).Cluster(buf)
}
