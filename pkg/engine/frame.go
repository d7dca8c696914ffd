package engine

import (
	"time"

	"github.com/matzehuels/fractalplane/pkg/density"
	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// Frame is the output of one batch.
type Frame struct {
	Buffer *iteration.Buffer

	// PDF is nil unless Options.EstimatePDF was set and the estimate succeeded.
	PDF *density.PDF

	// MaxExpIterations and Roots are only set for convergent families.
	MaxExpIterations float64
	Roots            []complex128

	Elapsed time.Duration
}
