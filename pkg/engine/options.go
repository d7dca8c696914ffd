package engine

import (
	"runtime"

	"github.com/matzehuels/fractalplane/pkg/errors"
)

// Default values for Options.
const (
	DefaultBlocks = 50
	DefaultSeed   = uint64(42)
)

// Options controls how a batch is scheduled and what the finishing phase
// computes.
type Options struct {
	Blocks      int    // blocks per axis, within [1,100]
	Workers     int    // pool size, 0 means DefaultWorkers()
	Seed        uint64 // seeds the block shuffle
	EstimatePDF bool

	// LeaveSeedUnassigned keeps RootIndex 0 on the pixel that registers a
	// new root cluster.
	LeaveSeedUnassigned bool
}

// DefaultWorkers returns one worker per CPU, leaving one CPU free.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Blocks == 0 {
		o.Blocks = DefaultBlocks
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Validate checks the options. Zero values are accepted and mean "default".
func (o Options) Validate() error {
	if o.Blocks != 0 {
		if err := errors.ValidateBlocks(o.Blocks); err != nil {
			return err
		}
	}
	return errors.ValidateWorkers(o.Workers)
}
