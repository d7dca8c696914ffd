// Package pipeline computes frames with caching for every entry point.
//
// The CLI and the HTTP server both go through a [Runner] so that cache
// lookup, batch execution, encoding and cache writes behave the same way
// everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config: fractal.Default(fractal.KindMagnet),
//	    Screen: plane.Screen{Width: 800, Height: 600},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Roots, "roots")
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fractalplane/pkg/cache"
	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	fpio "github.com/matzehuels/fractalplane/pkg/io"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains everything needed to produce one frame.
type Options struct {
	Config fractal.Config
	Screen plane.Screen
	Engine engine.Options

	// Refresh skips the cache lookup but still stores the new frame.
	Refresh bool

	// OnBatch, if set, is called with the batch handle right after it starts,
	// so callers can report progress. It is not called on a cache hit.
	OnBatch func(*engine.Batch)

	// Logger, if set, receives this call's log lines instead of the
	// runner's logger.
	Logger *log.Logger

	validated bool
}

// Result is the output of Runner.Execute.
type Result struct {
	Frame    *engine.Frame
	Meta     fpio.Meta
	Key      string
	CacheHit bool
	Stats    Stats
}

// Stats summarizes a frame.
type Stats struct {
	Elapsed   time.Duration // wall time of this call
	Compute   time.Duration // batch time recorded in the frame
	Pixels    int
	Escaped   int // escaped or converged within budget
	Converged int
	Roots     int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Screen.Width == 0 && o.Screen.Height == 0 {
		o.Screen = plane.Screen{Width: DefaultWidth, Height: DefaultHeight}
	}
	if err := errors.ValidateScreen(o.Screen.Width, o.Screen.Height); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if err := o.Engine.Validate(); err != nil {
		return err
	}
	o.Engine.SetDefaults()
	o.validated = true
	return nil
}

func (o *Options) logger(fallback *log.Logger) *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return fallback
}

// Job returns the engine job described by the options.
func (o *Options) Job() engine.Job {
	return engine.Job{Config: o.Config, Screen: o.Screen, Options: o.Engine}
}

// FrameKeyOpts returns the cache key inputs besides the configuration.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Width:               o.Screen.Width,
		Height:              o.Screen.Height,
		EstimatePDF:         o.Engine.EstimatePDF,
		LeaveSeedUnassigned: o.Engine.LeaveSeedUnassigned,
	}
}

// Meta describes the frame the options produce.
func (o *Options) Meta() fpio.Meta {
	return fpio.Meta{
		Family:      string(o.Config.Kind),
		Mode:        o.Config.Mode.String(),
		Formula:     o.Config.Formula(),
		Fingerprint: o.Config.Fingerprint(),
		Created:     time.Now().UTC(),
	}
}
