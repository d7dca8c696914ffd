package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fractalplane/pkg/cache"
	"github.com/matzehuels/fractalplane/pkg/engine"
	fpio "github.com/matzehuels/fractalplane/pkg/io"
	"github.com/matzehuels/fractalplane/pkg/observability"
)

const keyTypeFrame = "frame"

// Runner encapsulates frame computation with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// A Runner owns one Executor, so concurrent Execute calls that miss the cache
// are subject to the executor's busy guard: the second caller gets ErrBusy.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Executor *engine.Executor
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Executor: engine.NewExecutor(logger),
	}
}

// Key returns the cache key for opts. opts must have been validated.
func (r *Runner) Key(opts *Options) string {
	return r.Keyer.FrameKey(cache.HashString(opts.Config.Fingerprint()), opts.FrameKeyOpts())
}

// Execute returns the frame described by opts, from the cache when possible.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	key := r.Key(&opts)
	logger := opts.logger(r.Logger)

	if !opts.Refresh {
		if frame, meta, ok := r.lookup(ctx, logger, key); ok {
			res := newResult(frame, meta, key, true, start)
			logger.Info("frame from cache", "family", meta.Family, "pixels", res.Stats.Pixels)
			return res, nil
		}
	}

	b, err := r.Executor.Start(ctx, opts.Job())
	if err != nil {
		return nil, err
	}
	if opts.OnBatch != nil {
		opts.OnBatch(b)
	}
	frame, err := b.Wait(ctx)
	if err != nil {
		return nil, err
	}

	meta := opts.Meta()
	r.store(ctx, logger, key, frame, meta)

	res := newResult(frame, meta, key, false, start)
	logger.Info("computed frame",
		"family", meta.Family,
		"pixels", res.Stats.Pixels,
		"roots", res.Stats.Roots,
		"duration", res.Stats.Compute)
	return res, nil
}

// lookup treats every cache or decode failure as a miss.
func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) (*engine.Frame, fpio.Meta, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeFrame)
		return nil, fpio.Meta{}, false
	}

	frame, meta, err := fpio.UnmarshalFrame(data)
	if err != nil {
		logger.Warn("discarding unreadable cached frame", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyTypeFrame)
		return nil, fpio.Meta{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeFrame)
	return frame, meta, true
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, frame *engine.Frame, meta fpio.Meta) {
	data, err := fpio.MarshalFrame(frame, meta)
	if err != nil {
		logger.Warn("encode frame for cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeFrame, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func newResult(frame *engine.Frame, meta fpio.Meta, key string, hit bool, start time.Time) *Result {
	sum := frame.Buffer.Summarize()
	return &Result{
		Frame:    frame,
		Meta:     meta,
		Key:      key,
		CacheHit: hit,
		Stats: Stats{
			Elapsed:   time.Since(start),
			Compute:   frame.Elapsed,
			Pixels:    sum.Pixels,
			Escaped:   sum.Bounded,
			Converged: sum.Converged,
			Roots:     len(frame.Roots),
		},
	}
}
