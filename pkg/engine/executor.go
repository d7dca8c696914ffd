package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fractalplane/pkg/density"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/iteration"
	"github.com/matzehuels/fractalplane/pkg/observability"
	"github.com/matzehuels/fractalplane/pkg/roots"
)

// ErrBusy is wrapped by the error Start returns while a batch is in flight.
var ErrBusy = errors.New(errors.ErrCodeBatchBusy, "executor is busy")

// Executor runs one batch at a time on a bounded worker pool.
type Executor struct {
	Logger *log.Logger

	mu         sync.Mutex
	current    *Batch
	generation uint64
}

// NewExecutor creates an executor. A nil logger uses log.Default().
func NewExecutor(logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{Logger: logger}
}

// Current returns the batch in flight, or nil.
func (e *Executor) Current() *Batch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Busy reports whether a batch is in flight.
func (e *Executor) Busy() bool {
	return e.Current() != nil
}

// Generation returns the generation of the most recently started batch.
func (e *Executor) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Start validates the job and launches it in the background.
//
// If a batch is already in flight no new batch is started: Start returns the
// running batch and an error wrapping ErrBusy. The batch itself ignores the
// cancellation of ctx; only the values it carries are kept.
func (e *Executor) Start(ctx context.Context, job Job) (*Batch, error) {
	if err := errors.ValidateScreen(job.Screen.Width, job.Screen.Height); err != nil {
		return nil, err
	}
	if err := job.Config.Validate(); err != nil {
		return nil, err
	}
	if err := job.Options.Validate(); err != nil {
		return nil, err
	}
	job.Options.SetDefaults()

	blocks := Partition(job.Screen, job.Options.Blocks)
	Shuffle(blocks, job.Options.Seed)

	e.mu.Lock()
	if b := e.current; b != nil {
		e.mu.Unlock()
		return b, errors.Wrap(errors.ErrCodeBatchBusy, ErrBusy, "batch %d in flight", b.Generation)
	}
	e.generation++
	b := newBatch(e.generation, job, len(blocks))
	e.current = b
	e.mu.Unlock()

	go e.run(context.WithoutCancel(ctx), b, blocks)
	return b, nil
}

// Run starts a batch and waits for its frame.
func (e *Executor) Run(ctx context.Context, job Job) (*Frame, error) {
	b, err := e.Start(ctx, job)
	if err != nil {
		return nil, err
	}
	return b.Wait(ctx)
}

func (e *Executor) run(ctx context.Context, b *Batch, blocks []Block) {
	job := &b.Job
	e.Logger.Debug("batch started",
		"id", b.ID,
		"generation", b.Generation,
		"family", job.Config.Kind,
		"screen", job.Screen,
		"blocks", len(blocks),
		"workers", job.Options.Workers)
	observability.Batch().OnBatchStart(ctx, b.ID, b.Generation, len(blocks))

	it := fractal.NewIterator(&job.Config, job.Screen)
	tasks := make([]*Task, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(job.Options.Workers)
	for i, blk := range blocks {
		t := NewTask(blk)
		tasks[i] = t
		g.Go(func() error {
			if err := t.Run(gctx, it); err != nil {
				return err
			}
			done := int(b.done.Add(1))
			observability.Batch().OnTaskComplete(ctx, b.ID, done, len(blocks))
			return nil
		})
	}

	var frame *Frame
	err := g.Wait()
	if err == nil {
		frame = e.finish(b, tasks)
	} else if !errors.Is(err, errors.ErrCodeTaskFailed) {
		err = errors.Wrap(errors.ErrCodeTaskFailed, err, "batch %s", b.ID)
	}

	elapsed := time.Since(b.Started)
	if err != nil {
		e.Logger.Error("batch failed", "id", b.ID, "elapsed", elapsed, "err", err)
	} else {
		e.Logger.Info("batch complete", "id", b.ID, "elapsed", elapsed)
	}

	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()

	b.complete(frame, err)
	observability.Batch().OnBatchComplete(ctx, b.ID, elapsed, err)
}

// finish runs after every task of the batch has returned.
func (e *Executor) finish(b *Batch, tasks []*Task) *Frame {
	job := &b.Job
	buf := iteration.NewBuffer(job.Screen.Width, job.Screen.Height)
	Assemble(buf, tasks)

	frame := &Frame{Buffer: buf}
	if job.Config.Kind.Convergent() {
		res := roots.Cluster(buf, roots.Options{
			Tolerance:           job.Config.RootTolerance,
			LeaveSeedUnassigned: job.Options.LeaveSeedUnassigned,
		})
		frame.Roots = res.Roots
		frame.MaxExpIterations = res.MaxExpIterations
		e.Logger.Debug("clustered roots", "id", b.ID, "roots", len(res.Roots))
	}
	if job.Options.EstimatePDF {
		frame.PDF = e.estimate(b, buf)
	}
	frame.Elapsed = time.Since(b.Started)
	return frame
}

// estimate never fails the frame: errors and panics are logged and yield nil.
func (e *Executor) estimate(b *Batch, buf *iteration.Buffer) (pdf *density.PDF) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Warn("density estimate panicked", "id", b.ID, "panic", r)
			pdf = nil
		}
	}()
	p, err := density.FromBuffer(buf, b.Job.Config.MaxIterations)
	if err != nil {
		e.Logger.Warn("density estimate failed", "id", b.ID, "err", err)
		return nil
	}
	return p
}
