package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Job describes one frame to compute.
type Job struct {
	Config  fractal.Config
	Screen  plane.Screen
	Options Options
}

// Batch is the handle of a frame being computed. All methods are safe for
// concurrent use.
type Batch struct {
	ID         string
	Generation uint64
	Job        Job
	Started    time.Time

	total int
	done  atomic.Int64

	finished chan struct{}
	frame    *Frame
	err      error
}

func newBatch(gen uint64, job Job, total int) *Batch {
	return &Batch{
		ID:         uuid.NewString(),
		Generation: gen,
		Job:        job,
		Started:    time.Now(),
		total:      total,
		finished:   make(chan struct{}),
	}
}

// Done is closed once the finishing phase has completed or the batch failed.
func (b *Batch) Done() <-chan struct{} { return b.finished }

// Wait blocks until the batch completes or ctx is done. Cancelling ctx stops
// waiting but does not stop the batch.
func (b *Batch) Wait(ctx context.Context) (*Frame, error) {
	select {
	case <-b.finished:
		return b.frame, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Frame returns the frame without blocking; it is nil while the batch is
// running or if it failed.
func (b *Batch) Frame() *Frame {
	select {
	case <-b.finished:
		return b.frame
	default:
		return nil
	}
}

// Err returns the batch error without blocking.
func (b *Batch) Err() error {
	select {
	case <-b.finished:
		return b.err
	default:
		return nil
	}
}

// Finished reports whether the batch has completed.
func (b *Batch) Finished() bool {
	select {
	case <-b.finished:
		return true
	default:
		return false
	}
}

// Progress returns the number of completed blocks and the block total.
func (b *Batch) Progress() (done, total int) {
	return int(b.done.Load()), b.total
}

// Elapsed returns the time since the batch started.
func (b *Batch) Elapsed() time.Duration {
	return time.Since(b.Started)
}

// Remaining extrapolates the time left from the completed share of blocks.
// ok is false until the first block completes.
func (b *Batch) Remaining() (d time.Duration, ok bool) {
	done, total := b.Progress()
	if done == 0 || total == 0 {
		return 0, false
	}
	if done >= total {
		return 0, true
	}
	elapsed := b.Elapsed()
	return time.Duration(float64(elapsed) * float64(total-done) / float64(done)), true
}

func (b *Batch) complete(frame *Frame, err error) {
	b.frame, b.err = frame, err
	close(b.finished)
}
