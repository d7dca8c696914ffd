package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/iteration"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Task computes one block into a buffer it owns exclusively until assembly.
type Task struct {
	Block  Block
	Buffer *iteration.Buffer
}

// NewTask allocates a task with a buffer sized exactly to b.
func NewTask(b Block) *Task {
	return &Task{
		Block:  b,
		Buffer: iteration.NewBuffer(b.Width(), b.Height()),
	}
}

// Run iterates every pixel of the block. The context is checked between rows
// so that a failing sibling can stop the batch early. A panic inside the
// iterator is returned as an ErrCodeTaskFailed error.
func (t *Task) Run(ctx context.Context, it *fractal.Iterator) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(errors.ErrCodeTaskFailed, fmt.Errorf("panic: %v\n%s", r, debug.Stack()), "block %v", t.Block)
		}
	}()

	w := t.Block.Width()
	for y := t.Block.Min.Y; y <= t.Block.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := (y - t.Block.Min.Y) * w
		for x := t.Block.Min.X; x <= t.Block.Max.X; x++ {
			t.Buffer.Results[row+x-t.Block.Min.X] = it.At(plane.Point{X: x, Y: y})
		}
	}
	return nil
}
