package engine

import (
	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// Assemble copies every task buffer into dst at its absolute offset x + y·W.
// Blocks are disjoint, so the result does not depend on task order.
func Assemble(dst *iteration.Buffer, tasks []*Task) {
	for _, t := range tasks {
		t.mergeInto(dst)
	}
}

func (t *Task) mergeInto(dst *iteration.Buffer) {
	w := t.Block.Width()
	for y := t.Block.Min.Y; y <= t.Block.Max.Y; y++ {
		src := t.Buffer.Results[(y-t.Block.Min.Y)*w:][:w]
		off := dst.Index(t.Block.Min.X, y)
		copy(dst.Results[off:off+w], src)
	}
}
