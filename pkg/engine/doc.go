// Package engine computes fractal frames in parallel.
//
// A frame is split into a grid of B×B rectangular blocks (see [Partition]).
// Each block becomes a [Task] that owns a private result buffer sized to the
// block. An [Executor] runs the tasks of one batch on a bounded worker pool,
// waits for all of them, and then runs the finishing phase exactly once:
//
//  1. assemble the block buffers into one frame-sized buffer
//  2. cluster converged values into root identities (Newton and magnet)
//  3. estimate the iteration count density (optional)
//  4. report completion with the elapsed time
//
// An executor runs a single batch at a time. Starting a batch while another
// one is in flight does not queue it: [Executor.Start] hands back the batch
// that is already running together with [ErrBusy].
//
// # Usage
//
//	exec := engine.NewExecutor(logger)
//	frame, err := exec.Run(ctx, engine.Job{
//	    Config: fractal.Default(fractal.KindNewton),
//	    Screen: plane.Screen{Width: 800, Height: 600},
//	})
package engine
