// Package pkg provides the core libraries for fractalplane.
//
// # Overview
//
// Fractalplane computes per-pixel statistics of escape-time and root-finding
// fractals over a rectangle of the complex plane. The pkg directory is
// organized into three areas:
//
//  1. Domain: [plane], [iteration], [fractal], [roots], [density]
//  2. Execution: [engine] (block partitioning, parallel tasks, assembly)
//  3. Infrastructure: [cache], [io], [config], [pipeline], [server],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	TOML file / CLI flags / HTTP request
//	         ↓
//	    [config] (fractal.Config + engine.Options)
//	         ↓
//	    [pipeline] (cache lookup)
//	         ↓
//	    [engine] (partition → shuffle → parallel tasks → assemble)
//	         ↓
//	    [roots] clustering, [density] estimate
//	         ↓
//	    [io] .fpz frame file / JSON response
//
// # Quick Start
//
//	cfg := fractal.Default(fractal.KindNewton)
//	exec := engine.NewExecutor(nil)
//	frame, err := exec.Run(ctx, engine.Job{
//	    Config: cfg,
//	    Screen: plane.Screen{Width: 800, Height: 600},
//	})
//
// See cmd/fractalplane for the command-line interface.
package pkg
