// Package io reads and writes computed frames.
//
// # Format
//
// A frame file starts with the four magic bytes "FPZ1" followed by a zstd
// stream holding one gob-encoded envelope:
//
//	magic    "FPZ1"
//	payload  zstd(gob(envelope))
//
// The envelope carries the full per-pixel result buffer, the optional density
// table, the root representatives of convergent families, the elapsed time,
// and a [Meta] block describing how the frame was produced. Gob is used
// because results routinely contain infinities and complex values.
//
// An xxhash checksum of the buffer is stored alongside it and verified on
// read, so a truncated or corrupted cache entry is rejected rather than
// silently rendered.
//
// # Import
//
// Use [ImportFrame] to read a frame from a file path, or [ReadFrame] to read
// from any io.Reader:
//
//	frame, meta, err := io.ImportFrame("mandelbrot.fpz")
//
// # Export
//
// Use [ExportFrame] to write a frame to a file, or [WriteFrame] to write to
// any io.Writer:
//
//	err := io.ExportFrame(frame, meta, "mandelbrot.fpz")
//
// [MarshalFrame] and [UnmarshalFrame] do the same against byte slices and are
// what the frame cache stores.
package io
