package io

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/fractalplane/pkg/density"
	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/iteration"
)

// Magic identifies a frame file.
const Magic = "FPZ1"

// Extension is the conventional file extension for frame files.
const Extension = ".fpz"

// Errors returned while reading frames.
var (
	ErrBadMagic = errors.New("not a frame file")
	ErrChecksum = errors.New("frame checksum mismatch")
)

// Meta describes how a frame was produced.
type Meta struct {
	Family      string
	Mode        string
	Formula     string
	Fingerprint string
	Created     time.Time
}

type envelope struct {
	Meta             Meta
	Width            int
	Height           int
	Results          []iteration.Result
	Checksum         uint64
	PDF              *density.PDF
	MaxExpIterations float64
	Roots            []complex128
	Elapsed          time.Duration
}

// WriteFrame encodes frame and writes it to w.
func WriteFrame(frame *engine.Frame, meta Meta, w io.Writer) error {
	if frame == nil || frame.Buffer == nil {
		return errors.New("nil frame")
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	env := envelope{
		Meta:             meta,
		Width:            frame.Buffer.Width,
		Height:           frame.Buffer.Height,
		Results:          frame.Buffer.Results,
		Checksum:         frame.Buffer.Checksum(),
		PDF:              frame.PDF,
		MaxExpIterations: frame.MaxExpIterations,
		Roots:            frame.Roots,
		Elapsed:          frame.Elapsed,
	}
	if err := gob.NewEncoder(zw).Encode(&env); err != nil {
		zw.Close()
		return fmt.Errorf("encode: %w", err)
	}
	return zw.Close()
}

// ReadFrame decodes a frame from r. ReadFrame does not close r.
func ReadFrame(r io.Reader) (*engine.Frame, Meta, error) {
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, Meta{}, fmt.Errorf("read header: %w", err)
	}
	if string(header) != Magic {
		return nil, Meta{}, ErrBadMagic
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("zstd: %w", err)
	}
	defer zr.Close()

	var env envelope
	if err := gob.NewDecoder(zr).Decode(&env); err != nil {
		return nil, Meta{}, fmt.Errorf("decode: %w", err)
	}
	if env.Width < 0 || env.Height < 0 || len(env.Results) != env.Width*env.Height {
		return nil, Meta{}, fmt.Errorf("decode: %d results for a %dx%d frame", len(env.Results), env.Width, env.Height)
	}

	buf := &iteration.Buffer{Width: env.Width, Height: env.Height, Results: env.Results}
	if buf.Results == nil {
		buf.Results = []iteration.Result{}
	}
	if buf.Checksum() != env.Checksum {
		return nil, Meta{}, ErrChecksum
	}

	frame := &engine.Frame{
		Buffer:           buf,
		PDF:              env.PDF,
		MaxExpIterations: env.MaxExpIterations,
		Roots:            env.Roots,
		Elapsed:          env.Elapsed,
	}
	return frame, env.Meta, nil
}

// MarshalFrame encodes frame into a byte slice.
func MarshalFrame(frame *engine.Frame, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFrame(frame, meta, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalFrame decodes a frame produced by MarshalFrame.
func UnmarshalFrame(data []byte) (*engine.Frame, Meta, error) {
	return ReadFrame(bytes.NewReader(data))
}

// ExportFrame writes frame to a file at path.
// This is a convenience wrapper around [WriteFrame] for file-based output.
func ExportFrame(frame *engine.Frame, meta Meta, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteFrame(frame, meta, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportFrame reads a frame file at path.
func ImportFrame(path string) (*engine.Frame, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	frame, meta, err := ReadFrame(f)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("read %s: %w", path, err)
	}
	return frame, meta, nil
}
