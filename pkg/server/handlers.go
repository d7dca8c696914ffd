package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fractalplane/pkg/buildinfo"
	"github.com/matzehuels/fractalplane/pkg/config"
	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/pipeline"
)

// RenderRequest is the body of POST /render. Complex values are [re, im]
// pairs; View is [minRe, minIm, maxRe, maxIm].
type RenderRequest struct {
	Family        string    `json:"family"`
	Mode          string    `json:"mode,omitempty"`
	Formula       string    `json:"formula,omitempty"`
	View          []float64 `json:"view,omitempty"`
	Dual          []float64 `json:"dual,omitempty"`
	MaxIterations *int      `json:"max_iterations,omitempty"`
	EscapeRadius  *float64  `json:"escape_radius,omitempty"`
	RootTolerance *float64  `json:"root_tolerance,omitempty"`
	Advanced      *bool     `json:"advanced,omitempty"`
	Power         *float64  `json:"power,omitempty"`
	Degree        *int      `json:"degree,omitempty"`
	Relaxation    []float64 `json:"relaxation,omitempty"`
	Sequence      string    `json:"sequence,omitempty"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Blocks        int       `json:"blocks,omitempty"`
	PDF           bool      `json:"pdf,omitempty"`
	Refresh       bool      `json:"refresh,omitempty"`
	Counts        bool      `json:"counts,omitempty"`
}

// RenderResponse summarizes a frame. Infinite iteration counts are sent as -1.
type RenderResponse struct {
	Key              string       `json:"key"`
	CacheHit         bool         `json:"cache_hit"`
	Family           string       `json:"family"`
	Mode             string       `json:"mode"`
	Formula          string       `json:"formula"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	ElapsedMS        int64        `json:"elapsed_ms"`
	Pixels           int          `json:"pixels"`
	Escaped          int          `json:"escaped"`
	Converged        int          `json:"converged"`
	Roots            [][2]float64 `json:"roots,omitempty"`
	MaxExpIterations float64      `json:"max_exp_iterations,omitempty"`
	PDF              []float64    `json:"pdf,omitempty"`
	Counts           []float64    `json:"counts,omitempty"`
}

// FamilyInfo describes one family for GET /families.
type FamilyInfo struct {
	Kind          string     `json:"kind"`
	Formulas      []string   `json:"formulas,omitempty"`
	View          [4]float64 `json:"view"`
	MaxIterations int        `json:"max_iterations"`
	EscapeRadius  float64    `json:"escape_radius"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"busy":   s.Runner.Executor.Busy(),
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	out := make([]FamilyInfo, 0, len(fractal.Kinds))
	for _, k := range fractal.Kinds {
		cfg := fractal.Default(k)
		out = append(out, FamilyInfo{
			Kind:     string(k),
			Formulas: k.Formulas(),
			View: [4]float64{
				real(cfg.View.Min), imag(cfg.View.Min),
				real(cfg.View.Max), imag(cfg.View.Max),
			},
			MaxIterations: cfg.MaxIterations,
			EscapeRadius:  cfg.EscapeRadius,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts, err := req.options()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.Logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.Runner.Execute(r.Context(), opts)
	if stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRenderResponse(res, req.Counts))
}

func (s *Server) handleCurrentBatch(w http.ResponseWriter, r *http.Request) {
	b := s.Runner.Executor.Current()
	if b == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, progressOf(b, stateRunning))
}

// options maps the request onto a config file so that API and CLI share the
// same defaulting and validation.
func (req RenderRequest) options() (pipeline.Options, error) {
	f := &config.File{}
	f.Family = config.Family{
		Kind:          req.Family,
		Mode:          req.Mode,
		Formula:       req.Formula,
		Dual:          req.Dual,
		MaxIterations: req.MaxIterations,
		EscapeRadius:  req.EscapeRadius,
		RootTolerance: req.RootTolerance,
		Advanced:      req.Advanced,
	}
	if req.View != nil {
		if len(req.View) != 4 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "view must be [minRe, minIm, maxRe, maxIm]")
		}
		f.View = config.View{Min: req.View[:2], Max: req.View[2:]}
	}
	f.Divergent.Power = req.Power
	f.Newton = config.Newton{Degree: req.Degree, Relaxation: req.Relaxation}
	f.Lyapunov.Sequence = req.Sequence
	f.Screen = config.Screen{Width: req.Width, Height: req.Height}
	f.Engine = config.Engine{Blocks: req.Blocks, PDF: req.PDF}

	cfg, err := f.Fractal()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Config:  cfg,
		Screen:  f.ScreenSize(),
		Engine:  f.EngineOptions(),
		Refresh: req.Refresh,
	}, nil
}

func newRenderResponse(res *pipeline.Result, counts bool) RenderResponse {
	frame := res.Frame
	out := RenderResponse{
		Key:              res.Key,
		CacheHit:         res.CacheHit,
		Family:           res.Meta.Family,
		Mode:             res.Meta.Mode,
		Formula:          res.Meta.Formula,
		Width:            frame.Buffer.Width,
		Height:           frame.Buffer.Height,
		ElapsedMS:        res.Stats.Compute.Milliseconds(),
		Pixels:           res.Stats.Pixels,
		Escaped:          res.Stats.Escaped,
		Converged:        res.Stats.Converged,
		MaxExpIterations: frame.MaxExpIterations,
	}
	for _, z := range frame.Roots {
		out.Roots = append(out.Roots, [2]float64{real(z), imag(z)})
	}
	if frame.PDF != nil {
		out.PDF = frame.PDF.Bins
	}
	if counts {
		out.Counts = frame.Buffer.Counts()
		for i, v := range out.Counts {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				out.Counts[i] = -1
			}
		}
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Progress states.
const (
	stateIdle    = "idle"
	stateRunning = "running"
	stateDone    = "done"
	stateFailed  = "failed"
)

// ProgressEvent is sent by GET /batches/current and GET /ws/progress.
type ProgressEvent struct {
	State       string `json:"state"`
	ID          string `json:"id,omitempty"`
	Generation  uint64 `json:"generation,omitempty"`
	Done        int    `json:"done"`
	Total       int    `json:"total"`
	ElapsedMS   int64  `json:"elapsed_ms"`
	RemainingMS int64  `json:"remaining_ms,omitempty"`
	Error       string `json:"error,omitempty"`
}

func progressOf(b *engine.Batch, state string) ProgressEvent {
	done, total := b.Progress()
	ev := ProgressEvent{
		State:      state,
		ID:         b.ID,
		Generation: b.Generation,
		Done:       done,
		Total:      total,
		ElapsedMS:  b.Elapsed().Milliseconds(),
	}
	if rem, ok := b.Remaining(); ok {
		ev.RemainingMS = rem.Round(time.Millisecond).Milliseconds()
	}
	return ev
}
