package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
)

// handleProgress streams progress of the batch in flight. If no batch is
// running when the client connects, the server waits for the next one. The
// stream ends with a "done" or "failed" event followed by a normal close.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Logger.Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	// Clients never send; CloseRead handles pings and notices disconnects.
	ctx := c.CloseRead(r.Context())

	if err := s.streamProgress(ctx, c); err != nil {
		s.Logger.Debug("progress stream ended", "err", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) streamProgress(ctx context.Context, c *websocket.Conn) error {
	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	var b *engine.Batch
	idleSent := false
	for b == nil {
		if b = s.Runner.Executor.Current(); b != nil {
			break
		}
		if !idleSent {
			if err := wsjson.Write(ctx, c, ProgressEvent{State: stateIdle}); err != nil {
				return err
			}
			idleSent = true
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.Done():
			ev := progressOf(b, stateDone)
			if err := b.Err(); err != nil {
				ev.State = stateFailed
				ev.Error = errors.UserMessage(err)
			}
			return wsjson.Write(ctx, c, ev)
		case <-ticker.C:
			if err := wsjson.Write(ctx, c, progressOf(b, stateRunning)); err != nil {
				return err
			}
		}
	}
}
