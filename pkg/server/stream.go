package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/observability"
	"github.com/matzehuels/cssgraph/pkg/store"
)

// writeWait bounds a single websocket write.
const writeWait = 10 * time.Second

// Stream message types, in the order a client receives them.
const (
	MessageSVG   = "svg"   // complete document at the initial positions
	MessagePatch = "patch" // mutations of one morph frame
	MessageDone  = "done"  // the morph finished
	MessageError = "error" // the stream failed
)

// StreamMessage is one websocket text message of the morph stream.
type StreamMessage struct {
	Type      string            `json:"type"`
	SVG       string            `json:"svg,omitempty"`
	Frame     int               `json:"frame,omitempty"`
	Frames    int               `json:"frames,omitempty"`
	Mutations []canvas.Mutation `json:"mutations,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// handleStream replays the transition of a stored graph from its initial
// positions to its layout. The canvas lives on the server; the client only
// receives the document once and then the mutations of every frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	rec := recordFrom(r.Context())
	g, err := graph.ToGraph(rec.Graph)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode stored graph"))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scene, err := app.Init(g, opts.Settings)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeRenderFailed, err, "init scene"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends anything; reading only detects a closed
	// connection.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frames, err := s.stream(ctx, conn, rec, scene)
	observability.Server().OnStreamClosed(ctx, rec.ID, frames, err)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("stream failed", "id", rec.ID, "frame", frames, "err", err)
			send(conn, StreamMessage{Type: MessageError, Error: errors.UserMessage(err)})
		}
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// stream sends the initial document and one patch per frame, paced over
// the configured morph duration. It returns the number of frames sent.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, rec *store.Record, scene *app.Scene) (int, error) {
	if err := send(conn, StreamMessage{Type: MessageSVG, SVG: scene.SVG()}); err != nil {
		return 0, err
	}

	frames := s.cfg.Frames()
	var tick <-chan time.Time
	if interval := s.cfg.Layout.MorphDuration / time.Duration(frames); interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	sent := 0
	err := scene.Morph(ctx, rec.Layout, frames, func(frame int, muts []canvas.Mutation) error {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
		msg := StreamMessage{Type: MessagePatch, Frame: frame, Frames: frames, Mutations: muts}
		if err := send(conn, msg); err != nil {
			return err
		}
		sent = frame
		observability.Server().OnStreamFrame(ctx, rec.ID, frame, len(muts))
		return nil
	})
	if err != nil {
		return sent, err
	}
	return sent, send(conn, StreamMessage{Type: MessageDone, Frames: frames})
}

func send(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
