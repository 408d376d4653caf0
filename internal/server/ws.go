package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/gnosis/pkg/city"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types: client to server.
const (
	MsgFov    = "fov"
	MsgResize = "resize"
)

// Message types: server to client.
const (
	MsgViewport = "viewport"
	MsgError    = "error"
)

// Envelope wraps every websocket message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// FovRequest moves or resizes the field of view. Omitted fields keep their
// current value.
type FovRequest struct {
	X      *int `json:"x,omitempty"`
	Y      *int `json:"y,omitempty"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// ResizeRequest reports a new host window size.
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ErrorPayload is sent when a message cannot be applied. The session keeps
// its previous state.
type ErrorPayload struct {
	Message string `json:"message"`
}

// viewportSession tracks one renderer's camera over a built layout. It
// only reads the layout, so no message can cause regeneration.
type viewportSession struct {
	layout  *city.Layout
	fov     spec.FovDef
	windowW int
	windowH int

	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

func newViewportSession(l *city.Layout, logger *slog.Logger) *viewportSession {
	return &viewportSession{
		layout: l,
		fov:    l.Config().FovOrZero(),
		send:   make(chan []byte, 16),
		logger: logger,
	}
}

func (s *viewportSession) fitted() bool {
	return s.windowW > 0 && s.windowH > 0
}

// current reports the session's viewport without changing anything.
func (s *viewportSession) current() Envelope {
	resp, err := resolveViewport(s.layout, s.fov, s.windowW, s.windowH, s.fitted())
	if err != nil {
		return errorEnvelope(err)
	}
	return payloadEnvelope(MsgViewport, resp)
}

// handle applies one client message and returns the reply.
func (s *viewportSession) handle(env Envelope) Envelope {
	switch env.Type {
	case MsgFov:
		var req FovRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return errorEnvelope(fmt.Errorf("decoding fov: %w", err))
		}
		next := s.fov
		for _, f := range []struct {
			src *int
			dst *int
		}{
			{req.X, &next.X},
			{req.Y, &next.Y},
			{req.Width, &next.Width},
			{req.Height, &next.Height},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		resp, err := resolveViewport(s.layout, next, s.windowW, s.windowH, s.fitted())
		if err != nil {
			return errorEnvelope(err)
		}
		s.fov = next
		return payloadEnvelope(MsgViewport, resp)

	case MsgResize:
		var req ResizeRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return errorEnvelope(fmt.Errorf("decoding resize: %w", err))
		}
		resp, err := resolveViewport(s.layout, s.fov, req.Width, req.Height, true)
		if err != nil {
			return errorEnvelope(err)
		}
		s.windowW, s.windowH = req.Width, req.Height
		return payloadEnvelope(MsgViewport, resp)

	default:
		return errorEnvelope(fmt.Errorf("unknown message type %q", env.Type))
	}
}

func payloadEnvelope(msgType string, v any) Envelope {
	data, err := json.Marshal(v)
	if err != nil {
		return errorEnvelope(err)
	}
	return Envelope{Type: msgType, Payload: data}
}

func errorEnvelope(err error) Envelope {
	data, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	return Envelope{Type: MsgError, Payload: data}
}

func (s *viewportSession) enqueue(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("Failed to marshal envelope", "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("Send buffer full, dropping message", "type", env.Type)
	}
}

// readPump handles messages until the connection fails, then closes send.
func (s *viewportSession) readPump() {
	defer func() {
		close(s.send)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Websocket read error", "error", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			s.enqueue(errorEnvelope(fmt.Errorf("decoding envelope: %w", err)))
			continue
		}
		s.enqueue(s.handle(env))
	}
}

func (s *viewportSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) upgrader() websocket.Upgrader {
	origins := s.cfg.Server.CORSOrigins
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(origins, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// handleWS opens a viewport session on ?city= and ?seed=. The first message
// sent is the current viewport.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	l, err := s.layoutFor(r)
	if err != nil {
		s.writeLayoutError(w, err)
		return
	}
	ww, wh, _, err := windowSize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	cfg := l.Config()
	session := newViewportSession(l, s.logger.With("city", cfg.Name, "seed", cfg.Seed))
	session.conn = conn
	session.windowW, session.windowH = ww, wh
	session.logger.Debug("Viewport session opened")

	session.enqueue(session.current())
	go session.writePump()
	session.readPump()
	session.logger.Debug("Viewport session closed")
}
