package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/edulabs/airsketch/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from arbitrary origins
	},
}

// streamRequest is one frame sent by the client over the stream.
type streamRequest struct {
	Frame string `json:"frame"`
}

// streamResponse is the pipeline result for one frame.
type streamResponse struct {
	Frame        string `json:"frame,omitempty"`
	Gesture      string `json:"gesture"`
	HandDetected bool   `json:"hand_detected"`
	Fingers      []bool `json:"fingers,omitempty"`
	Error        string `json:"error,omitempty"`
}

// StreamHandler processes camera frames over a WebSocket connection.
// Each text message carries one base64-encoded frame and each reply
// carries the composited canvas and gesture state.
type StreamHandler struct {
	manager *session.Manager
}

// NewStreamHandler creates a new StreamHandler backed by the given
// session manager.
func NewStreamHandler(m *session.Manager) *StreamHandler {
	return &StreamHandler{manager: m}
}

// ServeHTTP handles WebSocket upgrade requests for
// /api/draw/sessions/{id}/stream.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := sessionIDFromStreamPath(r.URL.Path)
	if _, err := h.manager.Get(id); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logrus.WithField("session_id", id).Debug("stream connected")

	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("stream read failed")
			}
			return
		}

		resp := h.process(id, req.Frame)
		if err := conn.WriteJSON(resp); err != nil {
			logrus.WithError(err).Debug("stream write failed")
			return
		}
	}
}

func (h *StreamHandler) process(id, frame string) streamResponse {
	result, err := h.manager.ProcessFrame(id, frame)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return streamResponse{Error: "session not found"}
		}
		return streamResponse{Error: err.Error()}
	}

	return streamResponse{
		Frame:        result.Frame,
		Gesture:      string(result.Gesture),
		HandDetected: result.HandDetected,
		Fingers:      result.Fingers,
	}
}

// sessionIDFromStreamPath extracts {id} from
// /api/draw/sessions/{id}/stream.
func sessionIDFromStreamPath(path string) string {
	path = strings.TrimPrefix(path, "/api/draw/sessions/")
	id, _, _ := strings.Cut(path, "/")
	return id
}
