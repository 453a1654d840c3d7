// Package api provides HTTP API handlers for the air drawing service.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edulabs/airsketch/internal/analysis"
	"github.com/edulabs/airsketch/internal/session"
	"github.com/edulabs/airsketch/internal/shape"
	"github.com/edulabs/airsketch/internal/store"
)

var validate = validator.New()

// SessionHandler handles HTTP requests for drawing session resources.
type SessionHandler struct {
	manager  *session.Manager
	store    *store.Store
	analyzer analysis.Analyzer
}

// NewSessionHandler creates a new SessionHandler. The store and analyzer
// may be nil, which disables persistence and AI analysis respectively.
func NewSessionHandler(m *session.Manager, s *store.Store, a analysis.Analyzer) *SessionHandler {
	return &SessionHandler{
		manager:  m,
		store:    s,
		analyzer: a,
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/draw/sessions, /api/draw/sessions/{id} and
	// /api/draw/sessions/{id}/{action}
	path := strings.TrimPrefix(r.URL.Path, "/api/draw/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	id, action, _ := strings.Cut(path, "/")

	if action == "" {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	switch action {
	case "frames":
		h.requirePost(w, r, id, h.frames)
	case "clear":
		h.requirePost(w, r, id, h.clear)
	case "analyze":
		h.requirePost(w, r, id, h.analyze)
	case "shapes":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.shapes(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *SessionHandler) requirePost(w http.ResponseWriter, r *http.Request, id string, fn func(http.ResponseWriter, *http.Request, string)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	fn(w, r, id)
}

// Request and response types

type createSessionRequest struct {
	Width  int `json:"width" validate:"omitempty,min=16,max=4096"`
	Height int `json:"height" validate:"omitempty,min=16,max=4096"`
}

type frameRequest struct {
	Frame string `json:"frame" validate:"required"`
}

type frameResponse struct {
	Frame        string `json:"frame"`
	Gesture      string `json:"gesture"`
	HandDetected bool   `json:"hand_detected"`
	Fingers      []bool `json:"fingers,omitempty"`
}

type analyzeResponse struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

type shapeResponse struct {
	Type       string             `json:"type"`
	Confidence float64            `json:"confidence"`
	Properties map[string]float64 `json:"properties,omitempty"`
}

type listShapesResponse struct {
	Shapes []shapeResponse `json:"shapes"`
}

type listSessionsResponse struct {
	Sessions []session.Status `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// create handles POST /api/draw/sessions.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.manager.Create(req.Width, req.Height)

	if h.store != nil {
		status := s.Status()
		if err := h.store.Sessions().Create(&store.SessionRecord{ID: status.ID}); err != nil {
			logrus.WithError(err).Warn("failed to persist session")
		}
	}

	writeJSON(w, http.StatusCreated, s.Status())
}

// list handles GET /api/draw/sessions and returns all active sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: h.manager.Statuses()})
}

// get handles GET /api/draw/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

// delete handles DELETE /api/draw/sessions/{id}. The final counters are
// persisted before the session is removed.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if h.store != nil {
		status := s.Status()
		repo := h.store.Sessions()
		if err := repo.UpdateCounters(id, status.Frames, status.Strokes, status.Clears); err != nil && !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).Warn("failed to persist session counters")
		}
		if err := repo.Stop(id, time.Now()); err != nil && !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).Warn("failed to mark session stopped")
		}
	}

	if err := h.manager.Remove(id); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// frames handles POST /api/draw/sessions/{id}/frames. The frame runs
// through the full pipeline and the composited canvas comes back.
func (h *SessionHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "frame is required")
		return
	}

	result, err := h.manager.ProcessFrame(id, req.Frame)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, frameResponse{
		Frame:        result.Frame,
		Gesture:      string(result.Gesture),
		HandDetected: result.HandDetected,
		Fingers:      result.Fingers,
	})
}

// clear handles POST /api/draw/sessions/{id}/clear.
func (h *SessionHandler) clear(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.Clear()
	writeJSON(w, http.StatusOK, s.Status())
}

// analyze handles POST /api/draw/sessions/{id}/analyze. The current
// canvas is rendered to PNG and sent to the AI tutor.
func (h *SessionHandler) analyze(w http.ResponseWriter, r *http.Request, id string) {
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}

	s, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	image, err := s.Canvas().EncodePNG()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode canvas")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := h.analyzer.AnalyzeImage(ctx, image)
	if err != nil {
		logrus.WithError(err).Error("analysis failed")
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}

	rec := &store.AnalysisRecord{
		ID:        uuid.NewString(),
		SessionID: id,
		ImageSHA:  imageSHA(image),
		Result:    result,
	}
	if h.store != nil {
		if err := h.store.Analyses().Create(rec); err != nil {
			logrus.WithError(err).Warn("failed to persist analysis")
		}
	}

	writeJSON(w, http.StatusOK, analyzeResponse{ID: rec.ID, Result: result})
}

// shapes handles GET /api/draw/sessions/{id}/shapes and recognizes the
// most recent stroke.
func (h *SessionHandler) shapes(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	recognized := shape.Recognize(s.StrokePath())

	resp := listShapesResponse{Shapes: []shapeResponse{}}
	for _, rec := range recognized {
		resp.Shapes = append(resp.Shapes, shapeResponse{
			Type:       rec.Type,
			Confidence: rec.Confidence,
			Properties: rec.Properties,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func imageSHA(image string) string {
	sum := sha256.Sum256([]byte(image))
	return hex.EncodeToString(sum[:])
}
