// Package server provides the HTTP server for the air drawing service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/edulabs/airsketch/internal/analysis"
	"github.com/edulabs/airsketch/internal/server/api"
	"github.com/edulabs/airsketch/internal/session"
	"github.com/edulabs/airsketch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Manager   *session.Manager
	Store     *store.Store
	Analyzer  analysis.Analyzer
}

// Server represents the HTTP server for the air drawing service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Manager != nil {
		sessionHandler := api.NewSessionHandler(s.config.Manager, s.config.Store, s.config.Analyzer)
		streamHandler := NewStreamHandler(s.config.Manager)

		// Route /api/draw/sessions/{id}/stream to the WebSocket handler,
		// everything else under /api/draw/sessions to the REST handler.
		sessionRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/stream") {
				streamHandler.ServeHTTP(w, r)
				return
			}
			sessionHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/draw/sessions", sessionRouter)
		s.mux.Handle("/api/draw/sessions/", sessionRouter)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.Manager != nil {
		response["sessions"] = s.config.Manager.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
