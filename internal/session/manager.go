package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edulabs/airsketch/internal/canvas"
	"github.com/edulabs/airsketch/internal/detector"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// DefaultSessionTTL is how long an idle session survives before the
// janitor reclaims it.
const DefaultSessionTTL = 10 * time.Minute

// sweepInterval is how often the janitor looks for idle sessions.
const sweepInterval = time.Minute

// Config holds configuration options for the session manager.
type Config struct {
	Detector        detector.Detector
	CanvasWidth     int
	CanvasHeight    int
	MotionThreshold float64
	SessionTTL      time.Duration
}

// Manager owns all live sessions. The hand detector is shared across
// sessions; each session's own state stays private to it.
type Manager struct {
	config   Config
	mu       sync.RWMutex
	sessions map[string]*Session
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts its idle-session janitor.
func NewManager(config Config) *Manager {
	if config.CanvasWidth <= 0 {
		config.CanvasWidth = canvas.DefaultWidth
	}
	if config.CanvasHeight <= 0 {
		config.CanvasHeight = canvas.DefaultHeight
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}

	m := &Manager{
		config:   config,
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create starts a new session and returns it. Non-positive dimensions
// fall back to the manager's configured canvas size.
func (m *Manager) Create(width, height int) *Session {
	if width <= 0 {
		width = m.config.CanvasWidth
	}
	if height <= 0 {
		height = m.config.CanvasHeight
	}
	s := newSession(uuid.NewString(), width, height, m.config.MotionThreshold)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logrus.WithField("session_id", s.ID).Info("session started")
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove stops a session and releases its resources.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	s.close()
	logrus.WithField("session_id", id).Info("session stopped")
	return nil
}

// Statuses returns a snapshot of every live session.
func (m *Manager) Statuses() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]Status, 0, len(m.sessions))
	for _, s := range m.sessions {
		statuses = append(statuses, s.Status())
	}
	return statuses
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the janitor and releases every live session.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.close()
		delete(m.sessions, id)
	}
}

// sweep reclaims sessions whose owner stopped submitting frames.
func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			now := time.Now()

			m.mu.Lock()
			for id, s := range m.sessions {
				if s.idleSince(now) > m.config.SessionTTL {
					s.close()
					delete(m.sessions, id)
					logrus.WithField("session_id", id).Info("idle session reclaimed")
				}
			}
			m.mu.Unlock()
		}
	}
}

// Detector returns the shared hand detector, which may be nil when the
// manager runs without one (tests, shape-only deployments).
func (m *Manager) Detector() detector.Detector {
	return m.config.Detector
}
