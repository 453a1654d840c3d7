// Package session manages per-user air drawing sessions: classifier state,
// canvas and stroke tracking. Each session is owned by exactly one client
// stream; independent sessions share nothing and run fully in parallel.
package session

import (
	"sync"
	"time"

	"github.com/edulabs/airsketch/internal/canvas"
	"github.com/edulabs/airsketch/internal/detector"
	"github.com/edulabs/airsketch/internal/gesture"
	"github.com/edulabs/airsketch/internal/shape"
	"github.com/edulabs/airsketch/internal/vision"
)

// Session holds all mutable state of one air drawing session. Frames for a
// session arrive in order from one video stream; the session mutex
// serializes them.
type Session struct {
	ID string

	mu         sync.Mutex
	state      gesture.State
	current    gesture.Label
	canvas     *canvas.Canvas
	motion     *vision.MotionDetector
	stroke     []shape.Point
	lastStroke []shape.Point

	frames     int
	strokes    int
	clears     int
	createdAt  time.Time
	lastActive time.Time
}

// Status is a point-in-time snapshot of a session for API consumers.
type Status struct {
	ID         string        `json:"id"`
	Gesture    gesture.Label `json:"gesture"`
	Frames     int           `json:"frames"`
	Strokes    int           `json:"strokes"`
	Clears     int           `json:"clears"`
	CreatedAt  time.Time     `json:"created_at"`
	LastActive time.Time     `json:"last_active"`
}

func newSession(id string, width, height int, motionThreshold float64) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		state:      gesture.NewState(),
		current:    gesture.LabelNone,
		canvas:     canvas.New(width, height),
		motion:     vision.NewMotionDetector(motionThreshold),
		createdAt:  now,
		lastActive: now,
	}
}

// Advance classifies one frame's hand (nil when no hand was detected) and
// applies the resulting gesture to the canvas. It returns the label acted
// on this frame.
func (s *Session) Advance(hand *detector.Hand) gesture.Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	s.frames++

	var landmarks []detector.Landmark
	var handedness string
	if hand != nil {
		landmarks = hand.Landmarks
		handedness = hand.Handedness
	}

	label, state := gesture.Classify(landmarks, handedness, s.state)
	s.state = state
	s.current = label

	s.apply(label, hand)

	return label
}

// apply executes the canvas action for the frame's label. Must be called
// with the session mutex held.
func (s *Session) apply(label gesture.Label, hand *detector.Hand) {
	switch label {
	case gesture.LabelDrawing:
		if !hand.Complete() {
			return
		}
		x, y := hand.Point(detector.IndexTip)
		if len(s.stroke) == 0 {
			s.strokes++
		}
		s.canvas.StrokeTo(x, y)
		s.stroke = append(s.stroke, shape.Point{X: float64(x), Y: float64(y)})

	case gesture.LabelErasing:
		if !hand.Complete() {
			return
		}
		x, y := hand.Point(detector.MiddleTip)
		s.endStroke()
		s.canvas.EraseTo(x, y)

	case gesture.LabelClearing:
		s.canvas.Clear()
		s.stroke = nil
		s.lastStroke = nil
		s.clears++

	case gesture.LabelAnalyzing:
		s.canvas.LiftPen()
		s.endStroke()

	default: // Moving, None
		s.canvas.LiftPen()
		s.endStroke()
	}
}

// endStroke archives the in-progress stroke so shape recognition can still
// see it after the pen lifts. Must be called with the session mutex held.
func (s *Session) endStroke() {
	if len(s.stroke) > 0 {
		s.lastStroke = s.stroke
		s.stroke = nil
	}
}

// Gesture returns the label acted on for the most recent frame.
func (s *Session) Gesture() gesture.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Locked reports whether the classifier currently holds a gesture lock.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Locked != gesture.LabelNone && s.state.Locked != ""
}

// StrokePath returns a copy of the stroke shape recognition should look at:
// the stroke in progress, or the last finished one.
func (s *Session) StrokePath() []shape.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.stroke
	if len(src) == 0 {
		src = s.lastStroke
	}
	out := make([]shape.Point, len(src))
	copy(out, src)
	return out
}

// Clear wipes the canvas and resets the classifier, as if the session had
// just started. The session id and counters survive.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canvas.Clear()
	s.state = gesture.NewState()
	s.current = gesture.LabelNone
	s.stroke = nil
	s.lastStroke = nil
	s.clears++
	s.lastActive = time.Now()
}

// Canvas returns the session's drawing surface.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		ID:         s.ID,
		Gesture:    s.current,
		Frames:     s.frames,
		Strokes:    s.strokes,
		Clears:     s.clears,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
}

// idleSince reports how long ago the session last processed anything.
func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

// close releases the session's canvas and motion detector buffers.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canvas.Close()
	s.motion.Close()
}
