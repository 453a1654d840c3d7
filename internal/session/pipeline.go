package session

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edulabs/airsketch/internal/detector"
	"github.com/edulabs/airsketch/internal/gesture"
	"github.com/edulabs/airsketch/internal/vision"
)

// ErrNoDetector is returned when frame processing is requested but no hand
// detector is configured.
var ErrNoDetector = errors.New("no hand detector configured")

// FrameResult is what one processed frame hands back to the client: the
// mirrored frame with the canvas overlaid, and the gesture acted on.
type FrameResult struct {
	Frame        string        `json:"frame"`
	Gesture      gesture.Label `json:"gesture"`
	HandDetected bool          `json:"hand_detected"`
	Fingers      []bool        `json:"fingers,omitempty"`
}

// ProcessFrame runs one base64-encoded camera frame through the full
// pipeline: decode, mirror, motion gate, hand detection, gesture
// classification, canvas action, overlay, encode.
//
// Hand detection is skipped when nothing moved and the classifier holds no
// lock; a static scene with no gesture in flight cannot produce one.
func (m *Manager) ProcessFrame(sessionID, frameData string) (*FrameResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if m.config.Detector == nil {
		return nil, ErrNoDetector
	}

	frame, err := vision.DecodeFrame(frameData)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	vision.Prepare(&frame, s.canvas.Width(), s.canvas.Height())

	var hands []detector.Hand
	moving, _ := s.motion.Detect(&frame)
	if moving || s.Locked() || s.Gesture() != gesture.LabelNone {
		hands, err = m.config.Detector.Detect(&frame)
		if err != nil {
			return nil, fmt.Errorf("detect hands: %w", err)
		}
	}

	var hand *detector.Hand
	if len(hands) > 0 {
		hand = &hands[0]
	}

	label := s.Advance(hand)

	if err := s.canvas.Overlay(&frame); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("canvas overlay failed")
	}

	out, err := vision.EncodePNG(&frame)
	if err != nil {
		return nil, err
	}

	result := &FrameResult{
		Frame:        out,
		Gesture:      label,
		HandDetected: hand != nil,
	}
	if hand.Complete() {
		fingers := gesture.DetectFingers(hand.Landmarks, hand.Handedness)
		result.Fingers = fingers[:]
	}

	return result, nil
}
