// Package gesture classifies per-frame hand landmarks into drawing gestures,
// stabilized against frame-to-frame jitter by a locking state machine.
package gesture

import (
	"github.com/edulabs/airsketch/internal/detector"
)

// Finger indices into a Fingers vector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Fingers is the per-frame extended/folded state of the five fingers,
// ordered thumb, index, middle, ring, pinky.
type Fingers [NumFingers]bool

// Extension test constants. Both margins are proportional to a per-hand
// distance so detection is independent of hand size and camera distance.
const (
	// thumbMarginRatio scales the horizontal wrist-to-MCP distance into the
	// margin the thumb tip must clear sideways past the MCP joint.
	thumbMarginRatio = 0.15

	// fingerClearanceRatio scales the hand-size proxy into the vertical
	// clearance a fingertip must have above its PIP joint.
	fingerClearanceRatio = 0.15

	// minHandSize is the floor for the hand-size proxy, guarding against
	// near-zero values on small or partially occluded hands.
	minHandSize = 100
)

// DetectFingers derives the finger state from a full set of 21 pixel
// landmarks. The handedness is the label as reported by the tracker for the
// mirrored frame; the user's actual hand is the opposite.
//
// The thumb is compared horizontally against its MCP joint, in the direction
// the thumb of the actual hand extends. The other four fingers are extended
// when their tip clears the PIP joint vertically (pixel Y grows downward, so
// extended means smaller Y).
func DetectFingers(landmarks []detector.Landmark, handedness string) Fingers {
	var fingers Fingers
	if len(landmarks) < detector.NumLandmarks {
		return fingers
	}

	thumbTipX := landmarks[detector.ThumbTip].X
	thumbMCPX := landmarks[detector.ThumbMCP].X
	wristX := landmarks[detector.Wrist].X

	// The camera mirrors the frame, so a tracker-reported "Left" hand is the
	// user's right hand and vice versa.
	margin := float64(abs(thumbMCPX-wristX)) * thumbMarginRatio
	if handedness == "Left" {
		// User's right hand: thumb extends toward positive X.
		fingers[Thumb] = float64(thumbTipX) > float64(thumbMCPX)+margin
	} else {
		// User's left hand: thumb extends toward negative X.
		fingers[Thumb] = float64(thumbTipX) < float64(thumbMCPX)-margin
	}

	// Hand-size proxy: vertical wrist-to-middle-MCP distance.
	handSize := abs(landmarks[detector.Wrist].Y - landmarks[detector.MiddleMCP].Y)
	if handSize < minHandSize {
		handSize = minHandSize
	}
	clearance := float64(handSize) * fingerClearanceRatio

	joints := [...]struct {
		finger, tip, pip int
	}{
		{Index, detector.IndexTip, detector.IndexPIP},
		{Middle, detector.MiddleTip, detector.MiddlePIP},
		{Ring, detector.RingTip, detector.RingPIP},
		{Pinky, detector.PinkyTip, detector.PinkyPIP},
	}

	for _, j := range joints {
		tipY := landmarks[j.tip].Y
		pipY := landmarks[j.pip].Y
		fingers[j.finger] = float64(pipY-tipY) > clearance
	}

	return fingers
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
