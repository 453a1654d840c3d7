// Package detector provides hand detection interfaces and types for air drawing.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Landmark is one tracked hand keypoint in frame pixel coordinates.
type Landmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Hand represents one detected hand: up to 21 pixel landmarks plus the
// tracker-reported handedness label. The label refers to the hand as it
// appears in the mirrored frame, not the user's actual hand.
type Hand struct {
	Landmarks  []Landmark `json:"landmarks"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// Complete reports whether all 21 landmarks are present.
func (h *Hand) Complete() bool {
	return h != nil && len(h.Landmarks) >= NumLandmarks
}

// Point returns the (x, y) pixel position of the landmark with the given index.
// The caller must ensure the hand is Complete.
func (h *Hand) Point(index int) (int, int) {
	lm := h.Landmarks[index]
	return lm.X, lm.Y
}
