package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset hands below model a user's right hand in a mirrored frame, so the
// tracker reports "Left". The wrist sits at (300, 400) and the middle-finger
// MCP at (300, 200), giving a hand-size proxy of 200 pixels: an extended
// fingertip clears its PIP joint by 80 pixels, well past the 15% (30 pixel)
// threshold, while folded tips sit at or below their PIP joints.

// foldedHand returns a fist: all five fingers folded.
func foldedHand() Hand {
	return Hand{
		Handedness: "Left",
		Score:      0.95,
		Landmarks: []Landmark{
			{ID: Wrist, X: 300, Y: 400},
			{ID: ThumbCMC, X: 320, Y: 380},
			{ID: ThumbMCP, X: 340, Y: 360},
			{ID: ThumbIP, X: 350, Y: 350},
			{ID: ThumbTip, X: 330, Y: 340},
			{ID: IndexMCP, X: 280, Y: 240},
			{ID: IndexPIP, X: 280, Y: 200},
			{ID: IndexDIP, X: 280, Y: 180},
			{ID: IndexTip, X: 280, Y: 230},
			{ID: MiddleMCP, X: 300, Y: 200},
			{ID: MiddlePIP, X: 300, Y: 160},
			{ID: MiddleDIP, X: 300, Y: 140},
			{ID: MiddleTip, X: 300, Y: 190},
			{ID: RingMCP, X: 320, Y: 210},
			{ID: RingPIP, X: 320, Y: 170},
			{ID: RingDIP, X: 320, Y: 150},
			{ID: RingTip, X: 320, Y: 200},
			{ID: PinkyMCP, X: 340, Y: 220},
			{ID: PinkyPIP, X: 340, Y: 190},
			{ID: PinkyDIP, X: 340, Y: 175},
			{ID: PinkyTip, X: 340, Y: 220},
		},
	}
}

func extendThumb(h Hand) Hand {
	h.Landmarks[ThumbTip].X = 420
	return h
}

func extendIndex(h Hand) Hand {
	h.Landmarks[IndexTip].Y = 120
	return h
}

func extendMiddle(h Hand) Hand {
	h.Landmarks[MiddleTip].Y = 80
	return h
}

func extendRing(h Hand) Hand {
	h.Landmarks[RingTip].Y = 90
	return h
}

func extendPinky(h Hand) Hand {
	h.Landmarks[PinkyTip].Y = 110
	return h
}

// FistHand returns a hand with all fingers folded (no recognized gesture).
func FistHand() Hand {
	return foldedHand()
}

// DrawingHand returns a hand with thumb and index extended.
func DrawingHand() Hand {
	return extendIndex(extendThumb(foldedHand()))
}

// MovingHand returns a hand with thumb, index and middle extended.
func MovingHand() Hand {
	return extendMiddle(extendIndex(extendThumb(foldedHand())))
}

// ErasingHand returns a hand with thumb and middle extended.
func ErasingHand() Hand {
	return extendMiddle(extendThumb(foldedHand()))
}

// ClearingHand returns a hand with thumb and pinky extended.
func ClearingHand() Hand {
	return extendPinky(extendThumb(foldedHand()))
}

// AnalyzingHand returns a hand with index and middle extended, thumb folded.
func AnalyzingHand() Hand {
	return extendMiddle(extendIndex(foldedHand()))
}

// OpenPalmHand returns a hand with all five fingers extended.
func OpenPalmHand() Hand {
	return extendPinky(extendRing(extendMiddle(extendIndex(extendThumb(foldedHand())))))
}
