package gesture

import (
	"github.com/edulabs/airsketch/internal/detector"
)

// Label identifies the gesture acted on for one frame.
// Exactly one label is active at any time.
type Label string

const (
	LabelNone      Label = "None"
	LabelDrawing   Label = "Drawing"
	LabelMoving    Label = "Moving"
	LabelErasing   Label = "Erasing"
	LabelClearing  Label = "Clearing"
	LabelAnalyzing Label = "Analyzing"
)

// Hysteresis thresholds, in consecutive frames.
const (
	// LockThreshold frames of the same drawing gesture acquire a lock.
	LockThreshold = 3
	// UnlockThreshold frames of no (or a non-allowed) gesture release a lock.
	UnlockThreshold = 3
	// IntentionalSwitchThreshold frames switch between allow-listed gesture
	// pairs while locked.
	IntentionalSwitchThreshold = 2
)

// State carries the classifier's memory between frames. One State instance
// belongs to exactly one session; independent sessions never share state.
type State struct {
	// Locked is the gesture currently held despite momentary noise, or
	// LabelNone when unlocked.
	Locked Label
	// Counter counts consecutive frames toward a lock, unlock or switch
	// decision.
	Counter int
}

// NewState returns the initial classifier state: unlocked, counter zero.
func NewState() State {
	return State{Locked: LabelNone}
}

// Classify converts one frame's landmarks into the gesture label to act on,
// applying the locking hysteresis to the raw per-frame classification.
//
// It is a pure function of the frame and the carried state: fewer than 21
// landmarks (including no hand at all) yields LabelNone with the state
// unchanged. Absence of a hand is a normal per-frame condition, never an
// error.
func Classify(landmarks []detector.Landmark, handedness string, st State) (Label, State) {
	if len(landmarks) < detector.NumLandmarks {
		return LabelNone, st
	}

	raw := classifyRaw(DetectFingers(landmarks, handedness))
	return applyLock(raw, st)
}

// classifyRaw maps a finger state to a gesture by exact pattern match.
// Specific finger identities matter, not just the count.
func classifyRaw(f Fingers) Label {
	switch {
	case f == Fingers{true, true, false, false, false}:
		return LabelDrawing
	case f == Fingers{true, true, true, false, false}:
		return LabelMoving
	case f == Fingers{true, false, true, false, false}:
		return LabelErasing
	case f == Fingers{true, false, false, false, true}:
		return LabelClearing
	case f == Fingers{false, true, true, false, false}:
		return LabelAnalyzing
	default:
		return LabelNone
	}
}

// lockable reports whether a gesture participates in locking. Clearing and
// Analyzing are escape gestures and are never locked.
func lockable(l Label) bool {
	return l == LabelDrawing || l == LabelMoving || l == LabelErasing
}

// intentionalSwitch reports whether moving from one locked gesture straight
// to another is on the allow-list of deliberate transitions, which commit
// after the shorter IntentionalSwitchThreshold.
func intentionalSwitch(from, to Label) bool {
	switch [2]Label{from, to} {
	case [2]Label{LabelDrawing, LabelMoving},
		[2]Label{LabelMoving, LabelDrawing},
		[2]Label{LabelDrawing, LabelErasing},
		[2]Label{LabelErasing, LabelDrawing},
		[2]Label{LabelMoving, LabelErasing},
		[2]Label{LabelErasing, LabelMoving}:
		return true
	}
	return false
}

// applyLock runs one step of the hysteresis state machine. Without it,
// natural hand tremor flips the raw classification between adjacent patterns
// many times per second; the lock trades a few frames of latency on
// deliberate switches for stability during sustained gestures.
func applyLock(raw Label, st State) (Label, State) {
	if st.Locked == LabelNone || st.Locked == "" {
		if lockable(raw) {
			st.Counter++
			if st.Counter >= LockThreshold {
				st.Locked = raw
				st.Counter = 0
			}
			return raw, st
		}
		st.Counter = 0
		return raw, st
	}

	switch {
	case raw == st.Locked:
		st.Counter = 0
		return st.Locked, st

	case lockable(raw):
		threshold := UnlockThreshold
		if intentionalSwitch(st.Locked, raw) {
			threshold = IntentionalSwitchThreshold
		}
		st.Counter++
		if st.Counter >= threshold {
			st.Locked = raw
			st.Counter = 0
		}
		// The raw label is emitted even while the switch is still pending so
		// the user sees live feedback before the lock commits.
		return raw, st

	case raw == LabelClearing || raw == LabelAnalyzing:
		// Escape gestures take effect the frame they appear, bypassing the
		// hysteresis entirely.
		st.Locked = LabelNone
		st.Counter = 0
		return raw, st

	default:
		// No recognizable gesture: hold the locked one until the run of
		// blank frames is long enough to release it.
		st.Counter++
		if st.Counter >= UnlockThreshold {
			st.Locked = LabelNone
			st.Counter = 0
			return LabelNone, st
		}
		return st.Locked, st
	}
}
