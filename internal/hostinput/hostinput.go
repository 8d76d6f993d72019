// Package hostinput holds host-side touch classifiers that sit in front of
// the gesture engine. They are deliberately kept out of the gesture package:
// the engine models a single contact and a fixed action vocabulary (move,
// click, drag, scroll); these classifiers handle panel-specific policy —
// pressure-based physical clicks, multi-finger chord buttons, and palm
// rejection — that the reference touchpad driver implements ahead of its
// gesture logic, not inside it.
package hostinput

// PalmFilter rejects a contact that looks like an accidental palm touch:
// large contact area (approximated here by pressure) near the top of the
// panel. The decision is made once, at press time, and holds for the whole
// contact lifetime — a palm-rejected contact never reaches the gesture
// engine at all.
type PalmFilter struct {
	// TopY is the upper boundary (in panel pixels) of the palm-rejection
	// band; only contacts starting above this Y are eligible for
	// rejection.
	TopY float64
	// PressureThreshold is the minimum reported pressure that, combined
	// with TopY, marks a contact as a palm.
	PressureThreshold float64

	rejected bool
}

// Begin evaluates a new contact and records whether it should be rejected.
func (p *PalmFilter) Begin(y, pressure float64) {
	p.rejected = y < p.TopY && pressure > p.PressureThreshold
}

// Rejected reports whether the current contact is a rejected palm.
func (p *PalmFilter) Rejected() bool { return p.rejected }

// End clears the filter's per-contact state.
func (p *PalmFilter) End() { p.rejected = false }

// PressureClassifier turns raw contact pressure into an edge-triggered
// physical button press/release, independent of the gesture engine's own
// tap/drag classification. It exists for panels that expose true analog
// pressure and want a hard, immediate click at a fixed threshold rather
// than waiting on tap timing.
type PressureClassifier struct {
	PressThreshold   float64
	ReleaseThreshold float64

	down bool
}

// Update reports the physical button's edge transitions for the latest
// pressure sample: pressed is the new state, changed reports whether this
// call crossed a threshold.
func (p *PressureClassifier) Update(pressure float64) (pressed, changed bool) {
	if !p.down && pressure > p.PressThreshold {
		p.down = true
		return true, true
	}
	if p.down && pressure < p.ReleaseThreshold {
		p.down = false
		return false, true
	}
	return p.down, false
}

// Button names a mouse button for the multi-finger chord mapping below.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// FingerCountButton maps the number of fingers present during a tap to a
// mouse button, the way a two-finger tap means right-click and a
// three-finger tap means middle-click on most trackpad drivers.
type FingerCountButton struct{}

// ButtonFor returns the button a tap with the given peak finger count
// should emit. One finger defers to the gesture engine's own tap/chain
// classification (ButtonNone, ok=false); two or three fingers map directly
// to right/middle click.
func (FingerCountButton) ButtonFor(fingerCount int) (btn Button, ok bool) {
	switch fingerCount {
	case 2:
		return ButtonRight, true
	case 3:
		return ButtonMiddle, true
	default:
		return ButtonNone, false
	}
}
