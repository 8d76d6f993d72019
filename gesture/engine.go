package gesture

// Phase enumerates the gesture state machine's states.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDown
	PhaseMoving
	PhaseScrolling
	PhaseWaitingForChain
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseDown:
		return "Down"
	case PhaseMoving:
		return "Moving"
	case PhaseScrolling:
		return "Scrolling"
	case PhaseWaitingForChain:
		return "WaitingForChain"
	case PhaseDragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

// EventKind tags an input sample passed to ProcessInput.
type EventKind uint8

const (
	// Pressed is the first sample of a new contact.
	Pressed EventKind = iota
	// Pressing is a move sample of an ongoing contact.
	Pressing
	// Released is the last sample of a contact.
	Released
)

// Event is one raw touch sample.
type Event struct {
	Kind EventKind
	X, Y float64
}

// Engine is the gesture state machine. It owns no resources beyond its own
// fields; construct with New and drive with ProcessInput/Tick/Reset.
type Engine struct {
	cfg Config

	phase Phase

	touchStartX, touchStartY float64
	lastX, lastY             float64
	touchDownTime            int64
	lastSampleTime           int64
	lastReleaseTime          int64

	tapCount      int
	totalMovement float64
	buttonHeld    bool

	cond conditioner
	scr  scrollAccumulator

	chainStartZone Zone

	// contactDown is only meaningful while phase == PhaseWaitingForChain: it
	// tracks whether a candidate second contact is currently held.
	contactDown bool
}

// New constructs an Engine from cfg. It validates cfg and returns a
// *ConfigError if it is malformed; validation never happens on the hot
// path (ProcessInput/Tick never return an error).
func New(cfg Config) (*Engine, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	e.Reset()
	return e, nil
}

// Reset returns the engine to a clean Idle state, preserving configuration.
// It is idempotent and never emits an action; use it to implement
// cancellation.
func (e *Engine) Reset() {
	cfg := e.cfg
	*e = Engine{cfg: cfg}
}

// Phase reports the engine's current state, for host-side status display.
func (e *Engine) Phase() Phase { return e.phase }

// ButtonHeld reports whether the engine currently considers the virtual
// left button held (i.e. a drag is in progress).
func (e *Engine) ButtonHeld() bool { return e.buttonHeld }

func (e *Engine) deltaMs(now int64) int64 {
	dt := now - e.lastSampleTime
	if dt < 0 {
		// Non-monotonic time glitch: clamp, don't reset state (design §7).
		return 0
	}
	return dt
}

// ProcessInput feeds one raw touch sample into the engine and returns the
// resulting action (ActionNone if there is nothing to emit this call).
func (e *Engine) ProcessInput(ev Event, now int64) Action {
	switch ev.Kind {
	case Pressed:
		return e.onPress(ev.X, ev.Y, now)
	case Pressing:
		return e.onMove(ev.X, ev.Y, now)
	case Released:
		return e.onRelease(ev.X, ev.Y, now)
	default:
		return None
	}
}

func (e *Engine) onPress(x, y float64, now int64) Action {
	switch e.phase {
	case PhaseIdle:
		e.beginContact(x, y, now)
		e.phase = PhaseDown
		return None
	case PhaseWaitingForChain:
		if e.contactDown {
			// A press while a contact is already recorded is a malformed
			// event sequence; ignore it rather than corrupt state.
			return None
		}
		e.beginContact(x, y, now)
		e.contactDown = true
		return None
	default:
		// Press while already in contact: ignore (malformed sequence).
		return None
	}
}

func (e *Engine) beginContact(x, y float64, now int64) {
	e.touchStartX, e.touchStartY = x, y
	e.lastX, e.lastY = x, y
	e.touchDownTime = now
	e.lastSampleTime = now
	e.totalMovement = 0
	e.cond.reset()
	e.chainStartZone = Classify(x, y, e.cfg.HRes, e.cfg.VRes, e.cfg.ScrollZoneW, e.cfg.ScrollZoneH)
}

func (e *Engine) onMove(x, y float64, now int64) Action {
	dx := x - e.lastX
	dy := y - e.lastY
	dtMs := e.deltaMs(now)

	switch e.phase {
	case PhaseDown:
		e.totalMovement += abs(dx) + abs(dy)
		e.lastX, e.lastY = x, y
		e.lastSampleTime = now
		if e.totalMovement > e.cfg.Tuning.TapMovePx {
			e.phase = PhaseMoving
			if e.chainStartZone != ZoneMain {
				e.phase = PhaseScrolling
				return e.emitScroll(dx, dy)
			}
			return e.emitMove(dx, dy, dtMs)
		}
		return None

	case PhaseMoving:
		e.totalMovement += abs(dx) + abs(dy)
		e.lastX, e.lastY = x, y
		e.lastSampleTime = now
		return e.emitMove(dx, dy, dtMs)

	case PhaseScrolling:
		e.totalMovement += abs(dx) + abs(dy)
		e.lastX, e.lastY = x, y
		e.lastSampleTime = now
		return e.emitScroll(dx, dy)

	case PhaseDragging:
		e.totalMovement += abs(dx) + abs(dy)
		e.lastX, e.lastY = x, y
		e.lastSampleTime = now
		ddx, ddy, jitter := e.cond.step(e.cfg.Tuning, dx, dy, dtMs)
		if jitter || (ddx == 0 && ddy == 0) {
			return None
		}
		return dragMoveAction(ddx, ddy)

	case PhaseWaitingForChain:
		if !e.contactDown {
			return None
		}
		e.totalMovement += abs(dx) + abs(dy)
		e.lastX, e.lastY = x, y
		e.lastSampleTime = now

		if e.totalMovement > e.cfg.Tuning.DragMovePx {
			return e.promoteToDragging()
		}
		if e.totalMovement > e.cfg.Tuning.TapMovePx {
			return e.flushChainThenMove()
		}
		return None

	default:
		return None
	}
}

func (e *Engine) emitMove(dx, dy float64, dtMs int64) Action {
	ddx, ddy, jitter := e.cond.step(e.cfg.Tuning, dx, dy, dtMs)
	if jitter || (ddx == 0 && ddy == 0) {
		return None
	}
	return moveAction(ddx, ddy)
}

func (e *Engine) emitScroll(dx, dy float64) Action {
	// A plain strip scrolls along its own axis only. The scroll-corner zone
	// feeds both axes and, to keep to one action per call, checks vertical
	// first: a sample that yields vertical units does not also advance the
	// horizontal accumulator.
	zone := e.chainStartZone
	vUnits := 0
	if zone != ZoneScrollH {
		vUnits = e.scr.stepV(dy, e.cfg.Tuning.ScrollSensitivityPx)
	}
	if vUnits != 0 {
		return scrollVAction(-vUnits)
	}
	hUnits := 0
	if zone != ZoneScrollV {
		hUnits = e.scr.stepH(dx, e.cfg.Tuning.ScrollSensitivityPx)
	}
	if hUnits != 0 {
		return scrollHAction(hUnits)
	}
	return None
}

func (e *Engine) promoteToDragging() Action {
	e.phase = PhaseDragging
	e.buttonHeld = true
	e.tapCount = 0
	e.contactDown = false
	e.cond.reset()
	return dragStartAction
}

func (e *Engine) flushChainThenMove() Action {
	n := e.tapCount
	e.tapCount = 0
	e.phase = PhaseMoving
	e.contactDown = false
	// Begin movement afresh from the current position so the next sample
	// produces a normal conditioned delta.
	e.touchStartX, e.touchStartY = e.lastX, e.lastY
	e.totalMovement = 0
	e.cond.reset()
	return clickAction(n)
}

func classifyTap(durationMs int64, netDisp, tapMovePx float64, tapMinMs, tapMaxMs int64) bool {
	if durationMs <= tapMinMs {
		return false // bounce (boundary: exactly tap_min_ms still counts as a bounce)
	}
	if durationMs >= tapMaxMs {
		return false // hold
	}
	if netDisp >= tapMovePx {
		return false // swipe (no jitter allowance possible: that requires netDisp < tapMovePx)
	}
	return true
}

func (e *Engine) onRelease(x, y float64, now int64) Action {
	dx := x - e.lastX
	dy := y - e.lastY
	e.totalMovement += abs(dx) + abs(dy)
	e.lastX, e.lastY = x, y

	switch e.phase {
	case PhaseDown:
		duration := now - e.touchDownTime
		netDisp := abs(x-e.touchStartX) + abs(y-e.touchStartY)
		if classifyTap(duration, netDisp, e.cfg.Tuning.TapMovePx, e.cfg.Tuning.TapMinMs, e.cfg.Tuning.TapMaxMs) {
			e.tapCount++
			e.phase = PhaseWaitingForChain
			e.contactDown = false
			e.lastReleaseTime = now
			return None
		}
		e.phase = PhaseIdle
		e.tapCount = 0
		return None

	case PhaseMoving:
		e.phase = PhaseIdle
		if e.tapCount > 0 {
			n := e.tapCount
			e.tapCount = 0
			return clickAction(n)
		}
		return None

	case PhaseScrolling:
		e.phase = PhaseIdle
		e.tapCount = 0
		return None

	case PhaseWaitingForChain:
		if !e.contactDown {
			return None
		}
		duration := now - e.touchDownTime
		netDisp := abs(x-e.touchStartX) + abs(y-e.touchStartY)
		if classifyTap(duration, netDisp, e.cfg.Tuning.TapMovePx, e.cfg.Tuning.TapMinMs, e.cfg.Tuning.TapMaxMs) {
			e.tapCount++
			e.contactDown = false
			e.lastReleaseTime = now
			return None
		}
		// Bounce or hold on the chained contact: the chain is broken.
		// Flush whatever clicks had already accumulated rather than
		// silently dropping a gesture the user already completed.
		e.phase = PhaseIdle
		e.contactDown = false
		if e.tapCount > 0 {
			n := e.tapCount
			e.tapCount = 0
			return clickAction(n)
		}
		return None

	case PhaseDragging:
		e.phase = PhaseIdle
		e.buttonHeld = false
		return dragEndAction

	default:
		return None
	}
}

// Tick drives time-based transitions: multi-tap window expiry and
// hold-to-drag promotion. It never consumes a new spatial sample.
func (e *Engine) Tick(now int64) Action {
	if e.phase != PhaseWaitingForChain {
		return None
	}

	if e.contactDown {
		if now-e.touchDownTime >= e.cfg.Tuning.DragHoldMs &&
			e.totalMovement <= e.cfg.Tuning.TapMovePx {
			return e.promoteToDragging()
		}
		return None
	}

	if now-e.lastReleaseTime >= e.cfg.Tuning.MultiTapWindowMs {
		n := e.tapCount
		e.tapCount = 0
		e.phase = PhaseIdle
		if n > 0 {
			return clickAction(n)
		}
		return None
	}
	return None
}
