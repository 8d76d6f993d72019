package gesture

// SeqPhase enumerates the click sequencer's three states.
type SeqPhase uint8

const (
	SeqIdle SeqPhase = iota
	SeqPressed
	SeqReleased
)

// ButtonSink is the minimal HID effect surface the click sequencer drives.
// Implementations may report a transient failure (device not ready); the
// sequencer retries a bounded number of times before discarding the report
// (design §4.5).
type ButtonSink interface {
	ButtonDown() error
	ButtonUp() error
}

// defaultMaxRetries is the bounded number of host poll cycles the sequencer
// retries a failing sink call before discarding it, per design §4.5.
const defaultMaxRetries = 5

// ClickSequencer turns an "emit N clicks" request into timed button
// down/up pulses. It is a separate, pure scheduler: one Step per host poll
// cycle, non-blocking.
type ClickSequencer struct {
	pendingClicks int
	phase         SeqPhase
	phaseChangeAt int64

	pressMs int64
	gapMs   int64

	retries int

	// Logger, if set, is called when a sink report is discarded after
	// exhausting retries. It is never called by the engine itself; wiring
	// a logger here is a host decision.
	Logger func(format string, args ...any)
}

// NewClickSequencer constructs a sequencer with the given button-press and
// inter-click gap durations (milliseconds). click_press_ms ~= 10,
// click_gap_ms ~= 30 are the design's suggested defaults.
func NewClickSequencer(pressMs, gapMs int64) *ClickSequencer {
	return &ClickSequencer{pressMs: pressMs, gapMs: gapMs}
}

// Begin starts emitting n clicks. Call this when the engine returns an
// ActionClick.
func (s *ClickSequencer) Begin(n int) {
	if n < 1 {
		n = 1
	}
	s.pendingClicks = n
	s.phase = SeqIdle
	s.retries = 0
}

// Active reports whether the sequencer still has work to do.
func (s *ClickSequencer) Active() bool {
	return s.pendingClicks > 0 || s.phase != SeqIdle
}

func (s *ClickSequencer) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger(format, args...)
	}
}

// Step advances the sequencer by one host poll cycle. Call it every poll
// cycle; it is a no-op when there is nothing pending.
func (s *ClickSequencer) Step(now int64, sink ButtonSink) {
	if s.pendingClicks == 0 && s.phase == SeqIdle {
		return
	}

	switch s.phase {
	case SeqIdle:
		if err := sink.ButtonDown(); err != nil {
			s.retries++
			if s.retries > defaultMaxRetries {
				s.logf("click sequencer: discarding button-down report after %d failed attempts: %v", s.retries, err)
				s.retries = 0
				s.phase = SeqPressed
				s.phaseChangeAt = now
			}
			return
		}
		s.retries = 0
		s.phase = SeqPressed
		s.phaseChangeAt = now

	case SeqPressed:
		if now-s.phaseChangeAt < s.pressMs {
			return
		}
		if err := sink.ButtonUp(); err != nil {
			s.retries++
			if s.retries > defaultMaxRetries {
				s.logf("click sequencer: discarding button-up report after %d failed attempts: %v", s.retries, err)
			} else {
				return
			}
		}
		s.retries = 0
		s.phase = SeqReleased
		s.phaseChangeAt = now
		s.pendingClicks--

	case SeqReleased:
		if s.pendingClicks > 0 {
			if now-s.phaseChangeAt < s.gapMs {
				return
			}
			s.phase = SeqIdle
		} else {
			s.phase = SeqIdle
		}
	}
}
