package gesture

import "testing"

type recordingSink struct {
	downs, ups int
	failDowns  int
	failUps    int
}

func (s *recordingSink) ButtonDown() error {
	if s.failDowns > 0 {
		s.failDowns--
		return errTransient
	}
	s.downs++
	return nil
}

func (s *recordingSink) ButtonUp() error {
	if s.failUps > 0 {
		s.failUps--
		return errTransient
	}
	s.ups++
	return nil
}

type transientError struct{}

func (transientError) Error() string { return "sink not ready" }

var errTransient = transientError{}

func TestClickSequencerSingleClick(t *testing.T) {
	seq := NewClickSequencer(10, 30)
	sink := &recordingSink{}
	seq.Begin(1)

	now := int64(0)
	for seq.Active() {
		seq.Step(now, sink)
		now += 5
		if now > 1000 {
			t.Fatal("sequencer never completed")
		}
	}
	if sink.downs != 1 || sink.ups != 1 {
		t.Fatalf("expected exactly one down/up pair, got downs=%d ups=%d", sink.downs, sink.ups)
	}
}

func TestClickSequencerMultipleClicks(t *testing.T) {
	seq := NewClickSequencer(10, 30)
	sink := &recordingSink{}
	seq.Begin(3)

	now := int64(0)
	for seq.Active() {
		seq.Step(now, sink)
		now += 5
		if now > 2000 {
			t.Fatal("sequencer never completed")
		}
	}
	if sink.downs != 3 || sink.ups != 3 {
		t.Fatalf("expected 3 down/up pairs, got downs=%d ups=%d", sink.downs, sink.ups)
	}
}

func TestClickSequencerStepIsNoopWhenIdle(t *testing.T) {
	seq := NewClickSequencer(10, 30)
	sink := &recordingSink{}
	seq.Step(0, sink)
	if sink.downs != 0 {
		t.Fatal("Step should be a no-op when nothing is pending")
	}
}

func TestClickSequencerRetriesThenDiscards(t *testing.T) {
	seq := NewClickSequencer(10, 30)
	sink := &recordingSink{failDowns: defaultMaxRetries + 1}
	var warned bool
	seq.Logger = func(format string, args ...any) { warned = true }
	seq.Begin(1)

	now := int64(0)
	for seq.Active() {
		seq.Step(now, sink)
		now += 5
		if now > 1000 {
			t.Fatal("sequencer never completed")
		}
	}
	if !warned {
		t.Fatal("expected a discard warning to be logged")
	}
}
