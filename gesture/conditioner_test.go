package gesture

import "testing"

func TestDeadzone(t *testing.T) {
	tests := []struct {
		d, threshold, want float64
	}{
		{0, 2, 0},
		{2, 2, 0},
		{-2, 2, 0},
		{5, 2, 3},
		{-5, 2, -3},
	}
	for _, tt := range tests {
		if got := deadzone(tt.d, tt.threshold); got != tt.want {
			t.Errorf("deadzone(%v,%v) = %v, want %v", tt.d, tt.threshold, got, tt.want)
		}
	}
}

func TestIsJitter(t *testing.T) {
	if !isJitter(1, 1, 2) {
		t.Error("expected jitter when both axes within threshold")
	}
	if isJitter(3, 0, 2) {
		t.Error("expected no jitter when one axis exceeds threshold")
	}
}

func TestAccelMultiplierMonotonic(t *testing.T) {
	tuning := DefaultTuning()
	speeds := []float64{0, 10, 79, 80, 200, 349, 350, 600, 899, 900, 2000}
	prev := accelMultiplier(tuning, speeds[0])
	for _, s := range speeds[1:] {
		m := accelMultiplier(tuning, s)
		if m < prev {
			t.Fatalf("accelMultiplier not monotonic: at speed %v got %v < previous %v", s, m, prev)
		}
		prev = m
	}
	if got := accelMultiplier(tuning, 0); got != tuning.AccelMin {
		t.Errorf("below precision threshold: got %v, want AccelMin %v", got, tuning.AccelMin)
	}
	if got := accelMultiplier(tuning, 10000); got != tuning.AccelMax {
		t.Errorf("above max threshold: got %v, want AccelMax %v", got, tuning.AccelMax)
	}
}

func TestConditionerSubPixelAccumulatorStaysInRange(t *testing.T) {
	tuning := DefaultTuning()
	var c conditioner
	for i := 0; i < 1000; i++ {
		c.step(tuning, 2.5, -2.5, 10)
		if c.accumX <= -1 || c.accumX >= 1 {
			t.Fatalf("accumX out of (-1,1) range: %v", c.accumX)
		}
		if c.accumY <= -1 || c.accumY >= 1 {
			t.Fatalf("accumY out of (-1,1) range: %v", c.accumY)
		}
	}
}

func TestConditionerJitterSuppressesVelocityUpdate(t *testing.T) {
	tuning := DefaultTuning()
	var c conditioner
	c.vxSmooth = 42
	_, _, jitter := c.step(tuning, 1, 1, 10)
	if !jitter {
		t.Fatal("expected jitter classification for small delta")
	}
	if c.vxSmooth != 42 {
		t.Errorf("velocity should not update on jitter sample, got %v", c.vxSmooth)
	}
}

func TestScrollAccumulatorStaysInRange(t *testing.T) {
	var s scrollAccumulator
	for i := 0; i < 500; i++ {
		s.stepV(7, 20)
		if s.v <= -1 || s.v >= 1 {
			t.Fatalf("scroll accumulator v out of range: %v", s.v)
		}
	}
}
