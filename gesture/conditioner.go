package gesture

import "math"

// deadzone applies the jitter dead-zone to a single raw delta: deltas within
// the threshold are swallowed, the rest have the threshold subtracted rather
// than passing through untouched.
func deadzone(d, threshold float64) float64 {
	if abs(d) <= threshold {
		return 0
	}
	return d - sign(d)*threshold
}

// isJitter reports whether both axes of a raw move lie within the jitter
// threshold simultaneously, which short-circuits the rest of the
// conditioner.
func isJitter(dx, dy, threshold float64) bool {
	return abs(dx) <= threshold && abs(dy) <= threshold
}

// accelMultiplier computes the piecewise acceleration curve multiplier for
// a given smoothed speed s (px/s). It is monotonically non-decreasing in s,
// per the design's requirement on any curve shape.
func accelMultiplier(t Tuning, s float64) float64 {
	switch {
	case s < t.AccelPrecisionThreshold:
		return t.AccelMin
	case s < t.AccelLinearThreshold:
		span := t.AccelLinearThreshold - t.AccelPrecisionThreshold
		if span <= 0 {
			return 1
		}
		frac := (s - t.AccelPrecisionThreshold) / span
		return t.AccelMin + frac*(1-t.AccelMin)
	case s < t.AccelMaxThreshold:
		span := t.AccelMaxThreshold - t.AccelLinearThreshold
		if span <= 0 {
			return t.AccelMax
		}
		frac := (s - t.AccelLinearThreshold) / span
		return 1 + math.Sqrt(frac)*(t.AccelMax-1)
	default:
		return t.AccelMax
	}
}

// conditioner carries the EWMA velocity state and sub-pixel accumulators
// that persist between emissions (engine invariants 4 and 5).
type conditioner struct {
	vxSmooth, vySmooth float64
	accumX, accumY     float64
}

func (c *conditioner) reset() {
	*c = conditioner{}
}

// step runs one raw move sample through the dead-zone, EWMA velocity
// smoother, acceleration curve and sub-pixel accumulator, returning the
// integer delta to emit (if any) and whether the sample was pure jitter.
func (c *conditioner) step(t Tuning, dx, dy float64, dtMs int64) (emitDx, emitDy int, jitter bool) {
	if isJitter(dx, dy, t.JitterPx) {
		return 0, 0, true
	}

	dtSec := float64(dtMs)
	if dtSec < 1 {
		dtSec = 1
	}
	dtSec /= 1000

	condDx := deadzone(dx, t.JitterPx)
	condDy := deadzone(dy, t.JitterPx)

	vInstX := condDx / dtSec
	vInstY := condDy / dtSec
	c.vxSmooth = t.Alpha*vInstX + (1-t.Alpha)*c.vxSmooth
	c.vySmooth = t.Alpha*vInstY + (1-t.Alpha)*c.vySmooth

	speed := math.Sqrt(c.vxSmooth*c.vxSmooth + c.vySmooth*c.vySmooth)
	m := accelMultiplier(t, speed)

	accX := condDx
	if abs(condDx) >= 0.5 {
		accX = condDx * m
	}
	accY := condDy
	if abs(condDy) >= 0.5 {
		accY = condDy * m
	}

	c.accumX += accX
	c.accumY += accY
	ix := truncToInt(c.accumX)
	iy := truncToInt(c.accumY)
	c.accumX -= float64(ix)
	c.accumY -= float64(iy)

	return ix, iy, false
}

// scrollAccumulator carries the sub-unit accumulators for scroll emission
// (engine invariant 5).
type scrollAccumulator struct {
	v, h float64
}

func (s *scrollAccumulator) reset() {
	s.v, s.h = 0, 0
}

// stepV converts a raw scroll-strip delta into whole scroll units, keeping
// the fractional remainder for the next call. Vertical units are negated by
// the caller to produce natural scrolling.
func (s *scrollAccumulator) stepV(dy, sensitivity float64) int {
	s.v += dy / sensitivity
	units := truncToInt(s.v)
	s.v -= float64(units)
	return units
}

func (s *scrollAccumulator) stepH(dx, sensitivity float64) int {
	s.h += dx / sensitivity
	units := truncToInt(s.h)
	s.h -= float64(units)
	return units
}
