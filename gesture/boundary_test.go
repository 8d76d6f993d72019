package gesture

import "testing"

func TestTapDurationBoundaries(t *testing.T) {
	tuning := DefaultTuning()

	// Exactly tap_min_ms is not a tap (bounce boundary is inclusive).
	if classifyTap(tuning.TapMinMs, 0, tuning.TapMovePx, tuning.TapMinMs, tuning.TapMaxMs) {
		t.Fatal("duration exactly tap_min_ms should not be a tap")
	}
	// tap_min_ms + 1 is a tap.
	if !classifyTap(tuning.TapMinMs+1, 0, tuning.TapMovePx, tuning.TapMinMs, tuning.TapMaxMs) {
		t.Fatal("duration tap_min_ms+1 should be a tap")
	}
	// Exactly tap_max_ms is not a tap (hold).
	if classifyTap(tuning.TapMaxMs, 0, tuning.TapMovePx, tuning.TapMinMs, tuning.TapMaxMs) {
		t.Fatal("duration exactly tap_max_ms should not be a tap")
	}
}

func TestNetDisplacementBoundary(t *testing.T) {
	tuning := DefaultTuning()
	// Net displacement exactly equal to tap_move_px is not a tap.
	if classifyTap(tuning.TapMinMs+1, tuning.TapMovePx, tuning.TapMovePx, tuning.TapMinMs, tuning.TapMaxMs) {
		t.Fatal("net displacement exactly tap_move_px should not be a tap")
	}
	if !classifyTap(tuning.TapMinMs+1, tuning.TapMovePx-0.001, tuning.TapMovePx, tuning.TapMinMs, tuning.TapMaxMs) {
		t.Fatal("net displacement just under tap_move_px should be a tap")
	}
}

func TestScrollZoneBoundaries(t *testing.T) {
	const hres, vres, w, h = 320, 240, 40, 40
	if z := Classify(float64(hres-w), 100, hres, vres, w, h); z != ZoneScrollV {
		t.Fatalf("x = hres-scroll_zone_w should be in the vertical scroll zone, got %v", z)
	}
	if z := Classify(float64(hres-w-1), 100, hres, vres, w, h); z != ZoneMain {
		t.Fatalf("x = hres-scroll_zone_w-1 should be in the main zone, got %v", z)
	}
}

func TestScrollZoneWZeroDisablesScrollV(t *testing.T) {
	for x := 0; x <= 320; x++ {
		if Classify(float64(x), 0, 320, 240, 0, 40) == ZoneScrollV {
			t.Fatalf("ScrollV reachable despite ScrollZoneW=0 at x=%d", x)
		}
	}
}
