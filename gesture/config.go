package gesture

import "fmt"

// Tuning holds the engine's numeric knobs. All fields are read-only after
// construction (invariant 6 in the design: configuration is never mutated).
type Tuning struct {
	// JitterPx is the per-axis dead-zone width, in pixels.
	JitterPx float64
	// Alpha is the EWMA velocity-smoothing factor, in (0, 1].
	Alpha float64

	// AccelMin/AccelMax bound the acceleration multiplier.
	AccelMin float64
	AccelMax float64
	// AccelPrecisionThreshold/AccelLinearThreshold/AccelMaxThreshold are the
	// speed thresholds (px/s) of the piecewise acceleration curve's four
	// regimes: below Precision -> AccelMin, Precision..Linear -> linear
	// ramp to 1.0, Linear..Max -> concave ramp to AccelMax, above Max ->
	// clamped to AccelMax.
	AccelPrecisionThreshold float64
	AccelLinearThreshold    float64
	AccelMaxThreshold       float64

	// TapMinMs/TapMaxMs bound the touch duration that still counts as a tap.
	TapMinMs int64
	TapMaxMs int64
	// TapMovePx is the maximum net displacement for a touch to count as a
	// tap.
	TapMovePx float64
	// MultiTapWindowMs is the window within which successive taps chain.
	MultiTapWindowMs int64
	// DragHoldMs is the hold time after a tap that promotes the follow-up
	// touch to a drag.
	DragHoldMs int64
	// DragMovePx is the movement on the second touch that promotes to drag
	// immediately, without waiting for DragHoldMs.
	DragMovePx float64
	// ScrollSensitivityPx is the pixels of finger travel equal to one
	// scroll unit.
	ScrollSensitivityPx float64
}

// DefaultTuning returns reasonable defaults. The tap/drag/scroll values
// match the worked scenarios in the design's test-property section so the
// bundled scenario tests exercise the defaults directly.
func DefaultTuning() Tuning {
	return Tuning{
		JitterPx:                2,
		Alpha:                   0.35,
		AccelMin:                0.4,
		AccelMax:                2.5,
		AccelPrecisionThreshold: 80,
		AccelLinearThreshold:    350,
		AccelMaxThreshold:       900,
		TapMinMs:                50,
		TapMaxMs:                150,
		TapMovePx:               5,
		MultiTapWindowMs:        300,
		DragHoldMs:              150,
		DragMovePx:              20,
		ScrollSensitivityPx:     20,
	}
}

// Config is the engine's immutable construction-time configuration.
type Config struct {
	HRes, VRes               int
	ScrollZoneW, ScrollZoneH int
	Tuning                   Tuning
}

// ConfigError reports an invalid Config passed to New. It is only ever
// returned from construction, never from the hot path.
type ConfigError struct {
	Field string
	Value any
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gesture: invalid config field %s=%v: %s", e.Field, e.Value, e.Msg)
}

func validate(cfg Config) error {
	if cfg.HRes <= 0 {
		return &ConfigError{Field: "HRes", Value: cfg.HRes, Msg: "must be positive"}
	}
	if cfg.VRes <= 0 {
		return &ConfigError{Field: "VRes", Value: cfg.VRes, Msg: "must be positive"}
	}
	if cfg.ScrollZoneW < 0 {
		return &ConfigError{Field: "ScrollZoneW", Value: cfg.ScrollZoneW, Msg: "must not be negative"}
	}
	if cfg.ScrollZoneH < 0 {
		return &ConfigError{Field: "ScrollZoneH", Value: cfg.ScrollZoneH, Msg: "must not be negative"}
	}
	if cfg.Tuning.Alpha <= 0 || cfg.Tuning.Alpha > 1 {
		return &ConfigError{Field: "Tuning.Alpha", Value: cfg.Tuning.Alpha, Msg: "must be in (0, 1]"}
	}
	return nil
}
