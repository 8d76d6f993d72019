// Command trackpadd reads raw multitouch samples from a Linux touchpad via
// evdev, feeds them through the gesture state machine, and replays the
// resulting actions onto a virtual uinput mouse.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/bendahl/uinput"

	"trackpadgesture/gesture"
	"trackpadgesture/internal/hostinput"
)

func main() {
	cfg := parseFlags()

	devicePath, err := findDevice(cfg.deviceKeyword, cfg.deviceNameContains)
	if err != nil {
		log.Fatalf("find touchpad: %v", err)
	}
	log.Printf("found touchpad at %s", devicePath)

	dev, err := evdev.Open(devicePath)
	if err != nil {
		log.Fatalf("open touchpad: %v", err)
	}
	defer dev.Release()
	if err := dev.Grab(); err != nil {
		log.Printf("grab touchpad: %v (continuing ungrabbed)", err)
	}

	vmouse, err := uinput.CreateMouse("/dev/uinput", []byte(cfg.virtualDeviceName))
	if err != nil {
		log.Fatalf("create virtual mouse: %v", err)
	}
	defer vmouse.Close()

	engine, err := gesture.New(cfg.engineConfig())
	if err != nil {
		log.Fatalf("build gesture engine: %v", err)
	}

	d := &daemon{
		cfg:       cfg,
		dev:       dev,
		vmouse:    vmouse,
		engine:    engine,
		seq:       gesture.NewClickSequencer(cfg.clickPressMs, cfg.clickGapMs),
		slots:     make(map[int]*slotState),
		palm:      hostinput.PalmFilter{TopY: cfg.palmZoneTopY, PressureThreshold: cfg.palmPressureThreshold},
		pressCls:  hostinput.PressureClassifier{PressThreshold: cfg.physicalPressThreshold, ReleaseThreshold: cfg.physicalReleaseThreshold},
		fingerBtn: hostinput.FingerCountButton{},
	}
	d.seq.Logger = func(format string, args ...any) { log.Printf(format, args...) }
	d.sink = mouseButtonSink{vmouse: vmouse}

	log.Println("trackpadd started")
	d.run()
}

// findDevice mirrors the reference driver's discovery strategy: prefer a
// device whose name contains both the keyword and the required substring,
// fall back to the first keyword match.
func findDevice(keyword, mustContain string) (string, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}
	var fallback string
	for _, dev := range devices {
		nameLower := strings.ToLower(dev.Name)
		if strings.Contains(nameLower, strings.ToLower(keyword)) {
			if strings.Contains(nameLower, strings.ToLower(mustContain)) {
				return dev.Fn, nil
			}
			if fallback == "" {
				fallback = dev.Fn
			}
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("no input device matching keyword %q", keyword)
}

type config struct {
	deviceKeyword      string
	deviceNameContains string
	virtualDeviceName  string
	rotate180          bool

	hres, vres            int
	scrollZoneW, scrollZoneH int

	jitterPx                float64
	alpha                   float64
	accelMin, accelMax      float64
	accelPrecisionThreshold float64
	accelLinearThreshold    float64
	accelMaxThreshold       float64
	tapMinMs, tapMaxMs      int64
	tapMovePx               float64
	multiTapWindowMs        int64
	dragHoldMs              int64
	dragMovePx              float64
	scrollSensitivityPx     float64

	clickPressMs, clickGapMs int64

	palmZoneTopY             float64
	palmPressureThreshold    float64
	physicalPressThreshold   float64
	physicalReleaseThreshold float64
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.deviceKeyword, "device-keyword", "Touchpad", "substring used to find the touchpad input device")
	flag.StringVar(&c.deviceNameContains, "device-name-contains", "Touchpad", "preferred substring among keyword matches")
	flag.StringVar(&c.virtualDeviceName, "virtual-device-name", "trackpadd-mouse", "name reported by the virtual uinput mouse")
	flag.BoolVar(&c.rotate180, "rotate180", false, "rotate panel coordinates 180 degrees before classification")

	flag.IntVar(&c.hres, "hres", 3000, "panel horizontal resolution")
	flag.IntVar(&c.vres, "vres", 2000, "panel vertical resolution")
	flag.IntVar(&c.scrollZoneW, "scroll-zone-w", 200, "width in panel units of the right-edge vertical scroll strip")
	flag.IntVar(&c.scrollZoneH, "scroll-zone-h", 200, "height in panel units of the bottom-edge horizontal scroll strip")

	tu := gesture.DefaultTuning()
	flag.Float64Var(&c.jitterPx, "jitter-px", tu.JitterPx, "dead-zone radius for per-sample jitter suppression")
	flag.Float64Var(&c.alpha, "alpha", tu.Alpha, "EWMA smoothing factor for velocity, in (0,1]")
	flag.Float64Var(&c.accelMin, "accel-min", tu.AccelMin, "acceleration multiplier floor")
	flag.Float64Var(&c.accelMax, "accel-max", tu.AccelMax, "acceleration multiplier ceiling")
	flag.Float64Var(&c.accelPrecisionThreshold, "accel-precision-thresh", tu.AccelPrecisionThreshold, "speed below which accel-min applies")
	flag.Float64Var(&c.accelLinearThreshold, "accel-linear-thresh", tu.AccelLinearThreshold, "speed above which the linear-to-concave ramp transition happens")
	flag.Float64Var(&c.accelMaxThreshold, "accel-max-thresh", tu.AccelMaxThreshold, "speed above which accel-max applies")
	flag.Int64Var(&c.tapMinMs, "tap-min-ms", tu.TapMinMs, "shortest contact duration counted as a tap")
	flag.Int64Var(&c.tapMaxMs, "tap-max-ms", tu.TapMaxMs, "longest contact duration counted as a tap")
	flag.Float64Var(&c.tapMovePx, "tap-move-px", tu.TapMovePx, "largest net displacement counted as a tap")
	flag.Int64Var(&c.multiTapWindowMs, "multitap-window-ms", tu.MultiTapWindowMs, "window to chain consecutive taps into a multi-click")
	flag.Int64Var(&c.dragHoldMs, "drag-hold-ms", tu.DragHoldMs, "hold duration after a tap that promotes the next contact to a drag")
	flag.Float64Var(&c.dragMovePx, "drag-move-px", tu.DragMovePx, "eager-promotion displacement threshold for drag")
	flag.Float64Var(&c.scrollSensitivityPx, "scroll-sensitivity-px", tu.ScrollSensitivityPx, "panel pixels per scroll unit")

	flag.Int64Var(&c.clickPressMs, "click-press-ms", 10, "synthetic button-down hold duration per click")
	flag.Int64Var(&c.clickGapMs, "click-gap-ms", 30, "gap between synthetic clicks in a multi-click burst")

	flag.Float64Var(&c.palmZoneTopY, "palm-zone-top-y", 500, "Y above which a high-pressure contact is treated as a palm")
	flag.Float64Var(&c.palmPressureThreshold, "palm-pressure-threshold", 45, "pressure above which a contact in the palm zone is rejected")
	flag.Float64Var(&c.physicalPressThreshold, "physical-press-threshold", 140, "pressure above which a physical click engages")
	flag.Float64Var(&c.physicalReleaseThreshold, "physical-release-threshold", 80, "pressure below which a physical click releases")

	flag.Parse()
	return c
}

func (c config) engineConfig() gesture.Config {
	return gesture.Config{
		HRes:        c.hres,
		VRes:        c.vres,
		ScrollZoneW: c.scrollZoneW,
		ScrollZoneH: c.scrollZoneH,
		Tuning: gesture.Tuning{
			JitterPx:                c.jitterPx,
			Alpha:                   c.alpha,
			AccelMin:                c.accelMin,
			AccelMax:                c.accelMax,
			AccelPrecisionThreshold: c.accelPrecisionThreshold,
			AccelLinearThreshold:    c.accelLinearThreshold,
			AccelMaxThreshold:       c.accelMaxThreshold,
			TapMinMs:                c.tapMinMs,
			TapMaxMs:                c.tapMaxMs,
			TapMovePx:               c.tapMovePx,
			MultiTapWindowMs:        c.multiTapWindowMs,
			DragHoldMs:              c.dragHoldMs,
			DragMovePx:              c.dragMovePx,
			ScrollSensitivityPx:     c.scrollSensitivityPx,
		},
	}
}

type slotState struct {
	x, y, pressure float64
}

// mouseButtonSink adapts uinput's left-button calls to gesture.ButtonSink so
// the click sequencer can drive real hardware through the exact same retry
// path its tests exercise against a fake.
type mouseButtonSink struct {
	vmouse uinput.Mouse
}

func (s mouseButtonSink) ButtonDown() error { return s.vmouse.LeftPress() }
func (s mouseButtonSink) ButtonUp() error   { return s.vmouse.LeftRelease() }

type daemon struct {
	cfg    config
	dev    *evdev.InputDevice
	vmouse uinput.Mouse
	engine *gesture.Engine
	seq    *gesture.ClickSequencer
	sink   mouseButtonSink

	slots      map[int]*slotState
	activeSlot int

	palm      hostinput.PalmFilter
	pressCls  hostinput.PressureClassifier
	fingerBtn hostinput.FingerCountButton

	fingerCount    int
	maxFingerCount int
	touching       bool
	dragHeld       bool
}

func (d *daemon) run() {
	start := time.Now()
	now := func() int64 { return time.Since(start).Milliseconds() }

	for {
		events, err := d.dev.Read()
		if err != nil {
			log.Printf("read touchpad: %v", err)
			return
		}
		for _, ev := range events {
			switch ev.Type {
			case evdev.EV_ABS:
				d.handleAbs(ev)
			case evdev.EV_KEY:
				d.handleKey(ev, now())
			case evdev.EV_SYN:
				if ev.Code == evdev.SYN_REPORT {
					d.handleSync(now())
				}
			}
		}
		d.seq.Step(now(), d.sink)
		if a := d.engine.Tick(now()); a.Kind != gesture.ActionNone {
			d.apply(a)
		}
	}
}

func (d *daemon) handleAbs(ev evdev.InputEvent) {
	if ev.Code == evdev.ABS_MT_SLOT {
		d.activeSlot = int(ev.Value)
	}
	s, ok := d.slots[d.activeSlot]
	if !ok {
		s = &slotState{}
		d.slots[d.activeSlot] = s
	}
	switch ev.Code {
	case evdev.ABS_MT_POSITION_X:
		s.x = float64(ev.Value)
	case evdev.ABS_MT_POSITION_Y:
		s.y = float64(ev.Value)
	case evdev.ABS_MT_PRESSURE:
		s.pressure = float64(ev.Value)
	case evdev.ABS_MT_TRACKING_ID:
		if ev.Value == -1 {
			delete(d.slots, d.activeSlot)
		}
	}
}

func (d *daemon) handleKey(ev evdev.InputEvent, nowMs int64) {
	switch ev.Code {
	case evdev.BTN_TOOL_FINGER:
		d.setFingerCount(ev.Value, 1)
	case evdev.BTN_TOOL_DOUBLETAP:
		d.setFingerCount(ev.Value, 2)
	case evdev.BTN_TOOL_TRIPLETAP:
		d.setFingerCount(ev.Value, 3)
	case evdev.BTN_TOUCH:
		d.handleTouch(ev.Value == 1, nowMs)
	}
}

func (d *daemon) setFingerCount(value int32, n int) {
	if value == 1 {
		d.fingerCount = n
	} else {
		d.fingerCount = 0
	}
	if d.fingerCount > d.maxFingerCount {
		d.maxFingerCount = d.fingerCount
	}
}

func (d *daemon) handleTouch(down bool, nowMs int64) {
	s0 := d.primarySlot()
	x, y := d.rotated(s0.x, s0.y)

	if down {
		d.touching = true
		d.maxFingerCount = d.fingerCount
		d.palm.Begin(y, s0.pressure)
		if d.palm.Rejected() {
			return
		}
		a := d.engine.ProcessInput(gesture.Event{Kind: gesture.Pressed, X: x, Y: y}, nowMs)
		d.apply(a)
		return
	}

	d.touching = false
	if d.palm.Rejected() {
		d.palm.End()
		d.maxFingerCount = 0
		return
	}
	a := d.engine.ProcessInput(gesture.Event{Kind: gesture.Released, X: x, Y: y}, nowMs)
	if btn, ok := d.fingerBtn.ButtonFor(d.maxFingerCount); ok && !d.palm.Rejected() {
		// A chord tap (two/three fingers) is host policy, not something
		// the single-contact engine's own tap classification knows
		// about: fire the chord button instead of whatever the engine
		// derived from slot 0 alone, and reset the engine so that tap
		// is not reported later as a left click (a pending multi-tap
		// chain is dropped with it).
		d.emitChordClick(btn)
		d.engine.Reset()
	} else {
		d.apply(a)
	}
	d.palm.End()
	d.maxFingerCount = 0
}

// emitChordClick fires a two- or three-finger tap's button directly,
// bypassing the gesture engine: chord taps are a host-side policy decision
// (hostinput.FingerCountButton), not part of the single-contact state
// machine's vocabulary.
func (d *daemon) emitChordClick(btn hostinput.Button) {
	var err error
	switch btn {
	case hostinput.ButtonRight:
		err = d.vmouse.RightClick()
	case hostinput.ButtonMiddle:
		err = d.vmouse.MiddleClick()
	}
	if err != nil {
		log.Printf("chord click: %v", err)
	}
}

func (d *daemon) handleSync(nowMs int64) {
	if !d.touching {
		return
	}
	s0 := d.primarySlot()
	if d.palm.Rejected() {
		return
	}

	pressed, changed := d.pressCls.Update(s0.pressure)
	if changed {
		if pressed {
			if err := d.vmouse.LeftPress(); err != nil {
				log.Printf("physical press: %v", err)
			}
		} else if err := d.vmouse.LeftRelease(); err != nil {
			log.Printf("physical release: %v", err)
		}
	}

	x, y := d.rotated(s0.x, s0.y)
	a := d.engine.ProcessInput(gesture.Event{Kind: gesture.Pressing, X: x, Y: y}, nowMs)
	d.apply(a)
}

func (d *daemon) primarySlot() slotState {
	if s, ok := d.slots[0]; ok {
		return *s
	}
	return slotState{}
}

func (d *daemon) rotated(x, y float64) (float64, float64) {
	if !d.cfg.rotate180 {
		return x, y
	}
	return float64(d.cfg.hres) - x, float64(d.cfg.vres) - y
}

func (d *daemon) apply(a gesture.Action) {
	switch a.Kind {
	case gesture.ActionMove, gesture.ActionDragMove:
		if a.DX != 0 || a.DY != 0 {
			if err := d.vmouse.Move(int32(a.DX), int32(a.DY)); err != nil {
				log.Printf("move: %v", err)
			}
		}
	case gesture.ActionScrollV:
		if err := d.vmouse.Wheel(false, int32(a.Units)); err != nil {
			log.Printf("scroll vertical: %v", err)
		}
	case gesture.ActionScrollH:
		if err := d.vmouse.Wheel(true, int32(a.Units)); err != nil {
			log.Printf("scroll horizontal: %v", err)
		}
	case gesture.ActionClick:
		d.seq.Begin(int(a.N))
	case gesture.ActionDragStart:
		if err := d.vmouse.LeftPress(); err != nil {
			log.Printf("drag start: %v", err)
		}
		d.dragHeld = true
	case gesture.ActionDragEnd:
		if d.dragHeld {
			if err := d.vmouse.LeftRelease(); err != nil {
				log.Printf("drag end: %v", err)
			}
			d.dragHeld = false
		}
	}
}
