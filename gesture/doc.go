// Package gesture implements a touchscreen trackpad gesture engine.
//
// It is a pure, framework-independent state machine: it consumes a stream of
// raw touch samples (press, move, release) plus periodic time ticks and
// produces a stream of high level pointing actions (move, click, drag,
// scroll) suitable for translation into HID mouse reports by a host. The
// engine performs no I/O, takes no locks, allocates nothing beyond its fixed
// size state struct, and never reads the clock itself — every timestamp it
// sees is supplied by the caller.
package gesture
