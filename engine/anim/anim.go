package anim

import (
	"time"

	"github.com/sqgui/sqgui/engine/ui"
)

// Easing maps normalized time [0,1] to normalized progress.
type Easing func(t float32) float32

func Linear(t float32) float32     { return t }
func EaseInQuad(t float32) float32 { return t * t }
func EaseOutQuad(t float32) float32 {
	return t * (2 - t)
}
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
func EaseOutCubic(t float32) float32 {
	t--
	return t*t*t + 1
}

type tweenKey struct {
	id   ui.NodeID
	prop ui.Prop
}

type tween struct {
	from, to float32
	duration time.Duration
	ease     Easing
	start    time.Duration
	started  bool
}

// Timeline interpolates node properties over the frame clock. It serves the
// frame pipeline's animator contract: the orchestrator polls Value each tick
// and keeps the node dirty until the tween settles. Starting a tween for a
// (node, property) pair replaces any tween already running on it.
type Timeline struct {
	tweens map[tweenKey]*tween
}

func NewTimeline() *Timeline {
	return &Timeline{tweens: make(map[tweenKey]*tween)}
}

// Tween animates the property from one value to another over d. A nil easing
// means linear. The clock starts at the first Value poll, so tweens scheduled
// mid-tick begin on the next frame.
func (tl *Timeline) Tween(id ui.NodeID, prop ui.Prop, from, to float32, d time.Duration, ease Easing) {
	if ease == nil {
		ease = Linear
	}
	tl.tweens[tweenKey{id, prop}] = &tween{from: from, to: to, duration: d, ease: ease}
}

// Cancel drops a running tween without snapping to its end value.
func (tl *Timeline) Cancel(id ui.NodeID, prop ui.Prop) {
	delete(tl.tweens, tweenKey{id, prop})
}

// Active reports whether any tween is running.
func (tl *Timeline) Active() bool { return len(tl.tweens) > 0 }

// Value returns the property's current value and whether it has settled.
// A settled tween is removed on the poll that completes it; a property with
// no running tween reports settled at 0, so register a tween before (or in
// the same tick as) registering the property with the frame.
func (tl *Timeline) Value(id ui.NodeID, prop ui.Prop, now time.Duration) (float32, bool) {
	k := tweenKey{id, prop}
	tw, ok := tl.tweens[k]
	if !ok {
		return 0, true
	}
	if !tw.started {
		tw.started = true
		tw.start = now
	}
	elapsed := now - tw.start
	if tw.duration <= 0 || elapsed >= tw.duration {
		delete(tl.tweens, k)
		return tw.to, true
	}
	t := float32(elapsed) / float32(tw.duration)
	return tw.from + (tw.to-tw.from)*tw.ease(t), false
}
