// Package transition turns a diff into timed animation frames.
package transition

import "time"

// DefaultDuration is the length of one expand/collapse animation.
const DefaultDuration = 250 * time.Millisecond

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// CubicInOut accelerates through the first half and decelerates through the
// second.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Easings maps configuration names to easing functions.
var Easings = map[string]Easing{
	"linear":     Linear,
	"cubicInOut": CubicInOut,
}

// ByName returns the named easing, or CubicInOut for unknown names.
func ByName(name string) Easing {
	if e, ok := Easings[name]; ok {
		return e
	}
	return CubicInOut
}
