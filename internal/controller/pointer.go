// Package controller turns raw pointer events into editing operations:
// dragging keyframe markers along the time ruler and dragging bezier
// handles on the curve canvas. Controllers hold gesture state only; the
// timeline is read and written through an editor.Editor.
package controller

import (
	"math"

	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Additive reports whether a click should extend the selection.
func (m Modifiers) Additive() bool {
	return m.Ctrl || m.Meta
}

// Pointer is one pointer event in canvas pixels.
type Pointer struct {
	X, Y float64
	Mods Modifiers
}

// TimeScale maps seconds to horizontal pixels on the time ruler.
type TimeScale struct {
	PixelsPerSecond float64
	Zoom            float64
}

// DefaultTimeScale is 100 px/s at zoom 1.
var DefaultTimeScale = TimeScale{PixelsPerSecond: 100, Zoom: 1}

// Seconds converts a pixel delta to a time delta.
func (s TimeScale) Seconds(dx float64) float64 {
	return editor.TimeDelta(dx, s.PixelsPerSecond, s.Zoom)
}

// X returns the ruler position of time t.
func (s TimeScale) X(t float64) float64 {
	return t * s.PixelsPerSecond * s.Zoom
}

// KeyframeAt returns the keyframe of p whose marker is nearest to x and
// within radius pixels.
func (s TimeScale) KeyframeAt(p *timeline.Property, x, radius float64) (timeline.KeyframeID, bool) {
	best, bestDist := timeline.KeyframeID(""), math.Inf(1)
	for _, k := range p.Keyframes {
		if d := math.Abs(s.X(k.Time) - x); d <= radius && d < bestDist {
			best, bestDist = k.ID, d
		}
	}
	return best, best != ""
}
