package controller

import (
	"fmt"
	"math"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/renderer"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// CurveCanvas is the fixed-size area on which a segment's unit square is
// drawn. Y grows downwards in pixels and upwards in unit space.
type CurveCanvas struct {
	Width, Height float64
	Padding       float64
}

// DefaultCurveCanvas matches the editor's curve panel.
var DefaultCurveCanvas = CurveCanvas{Width: 300, Height: 200, Padding: 20}

func (c CurveCanvas) inner() (w, h float64) {
	return c.Width - 2*c.Padding, c.Height - 2*c.Padding
}

// ToPixel maps a unit-square point onto the canvas.
func (c CurveCanvas) ToPixel(pt easing.Point) (x, y float64) {
	w, h := c.inner()
	return c.Padding + pt.X*w, c.Height - c.Padding - pt.Y*h
}

// ToUnit maps a canvas position into the unit square, clamped to it.
func (c CurveCanvas) ToUnit(x, y float64) easing.Point {
	w, h := c.inner()
	if w <= 0 || h <= 0 {
		return easing.Point{}
	}
	return easing.Point{
		X: clamp01((x - c.Padding) / w),
		Y: clamp01((c.Height - c.Padding - y) / h),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Handle names one of a keyframe's two bezier control points.
type Handle int

const (
	HandleNone Handle = iota
	HandleOut
	HandleIn
)

func (h Handle) String() string {
	switch h {
	case HandleOut:
		return "out"
	case HandleIn:
		return "in"
	}
	return "none"
}

// DefaultHitRadius is the handle hit-test radius in pixels.
const DefaultHitRadius = 8.0

// HandleDragger edits the tangent handles of the primary selected keyframe.
// It does nothing unless that keyframe uses cubic interpolation.
type HandleDragger struct {
	ed        *editor.Editor
	canvas    CurveCanvas
	HitRadius float64

	active   Handle
	id       timeline.KeyframeID
	original *easing.Point
}

// NewHandleDragger creates an idle handle dragger drawing on canvas.
func NewHandleDragger(ed *editor.Editor, canvas CurveCanvas) *HandleDragger {
	return &HandleDragger{ed: ed, canvas: canvas, HitRadius: DefaultHitRadius}
}

// Canvas returns the canvas geometry.
func (h *HandleDragger) Canvas() CurveCanvas {
	return h.canvas
}

// Target returns the keyframe whose handles are editable, if any.
func (h *HandleDragger) Target() (timeline.Keyframe, bool) {
	id, ok := h.ed.Timeline().Selection.Primary()
	if !ok {
		return timeline.Keyframe{}, false
	}
	k, ok := h.ed.Timeline().Keyframe(id)
	if !ok || k.Interpolation != easing.InterpCubic {
		return timeline.Keyframe{}, false
	}
	return k, true
}

// Active returns the handle being dragged.
func (h *HandleDragger) Active() Handle {
	return h.active
}

// HandlePositions returns the canvas positions of both handles of the
// target keyframe.
func (h *HandleDragger) HandlePositions() (out, in [2]float64, ok bool) {
	k, ok := h.Target()
	if !ok {
		return out, in, false
	}
	po, pi := k.Handles()
	out[0], out[1] = h.canvas.ToPixel(po)
	in[0], in[1] = h.canvas.ToPixel(pi)
	return out, in, true
}

// Press hit-tests both handles and starts dragging the nearer one within
// HitRadius.
func (h *HandleDragger) Press(p Pointer) Handle {
	if h.active != HandleNone {
		h.Release()
	}
	out, in, ok := h.HandlePositions()
	if !ok {
		return HandleNone
	}
	k, _ := h.Target()

	dOut := math.Hypot(p.X-out[0], p.Y-out[1])
	dIn := math.Hypot(p.X-in[0], p.Y-in[1])
	switch {
	case dOut <= h.HitRadius && dOut <= dIn:
		h.active, h.original = HandleOut, k.TangentOut
	case dIn <= h.HitRadius:
		h.active, h.original = HandleIn, k.TangentIn
	default:
		return HandleNone
	}
	h.id = k.ID
	if h.original != nil {
		pt := *h.original
		h.original = &pt
	}
	return h.active
}

// Move sets the active handle to the pointer position in unit space.
func (h *HandleDragger) Move(p Pointer) bool {
	if h.active == HandleNone {
		return false
	}
	pt := h.canvas.ToUnit(p.X, p.Y)
	return h.set(pt) == 1
}

func (h *HandleDragger) set(pt easing.Point) int {
	patch := editor.Patch{}
	if h.active == HandleOut {
		patch.TangentOut = &pt
	} else {
		patch.TangentIn = &pt
	}
	return h.ed.Update([]timeline.KeyframeID{h.id}, patch)
}

// Release ends the drag, keeping the handle where it is.
func (h *HandleDragger) Release() {
	h.active, h.id, h.original = HandleNone, "", nil
}

// Cancel ends the drag and restores the handle it started with.
func (h *HandleDragger) Cancel() {
	if h.active == HandleNone {
		return
	}
	if h.original != nil {
		h.set(*h.original)
	} else if p, _, i, err := h.ed.Timeline().Locate(h.id); err == nil {
		// The handle was implicit; go back to the default.
		if h.active == HandleOut {
			p.Keyframes[i].TangentOut = nil
		} else {
			p.Keyframes[i].TangentIn = nil
		}
	}
	h.Release()
}

// Preview samples component 0 of the target keyframe's outgoing segment,
// the live curve redrawn while a handle moves.
func (h *HandleDragger) Preview(n int) ([]renderer.CurvePoint, error) {
	k, ok := h.Target()
	if !ok {
		return nil, fmt.Errorf("no cubic keyframe selected")
	}
	p, _, i, err := h.ed.Timeline().Locate(k.ID)
	if err != nil {
		return nil, err
	}
	if i+1 >= len(p.Keyframes) {
		return nil, fmt.Errorf("keyframe at %.3fs has no outgoing segment", k.Time)
	}
	if n <= 0 {
		n = renderer.DefaultCurveSamples
	}
	return renderer.SampleCurve(p, k.Time, p.Keyframes[i+1].Time, n, 0)
}
