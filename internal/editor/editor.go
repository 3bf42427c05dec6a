// Package editor implements the keyframe editing operations. Every operation
// leaves the timeline structurally valid when it returns (sorted keyframes,
// no dangling selection ids), except Move, which defers sorting to
// FinishMove so a drag gesture keeps a stable index.
//
// Operations on a locked track change nothing and report false.
package editor

import (
	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Editor mutates one timeline. Like the timeline, it belongs to a single
// goroutine.
type Editor struct {
	tl *timeline.Timeline
}

// New binds an editor to tl.
func New(tl *timeline.Timeline) *Editor {
	if tl.Selection == nil {
		tl.Selection = timeline.NewSelection()
	}
	return &Editor{tl: tl}
}

// Timeline returns the edited timeline.
func (e *Editor) Timeline() *timeline.Timeline {
	return e.tl
}

func (e *Editor) writable(op string, t *timeline.Track) bool {
	if t.Locked {
		system.Logger().Debug("edit rejected by locked track", "op", op, "track", t.Name)
		return false
	}
	return true
}

func (e *Editor) fits(op string, p *timeline.Property, v timeline.Value) bool {
	if !p.Fits(v) {
		system.Logger().Debug("edit rejected by property type", "op", op, "property", p.Name, "type", p.Type, "value", timeline.ValueKind(v))
		return false
	}
	return true
}

// normalize re-sorts p and separates collisions, logging any nudge.
func (e *Editor) normalize(p *timeline.Property, moved timeline.KeyframeID) {
	if n := p.Normalize(moved, e.tl.Duration); n > 0 {
		system.Logger().Warn("keyframe collision nudged", "property", p.Name, "count", n)
	}
}

// Add sets a keyframe on property at time t. An existing keyframe at exactly
// t gets the new value instead of a duplicate; otherwise a keyframe with
// the default easing and interpolation is inserted. Negative times become 0.
// A value that does not fit the property type is rejected.
func (e *Editor) Add(property timeline.PropertyID, t float64, v timeline.Value) (timeline.KeyframeID, bool) {
	p, track, err := e.tl.Property(property)
	if err != nil || !e.writable("add", track) {
		return "", false
	}
	if !e.fits("add", p, v) {
		return "", false
	}
	if t < 0 {
		t = 0
	}

	if i := p.IndexAtTime(t); i >= 0 {
		p.Keyframes[i].Value = timeline.CloneValue(v)
		return p.Keyframes[i].ID, true
	}

	k := timeline.NewKeyframe(t, timeline.CloneValue(v))
	p.Keyframes = append(p.Keyframes, k)
	e.normalize(p, "")
	return k.ID, true
}

// Delete removes keyframe id from property and from the selection.
func (e *Editor) Delete(property timeline.PropertyID, id timeline.KeyframeID) bool {
	p, track, err := e.tl.Property(property)
	if err != nil || !e.writable("delete", track) {
		return false
	}
	i := p.IndexOf(id)
	if i < 0 {
		return false
	}
	p.Keyframes = append(p.Keyframes[:i], p.Keyframes[i+1:]...)
	e.tl.Selection.Remove(id)
	return true
}

// DeleteKeyframe removes id wherever it lives.
func (e *Editor) DeleteKeyframe(id timeline.KeyframeID) bool {
	p, _, _, err := e.tl.Locate(id)
	if err != nil {
		return false
	}
	return e.Delete(p.ID, id)
}

// DeleteSelected removes every selected keyframe on an unlocked track and
// returns how many were removed. Keyframes on locked tracks stay selected.
func (e *Editor) DeleteSelected() int {
	n := 0
	for _, id := range e.tl.Selection.IDs() {
		if e.DeleteKeyframe(id) {
			n++
		}
	}
	return n
}

// TimeDelta converts a horizontal pointer delta to seconds at the given
// timeline scale.
func TimeDelta(dx, pixelsPerSecond, zoom float64) float64 {
	if pixelsPerSecond <= 0 || zoom <= 0 {
		return 0
	}
	return dx / (pixelsPerSecond * zoom)
}

// Move places keyframe id at originalTime+delta clamped to [0, Duration].
// It does not re-sort; call FinishMove when the gesture ends.
func (e *Editor) Move(id timeline.KeyframeID, originalTime, delta float64) bool {
	p, track, i, err := e.tl.Locate(id)
	if err != nil || !e.writable("move", track) {
		return false
	}
	p.Keyframes[i].Time = e.tl.ClampTime(originalTime + delta)
	return true
}

// FinishMove restores time order on the property owning id. A keyframe
// dropped exactly onto another is nudged off it.
func (e *Editor) FinishMove(id timeline.KeyframeID) bool {
	p, track, _, err := e.tl.Locate(id)
	if err != nil || !e.writable("move", track) {
		return false
	}
	e.normalize(p, id)
	return true
}

// Patch lists field updates for Update. Nil fields are left alone.
type Patch struct {
	Time          *float64
	Value         timeline.Value
	Easing        *easing.Kind
	Interpolation *easing.Interpolation
	TangentIn     *easing.Point
	TangentOut    *easing.Point
	ClearTangents bool
}

// Valid reports whether the patch only names known enumerations.
func (pt Patch) Valid() bool {
	if pt.Easing != nil && !pt.Easing.Valid() {
		return false
	}
	if pt.Interpolation != nil && !pt.Interpolation.Valid() {
		return false
	}
	return true
}

// Update applies patch to every listed keyframe that exists on an unlocked
// track and returns how many were changed. Keyframes whose property cannot
// hold patch.Value are skipped. Typical use is applying an easing
// or interpolation to the whole selection.
func (e *Editor) Update(ids []timeline.KeyframeID, patch Patch) int {
	if !patch.Valid() {
		system.Logger().Debug("update rejected", "reason", "unknown enumeration")
		return 0
	}

	touched := make(map[*timeline.Property]timeline.KeyframeID)
	n := 0
	for _, id := range ids {
		p, track, i, err := e.tl.Locate(id)
		if err != nil || !e.writable("update", track) {
			continue
		}
		if patch.Value != nil && !e.fits("update", p, patch.Value) {
			continue
		}
		k := &p.Keyframes[i]
		if patch.Time != nil {
			k.Time = e.tl.ClampTime(*patch.Time)
			touched[p] = id
		}
		if patch.Value != nil {
			k.Value = timeline.CloneValue(patch.Value)
		}
		if patch.Easing != nil {
			k.Easing = *patch.Easing
		}
		if patch.Interpolation != nil {
			k.Interpolation = *patch.Interpolation
		}
		if patch.ClearTangents {
			k.TangentIn, k.TangentOut = nil, nil
		}
		if patch.TangentIn != nil {
			pt := *patch.TangentIn
			k.TangentIn = &pt
		}
		if patch.TangentOut != nil {
			pt := *patch.TangentOut
			k.TangentOut = &pt
		}
		n++
	}

	for p, moved := range touched {
		e.normalize(p, moved)
	}
	return n
}

// UpdateSelected applies patch to the current selection.
func (e *Editor) UpdateSelected(patch Patch) int {
	return e.Update(e.tl.Selection.IDs(), patch)
}
