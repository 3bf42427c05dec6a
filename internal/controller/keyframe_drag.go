package controller

import (
	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// KeyframeDragger moves one keyframe along the time ruler while the pointer
// is held. It is idle until Press and returns to idle on Release or Cancel.
type KeyframeDragger struct {
	ed    *editor.Editor
	scale TimeScale

	dragging   bool
	id         timeline.KeyframeID
	originX    float64
	originTime float64
}

// NewKeyframeDragger creates an idle dragger.
func NewKeyframeDragger(ed *editor.Editor, scale TimeScale) *KeyframeDragger {
	return &KeyframeDragger{ed: ed, scale: scale}
}

// SetScale changes the ruler scale, for example after a zoom. A drag in
// progress keeps its origin.
func (d *KeyframeDragger) SetScale(s TimeScale) {
	d.scale = s
}

// Dragging reports whether a gesture is in progress.
func (d *KeyframeDragger) Dragging() bool {
	return d.dragging
}

// Active returns the keyframe being dragged.
func (d *KeyframeDragger) Active() (timeline.KeyframeID, bool) {
	return d.id, d.dragging
}

// Press starts a drag on keyframe id. An unselected keyframe first becomes
// the selection, or joins it when ctrl/cmd is held. A gesture still in
// progress, for example after a lost mouse-up, is released first.
func (d *KeyframeDragger) Press(id timeline.KeyframeID, p Pointer) bool {
	if d.dragging {
		system.Logger().Debug("keyframe drag released by new press", "keyframe", d.id)
		d.Release()
	}
	tl := d.ed.Timeline()
	k, ok := tl.Keyframe(id)
	if !ok {
		return false
	}
	if !tl.Selection.Contains(id) {
		d.ed.Select(id, p.Mods.Additive())
	}

	d.dragging = true
	d.id = id
	d.originX = p.X
	d.originTime = k.Time
	return true
}

// Move places the dragged keyframe under the pointer. Returns false when
// idle or when the track is locked.
func (d *KeyframeDragger) Move(p Pointer) bool {
	if !d.dragging {
		return false
	}
	return d.ed.Move(d.id, d.originTime, d.scale.Seconds(p.X-d.originX))
}

// Release ends the gesture and restores time order.
func (d *KeyframeDragger) Release() bool {
	if !d.dragging {
		return false
	}
	id := d.id
	d.reset()
	return d.ed.FinishMove(id)
}

// Cancel ends the gesture and puts the keyframe back where it started.
func (d *KeyframeDragger) Cancel() {
	if !d.dragging {
		return
	}
	id, orig := d.id, d.originTime
	d.reset()
	if d.ed.Move(id, orig, 0) {
		d.ed.FinishMove(id)
	}
	system.Logger().Debug("keyframe drag cancelled", "keyframe", id)
}

// DoubleClick deletes keyframe id without touching the selection first.
// Nothing happens on a locked track.
func (d *KeyframeDragger) DoubleClick(id timeline.KeyframeID) bool {
	if d.dragging && d.id == id {
		d.reset()
	}
	return d.ed.DeleteKeyframe(id)
}

func (d *KeyframeDragger) reset() {
	d.dragging = false
	d.id = ""
	d.originX, d.originTime = 0, 0
}
