package editor

import (
	"sort"

	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Select makes id the selection, or adds it when additive (ctrl/cmd held).
// Unknown ids are ignored.
func (e *Editor) Select(id timeline.KeyframeID, additive bool) bool {
	if _, _, _, err := e.tl.Locate(id); err != nil {
		return false
	}
	if additive {
		e.tl.Selection.Add(id)
	} else {
		e.tl.Selection.Replace(id)
	}
	return true
}

// Deselect drops id from the selection.
func (e *Editor) Deselect(id timeline.KeyframeID) {
	e.tl.Selection.Remove(id)
}

// SelectAll selects every keyframe of property, replacing the selection.
func (e *Editor) SelectAll(property timeline.PropertyID) bool {
	p, _, err := e.tl.Property(property)
	if err != nil {
		return false
	}
	ids := make([]timeline.KeyframeID, len(p.Keyframes))
	for i, k := range p.Keyframes {
		ids[i] = k.ID
	}
	e.tl.Selection.Replace(ids...)
	return true
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.tl.Selection.Clear()
}

// Copy snapshots the selected keyframes into the clipboard, anchored at the
// earliest selected time, and returns how many were copied. With nothing
// selected the clipboard is left as it was.
func (e *Editor) Copy() int {
	var kfs []timeline.Keyframe
	for _, id := range e.tl.Selection.IDs() {
		if k, ok := e.tl.Keyframe(id); ok {
			kfs = append(kfs, k)
		}
	}
	if len(kfs) == 0 {
		return 0
	}

	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
	e.tl.Clipboard = timeline.Clipboard{
		Anchor:    kfs[0].Time,
		Keyframes: kfs,
	}
	return len(kfs)
}

// Paste inserts the clipboard into property so the anchor lands on target.
// Pasted keyframes get fresh ids and become the selection. A pasted
// keyframe landing exactly on an existing one overwrites its fields and
// keeps the existing id. The clipboard itself is never modified. Nothing is
// pasted when any clipboard value does not fit the property.
func (e *Editor) Paste(property timeline.PropertyID, target float64) ([]timeline.KeyframeID, bool) {
	p, track, err := e.tl.Property(property)
	if err != nil || !e.writable("paste", track) {
		return nil, false
	}
	cb := e.tl.Clipboard
	if cb.Empty() {
		return nil, false
	}
	for _, src := range cb.Keyframes {
		if !e.fits("paste", p, src.Value) {
			return nil, false
		}
	}
	if target < 0 {
		target = 0
	}

	ids := make([]timeline.KeyframeID, 0, len(cb.Keyframes))
	for _, src := range cb.Keyframes {
		k := src.Clone()
		k.Time = target + (src.Time - cb.Anchor)

		if i := p.IndexAtTime(k.Time); i >= 0 {
			k.ID = p.Keyframes[i].ID
			p.Keyframes[i] = k
		} else {
			k.ID = timeline.NewKeyframeID()
			p.Keyframes = append(p.Keyframes, k)
		}
		ids = append(ids, k.ID)
	}
	p.SortKeyframes()

	e.tl.Selection.Replace(ids...)
	system.Logger().Debug("pasted keyframes", "property", p.Name, "count", len(ids), "at", target)
	return ids, true
}
