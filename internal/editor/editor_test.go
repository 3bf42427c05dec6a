package editor

import (
	"reflect"
	"testing"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

func newTestEditor(duration float64) (*Editor, *timeline.Property) {
	tl := timeline.New(duration)
	p, err := tl.AddProperty(tl.Tracks[0].ID, "opacity", timeline.TypeNumber, timeline.Number(1))
	if err != nil {
		panic(err)
	}
	return New(tl), p
}

func times(p *timeline.Property) []float64 {
	out := make([]float64, len(p.Keyframes))
	for i, k := range p.Keyframes {
		out[i] = k.Time
	}
	return out
}

func TestAddDefaultsAndOrder(t *testing.T) {
	e, p := newTestEditor(10)

	e.Add(p.ID, 5, timeline.Number(0.5))
	e.Add(p.ID, 1, timeline.Number(0.1))
	id, ok := e.Add(p.ID, -3, timeline.Number(0))
	if !ok {
		t.Fatal("add failed")
	}

	if got, want := times(p), []float64{0, 1, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("times = %v, want %v", got, want)
	}
	k, _ := e.Timeline().Keyframe(id)
	if k.Easing != easing.EaseInOut || k.Interpolation != easing.InterpCubic {
		t.Errorf("defaults = %s/%s", k.Easing, k.Interpolation)
	}
}

func TestAddIsIdempotentAtSameTime(t *testing.T) {
	e, p := newTestEditor(10)

	a, _ := e.Add(p.ID, 2, timeline.Number(1))
	b, _ := e.Add(p.ID, 2, timeline.Number(7))

	if a != b {
		t.Errorf("expected same id, got %s and %s", a, b)
	}
	if len(p.Keyframes) != 1 {
		t.Fatalf("expected 1 keyframe, got %d", len(p.Keyframes))
	}
	if p.Keyframes[0].Value != timeline.Number(7) {
		t.Errorf("value = %v, want 7", p.Keyframes[0].Value)
	}
}

func TestLockedTrackIsUntouched(t *testing.T) {
	e, p := newTestEditor(10)
	id, _ := e.Add(p.ID, 1, timeline.Number(0))
	e.Add(p.ID, 4, timeline.Number(1))
	e.Select(id, false)
	e.Copy()

	e.Timeline().Tracks[0].Locked = true
	before := p.Clone()

	if _, ok := e.Add(p.ID, 2, timeline.Number(3)); ok {
		t.Error("add on locked track reported success")
	}
	if e.Move(id, 1, 2) {
		t.Error("move on locked track reported success")
	}
	if e.Delete(p.ID, id) {
		t.Error("delete on locked track reported success")
	}
	if _, ok := e.Paste(p.ID, 6); ok {
		t.Error("paste on locked track reported success")
	}
	ez := easing.Bounce
	if n := e.Update([]timeline.KeyframeID{id}, Patch{Easing: &ez}); n != 0 {
		t.Errorf("update changed %d keyframes", n)
	}

	if !reflect.DeepEqual(before, p) {
		t.Error("locked property changed")
	}
}

func TestValueMustFitPropertyType(t *testing.T) {
	e, p := newTestEditor(10)
	id, _ := e.Add(p.ID, 1, timeline.Number(0))

	if _, ok := e.Add(p.ID, 2, timeline.Categorical("high")); ok {
		t.Error("text value added to number property")
	}
	if _, ok := e.Add(p.ID, 3, timeline.Vector{1, 2}); ok {
		t.Error("vector value added to number property")
	}
	if n := e.Update([]timeline.KeyframeID{id}, Patch{Value: timeline.Categorical("high")}); n != 0 {
		t.Errorf("update stored a text value in %d keyframes", n)
	}
	if len(p.Keyframes) != 1 || p.Keyframes[0].Value != timeline.Number(0) {
		t.Errorf("keyframes = %+v", p.Keyframes)
	}

	pos, _ := e.Timeline().AddProperty(e.Timeline().Tracks[0].ID, "position", timeline.TypeVector, timeline.Vector{0, 0, 0})
	if _, ok := e.Add(pos.ID, 1, timeline.Vector{1, 2}); ok {
		t.Error("short vector added to 3-component property")
	}
	if _, ok := e.Add(pos.ID, 1, timeline.Vector{1, 2, 3}); !ok {
		t.Error("matching vector rejected")
	}

	// A number clipboard cannot land in a vector property.
	e.Select(id, false)
	e.Copy()
	if _, ok := e.Paste(pos.ID, 5); ok {
		t.Error("number keyframes pasted into vector property")
	}
	if len(pos.Keyframes) != 1 {
		t.Errorf("vector property has %d keyframes", len(pos.Keyframes))
	}
}

func TestDeleteDeselects(t *testing.T) {
	e, p := newTestEditor(10)
	id, _ := e.Add(p.ID, 1, timeline.Number(0))
	e.Select(id, false)

	if !e.Delete(p.ID, id) {
		t.Fatal("delete failed")
	}
	if e.Timeline().Selection.Contains(id) {
		t.Error("deleted keyframe is still selected")
	}
	if e.Delete(p.ID, id) {
		t.Error("second delete should report false")
	}
}

func TestMoveThenFinish(t *testing.T) {
	e, p := newTestEditor(20)
	e.Add(p.ID, 0, timeline.Number(0))
	mid, _ := e.Add(p.ID, 5, timeline.Number(1))
	e.Add(p.ID, 10, timeline.Number(2))

	if !e.Move(mid, 5, 7) {
		t.Fatal("move failed")
	}
	// Index is stable while the drag is in flight.
	if p.Keyframes[1].ID != mid || p.Keyframes[1].Time != 12 {
		t.Errorf("mid-drag keyframe = %+v", p.Keyframes[1])
	}

	e.FinishMove(mid)
	if got, want := times(p), []float64{0, 10, 12}; !reflect.DeepEqual(got, want) {
		t.Errorf("times = %v, want %v", got, want)
	}
}

func TestMoveClampsToDuration(t *testing.T) {
	e, p := newTestEditor(10)
	id, _ := e.Add(p.ID, 5, timeline.Number(0))

	e.Move(id, 5, 100)
	if p.Keyframes[0].Time != 10 {
		t.Errorf("expected clamp to 10, got %f", p.Keyframes[0].Time)
	}
	e.Move(id, 5, -100)
	if p.Keyframes[0].Time != 0 {
		t.Errorf("expected clamp to 0, got %f", p.Keyframes[0].Time)
	}
}

func TestFinishMoveSeparatesCollision(t *testing.T) {
	e, p := newTestEditor(10)
	e.Add(p.ID, 2, timeline.Number(0))
	id, _ := e.Add(p.ID, 4, timeline.Number(1))

	e.Move(id, 4, -2)
	e.FinishMove(id)

	if !p.Sorted() {
		t.Fatalf("times not strictly increasing: %v", times(p))
	}
	if p.Keyframes[0].Time != 2 || p.Keyframes[1].ID != id {
		t.Errorf("moved keyframe should be the one nudged: %v", times(p))
	}
}

func TestSelection(t *testing.T) {
	e, p := newTestEditor(10)
	a, _ := e.Add(p.ID, 1, timeline.Number(0))
	b, _ := e.Add(p.ID, 2, timeline.Number(0))

	e.Select(a, false)
	e.Select(b, false)
	if got := e.Timeline().Selection.IDs(); !reflect.DeepEqual(got, []timeline.KeyframeID{b}) {
		t.Errorf("plain click should replace selection, got %v", got)
	}

	e.Select(a, true)
	if e.Timeline().Selection.Len() != 2 {
		t.Errorf("additive click should extend selection")
	}

	e.ClearSelection()
	e.SelectAll(p.ID)
	if e.Timeline().Selection.Len() != 2 {
		t.Errorf("select all = %d", e.Timeline().Selection.Len())
	}

	if e.Select("missing", false) {
		t.Error("selecting an unknown id should fail")
	}
}

func TestCopyPastePreservesOffsets(t *testing.T) {
	e, p := newTestEditor(20)
	a, _ := e.Add(p.ID, 1, timeline.Number(0))
	b, _ := e.Add(p.ID, 2.5, timeline.Number(1))
	e.Select(b, false)
	e.Select(a, true)

	if n := e.Copy(); n != 2 {
		t.Fatalf("copied %d", n)
	}
	clip := e.Timeline().Clipboard
	if clip.Anchor != 1 {
		t.Errorf("anchor = %f", clip.Anchor)
	}

	ids, ok := e.Paste(p.ID, 10)
	if !ok || len(ids) != 2 {
		t.Fatalf("paste = %v, %v", ids, ok)
	}
	if got, want := times(p), []float64{1, 2.5, 10, 11.5}; !reflect.DeepEqual(got, want) {
		t.Errorf("times = %v, want %v", got, want)
	}
	for _, id := range ids {
		if id == a || id == b {
			t.Errorf("pasted keyframe reused id %s", id)
		}
	}

	// Clipboard is a snapshot, untouched by paste or later edits.
	e.Delete(p.ID, a)
	if !reflect.DeepEqual(e.Timeline().Clipboard, clip) {
		t.Error("clipboard changed")
	}
	e.Paste(p.ID, 15)
	if len(p.Keyframes) != 5 {
		t.Errorf("expected 5 keyframes after second paste, got %d", len(p.Keyframes))
	}
}

func TestPasteOverwritesAtSameTime(t *testing.T) {
	e, p := newTestEditor(10)
	a, _ := e.Add(p.ID, 1, timeline.Number(5))
	existing, _ := e.Add(p.ID, 3, timeline.Number(0))
	e.Select(a, false)
	e.Copy()

	ids, _ := e.Paste(p.ID, 3)
	if len(p.Keyframes) != 2 {
		t.Fatalf("expected overwrite, got %v", times(p))
	}
	if ids[0] != existing || p.Keyframes[1].Value != timeline.Number(5) {
		t.Errorf("overwrite kept wrong id or value: %+v", p.Keyframes[1])
	}
}

func TestUpdateSelected(t *testing.T) {
	e, p := newTestEditor(10)
	e.Add(p.ID, 1, timeline.Number(0))
	e.Add(p.ID, 2, timeline.Number(1))
	e.SelectAll(p.ID)

	step := easing.InterpStep
	if n := e.UpdateSelected(Patch{Interpolation: &step}); n != 2 {
		t.Fatalf("updated %d", n)
	}
	for _, k := range p.Keyframes {
		if k.Interpolation != easing.InterpStep {
			t.Errorf("keyframe %s not updated", k.ID)
		}
	}

	bad := easing.Kind("wobble")
	if n := e.UpdateSelected(Patch{Easing: &bad}); n != 0 {
		t.Errorf("unknown easing should be rejected, updated %d", n)
	}
}

func TestUpdateTimeResorts(t *testing.T) {
	e, p := newTestEditor(10)
	a, _ := e.Add(p.ID, 1, timeline.Number(0))
	e.Add(p.ID, 2, timeline.Number(1))

	to := 8.0
	e.Update([]timeline.KeyframeID{a}, Patch{Time: &to})
	if got, want := times(p), []float64{2, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("times = %v, want %v", got, want)
	}
}

func TestDeleteSelectedSkipsLocked(t *testing.T) {
	e, p := newTestEditor(10)
	tl := e.Timeline()
	other := tl.AddTrack(timeline.NewTrack("Back", "#ff0000"))
	q, _ := tl.AddProperty(other.ID, "rotationY", timeline.TypeNumber, timeline.Number(0))

	e.Add(p.ID, 1, timeline.Number(0))
	lockedID, _ := e.Add(q.ID, 1, timeline.Number(0))
	other.Locked = true

	e.SelectAll(p.ID)
	e.Select(lockedID, true)
	if n := e.DeleteSelected(); n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if !tl.Selection.Contains(lockedID) || len(q.Keyframes) != 1 {
		t.Error("locked keyframe should survive and stay selected")
	}
}

func TestTimeDelta(t *testing.T) {
	if got := TimeDelta(200, 100, 2); got != 1 {
		t.Errorf("TimeDelta = %f", got)
	}
	if got := TimeDelta(200, 0, 1); got != 0 {
		t.Errorf("zero scale should yield 0, got %f", got)
	}
}
