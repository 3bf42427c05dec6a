package renderer

import (
	"context"
	"math"
	"testing"

	"github.com/ivlev/cardmotion/internal/config"
	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

func keyframe(t float64, v timeline.Value, e easing.Kind, i easing.Interpolation) timeline.Keyframe {
	k := timeline.NewKeyframe(t, v)
	k.Easing = e
	k.Interpolation = i
	return k
}

func number(t *testing.T, v timeline.Value) float64 {
	t.Helper()
	n, ok := v.(timeline.Number)
	if !ok {
		t.Fatalf("expected number, got %s", timeline.ValueKind(v))
	}
	return float64(n)
}

func TestEvaluateStatic(t *testing.T) {
	p := timeline.NewProperty("opacity", timeline.TypeNumber, timeline.Number(0.7))
	for _, tm := range []float64{-1, 0, 3.5, 100} {
		if got := number(t, Evaluate(p, tm)); got != 0.7 {
			t.Errorf("no keyframes at %.1f: got %f, want 0.7", tm, got)
		}
	}

	p.Keyframes = []timeline.Keyframe{keyframe(2, timeline.Number(5), easing.Linear, easing.InterpLinear)}
	for _, tm := range []float64{0, 1.99, 2, 2.01, 50} {
		if got := number(t, Evaluate(p, tm)); got != 5 {
			t.Errorf("single keyframe at %.2f: got %f, want 5", tm, got)
		}
	}
}

func TestEvaluateLinear(t *testing.T) {
	p := timeline.NewProperty("x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.Linear, easing.InterpLinear),
		keyframe(2, timeline.Number(10), easing.Linear, easing.InterpLinear),
		keyframe(4, timeline.Number(20), easing.EaseIn, easing.InterpLinear),
		keyframe(6, timeline.Number(0), easing.Linear, easing.InterpLinear),
	}

	tests := []struct {
		time float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{1, 5},
		{2, 10},
		{3, 15},
		{5, 20 - 20*0.25}, // ease-in at half way
		{6, 0},
		{9, 0},
	}

	for _, tt := range tests {
		got := number(t, Evaluate(p, tt.time))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("at %.1f: got %f, want %f", tt.time, got, tt.want)
		}
	}
}

func TestEvaluateContinuousAtKeyframes(t *testing.T) {
	p := timeline.NewProperty("x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.EaseInOut, easing.InterpCubic),
		keyframe(1, timeline.Number(3), easing.Bounce, easing.InterpLinear),
		keyframe(2, timeline.Number(-1), easing.EaseOut, easing.InterpCubic),
		keyframe(3, timeline.Number(4), easing.Linear, easing.InterpLinear),
	}

	const eps = 1e-7
	for _, k := range p.Keyframes[1 : len(p.Keyframes)-1] {
		want := float64(k.Value.(timeline.Number))
		before := number(t, Evaluate(p, k.Time-eps))
		at := number(t, Evaluate(p, k.Time))
		after := number(t, Evaluate(p, k.Time+eps))
		for name, got := range map[string]float64{"before": before, "at": at, "after": after} {
			if math.Abs(got-want) > 1e-4 {
				t.Errorf("keyframe at %.0f, %s: got %f, want %f", k.Time, name, got, want)
			}
		}
	}
}

func TestEvaluateStep(t *testing.T) {
	p := timeline.NewProperty("x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(1), easing.Linear, easing.InterpStep),
		keyframe(1, timeline.Number(2), easing.Linear, easing.InterpStep),
	}
	if got := number(t, Evaluate(p, 0.999)); got != 1 {
		t.Errorf("before next keyframe: got %f, want 1", got)
	}
	if got := number(t, Evaluate(p, 1)); got != 2 {
		t.Errorf("at next keyframe: got %f, want 2", got)
	}
}

func TestEvaluateCategorical(t *testing.T) {
	p := timeline.NewProperty("face", timeline.TypeText, timeline.Categorical("front"))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Categorical("front"), easing.Elastic, easing.InterpCubic),
		keyframe(1, timeline.Categorical("back"), easing.Linear, easing.InterpLinear),
	}
	if got := Evaluate(p, 0.99); got != timeline.Categorical("front") {
		t.Errorf("got %v, want front", got)
	}
	if got := Evaluate(p, 1); got != timeline.Categorical("back") {
		t.Errorf("got %v, want back", got)
	}
}

func TestEvaluateVector(t *testing.T) {
	p := timeline.NewProperty("position", timeline.TypeVector, timeline.Vector{0, 0, 0})
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Vector{0, 10, -4}, easing.Linear, easing.InterpLinear),
		keyframe(2, timeline.Vector{2, 20, 4}, easing.Linear, easing.InterpLinear),
	}

	got, ok := Evaluate(p, 1).(timeline.Vector)
	if !ok {
		t.Fatal("expected vector")
	}
	want := timeline.Vector{1, 15, 0}
	if !timeline.EqualValues(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// The result must not alias keyframe storage.
	held := Evaluate(p, 5).(timeline.Vector)
	held[0] = 99
	if p.Keyframes[1].Value.(timeline.Vector)[0] != 2 {
		t.Error("evaluation result aliases keyframe value")
	}
}

func TestEvaluateCubicIsApplied(t *testing.T) {
	out := easing.Point{X: 0.1, Y: 0.9}
	in := easing.Point{X: 0.9, Y: 0.1}

	first := keyframe(0, timeline.Number(0), easing.EaseIn, easing.InterpCubic)
	first.TangentOut, first.TangentIn = &out, &in
	p := timeline.NewProperty("opacity", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		first,
		keyframe(1, timeline.Number(1), easing.EaseOut, easing.InterpCubic),
	}

	got := number(t, Evaluate(p, 0.5))
	et := easing.Ease(0.5, easing.EaseIn)
	s := easing.SolveCubicX(et, out, in)
	want := easing.CubicBezierValue(s, 0, out.Y, in.Y, 1)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %f, want cubic %f", got, want)
	}
	if math.Abs(got-0.5) < 1e-3 {
		t.Errorf("cubic evaluation collapsed to the linear blend: %f", got)
	}
	t.Logf("opacity(0.5) = %.6f", got)
}

func TestEvaluateUnsortedDuringDrag(t *testing.T) {
	p := timeline.NewProperty("x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.Linear, easing.InterpLinear),
		keyframe(12, timeline.Number(12), easing.Linear, easing.InterpLinear),
		keyframe(10, timeline.Number(10), easing.Linear, easing.InterpLinear),
	}
	if got := number(t, Evaluate(p, 11)); math.Abs(got-11) > 1e-9 {
		t.Errorf("got %f, want 11", got)
	}
	if p.Keyframes[1].Time != 12 {
		t.Error("Evaluate must not reorder the property")
	}
}

func TestSnapshotVisibility(t *testing.T) {
	tl := timeline.New(5)
	visible := tl.Tracks[0]
	op, _ := tl.AddProperty(visible.ID, "opacity", timeline.TypeNumber, timeline.Number(1))
	op.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.Linear, easing.InterpLinear),
		keyframe(2, timeline.Number(1), easing.Linear, easing.InterpLinear),
	}

	hidden := tl.AddTrack(timeline.NewTrack("Hidden", "#000"))
	hidden.Visible = false
	tl.AddProperty(hidden.ID, "secret", timeline.TypeNumber, timeline.Number(3))

	muted := tl.AddTrack(timeline.NewTrack("Muted", "#fff"))
	muted.Muted = true
	rot, _ := tl.AddProperty(muted.ID, "rotation-y", timeline.TypeNumber, timeline.Number(45))
	rot.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.Linear, easing.InterpLinear),
		keyframe(2, timeline.Number(180), easing.Linear, easing.InterpLinear),
	}

	fr := Snapshot(tl, 1)
	if len(fr.Values) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(fr.Values))
	}
	if _, ok := fr.Lookup("secret"); ok {
		t.Error("hidden track leaked into the frame")
	}
	if v, _ := fr.Lookup("opacity"); number(t, v) != 0.5 {
		t.Errorf("opacity: got %v, want 0.5", v)
	}
	if v, _ := fr.Lookup("rotation-y"); number(t, v) != 45 {
		t.Errorf("muted rotation-y: got %v, want static 45", v)
	}
}

func TestSampleTimes(t *testing.T) {
	times := SampleTimes(0, 1, 4)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(times) != len(want) {
		t.Fatalf("got %v, want %v", times, want)
	}
	for i := range want {
		if math.Abs(times[i]-want[i]) > 1e-12 {
			t.Errorf("times[%d] = %f, want %f", i, times[i], want[i])
		}
	}

	odd := SampleTimes(0, 1, 3)
	if last := odd[len(odd)-1]; last != 1 {
		t.Errorf("end time must be included, got %v", odd)
	}
}

func TestSampleRange(t *testing.T) {
	tl := timeline.New(4)
	p, _ := tl.AddProperty(tl.Tracks[0].ID, "x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.Linear, easing.InterpLinear),
		keyframe(4, timeline.Number(8), easing.Linear, easing.InterpLinear),
	}
	tl.CurrentTime = 1.5

	s, err := SampleRange(context.Background(), tl, config.ExportParams{Start: 1, End: 3, Rate: 2, Workers: 2})
	if err != nil {
		t.Fatalf("SampleRange failed: %v", err)
	}
	if len(s.Times) != 5 || len(s.Channels) != 1 {
		t.Fatalf("unexpected shape: %d times, %d channels", len(s.Times), len(s.Channels))
	}
	for i, tm := range s.Times {
		if got := number(t, s.Channels[0].Values[i]); math.Abs(got-2*tm) > 1e-9 {
			t.Errorf("at %.1f: got %f, want %f", tm, got, 2*tm)
		}
	}
	if tl.CurrentTime != 1.5 {
		t.Error("export changed live playback state")
	}

	if _, err := SampleRange(context.Background(), tl, config.ExportParams{Start: 3, End: 1, Rate: 2}); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSampleRangeCancelled(t *testing.T) {
	tl := timeline.New(4)
	tl.AddProperty(tl.Tracks[0].ID, "x", timeline.TypeNumber, timeline.Number(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SampleRange(ctx, tl, config.ExportParams{Start: 0, End: 4, Rate: 10}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestRenderCurve(t *testing.T) {
	p := timeline.NewProperty("x", timeline.TypeNumber, timeline.Number(0))
	p.Keyframes = []timeline.Keyframe{
		keyframe(0, timeline.Number(0), easing.EaseInOut, easing.InterpCubic),
		keyframe(2, timeline.Number(1), easing.Linear, easing.InterpLinear),
	}

	opts := DefaultCurveOptions(2)
	opts.Width, opts.Height = 120, 60
	img, err := RenderCurve(p, opts)
	if err != nil {
		t.Fatalf("RenderCurve failed: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 60 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	bg := opts.Background
	br, bgG, bb, _ := bg.RGBA()
	painted := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != br || g != bgG || b != bb {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("expected curve pixels on the canvas")
	}
	t.Logf("painted %d pixels", painted)

	text := timeline.NewProperty("face", timeline.TypeText, timeline.Categorical("front"))
	if _, err := RenderCurve(text, opts); err == nil {
		t.Error("expected error for categorical property")
	}
}
