package renderer

import (
	"sort"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Evaluate returns the value of p at time t. It has no side effects and may
// be called at any time in any order, which scrubbing and curve previews
// rely on.
//
// Before the first keyframe the first value holds, after the last keyframe
// the last value holds. A property whose keyframes are out of order (in the
// middle of a drag gesture) is evaluated over a sorted copy.
func Evaluate(p *timeline.Property, t float64) timeline.Value {
	kfs := p.Keyframes
	switch len(kfs) {
	case 0:
		return timeline.CloneValue(p.Value)
	case 1:
		return timeline.CloneValue(kfs[0].Value)
	}

	if !p.Sorted() {
		kfs = sortedCopy(kfs)
	}

	if t <= kfs[0].Time {
		return timeline.CloneValue(kfs[0].Value)
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return timeline.CloneValue(last.Value)
	}

	// First keyframe strictly after t; its predecessor starts the segment.
	next := sort.Search(len(kfs), func(i int) bool { return kfs[i].Time > t })
	return interpolate(kfs[next-1], kfs[next], t)
}

func sortedCopy(kfs []timeline.Keyframe) []timeline.Keyframe {
	out := make([]timeline.Keyframe, len(kfs))
	copy(out, kfs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// interpolate evaluates the segment prev -> next at t, prev.Time <= t < next.Time.
func interpolate(prev, next timeline.Keyframe, t float64) timeline.Value {
	if prev.Interpolation == easing.InterpStep {
		return timeline.CloneValue(prev.Value)
	}

	progress := (t - prev.Time) / (next.Time - prev.Time)
	et := easing.Ease(progress, prev.Easing)

	switch pv := prev.Value.(type) {
	case timeline.Number:
		nv, ok := next.Value.(timeline.Number)
		if !ok {
			return pv
		}
		return timeline.Number(blend(float64(pv), float64(nv), et, prev))

	case timeline.Vector:
		nv, ok := next.Value.(timeline.Vector)
		if !ok {
			return timeline.CloneValue(pv)
		}
		out := make(timeline.Vector, len(pv))
		for i := range pv {
			if i < len(nv) {
				out[i] = blend(pv[i], nv[i], et, prev)
			} else {
				out[i] = pv[i]
			}
		}
		return out
	}

	// Categorical values hold until the next keyframe is reached.
	return timeline.CloneValue(prev.Value)
}

// blend mixes a toward b by eased progress et, through the keyframe's
// tangent handles when its segment is cubic.
func blend(a, b, et float64, prev timeline.Keyframe) float64 {
	if prev.Interpolation == easing.InterpCubic {
		out, in := prev.Handles()
		return easing.CubicSegment(et, a, b, out, in)
	}
	return lerp(a, b, et)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EvaluateNumber evaluates p and returns component c of a numeric result.
// ok is false for categorical values or an out-of-range component.
func EvaluateNumber(p *timeline.Property, t float64, c int) (v float64, ok bool) {
	return numericComponent(Evaluate(p, t), c)
}

func numericComponent(v timeline.Value, c int) (float64, bool) {
	switch x := v.(type) {
	case timeline.Number:
		return float64(x), c == 0
	case timeline.Vector:
		if c < 0 || c >= len(x) {
			return 0, false
		}
		return x[c], true
	}
	return 0, false
}
