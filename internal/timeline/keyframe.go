package timeline

import (
	"github.com/google/uuid"

	"github.com/ivlev/cardmotion/internal/easing"
)

// KeyframeID identifies a keyframe for selection and cross reference. It is
// stable across moves and unique within the process.
type KeyframeID string

// NewKeyframeID returns a fresh process-unique identifier.
func NewKeyframeID() KeyframeID {
	return KeyframeID(uuid.NewString())
}

// Default shaping for keyframes created by editing operations.
const (
	DefaultEasing        = easing.EaseInOut
	DefaultInterpolation = easing.InterpCubic
)

// Keyframe is a single timed sample of a property.
type Keyframe struct {
	ID            KeyframeID
	Time          float64 // seconds along the timeline, >= 0
	Value         Value
	Easing        easing.Kind          // shapes progress toward the next keyframe
	Interpolation easing.Interpolation // linear, cubic or step
	TangentIn     *easing.Point        // cubic only, handle arriving at the next keyframe
	TangentOut    *easing.Point        // cubic only, handle leaving this keyframe
}

// NewKeyframe creates a keyframe with a fresh id and default shaping.
func NewKeyframe(t float64, v Value) Keyframe {
	return Keyframe{
		ID:            NewKeyframeID(),
		Time:          t,
		Value:         v,
		Easing:        DefaultEasing,
		Interpolation: DefaultInterpolation,
	}
}

// Clone returns a deep copy, keeping the id.
func (k Keyframe) Clone() Keyframe {
	out := k
	out.Value = CloneValue(k.Value)
	if k.TangentIn != nil {
		p := *k.TangentIn
		out.TangentIn = &p
	}
	if k.TangentOut != nil {
		p := *k.TangentOut
		out.TangentOut = &p
	}
	return out
}

// Handles returns the segment handles, substituting the diagonal defaults
// for missing ones.
func (k Keyframe) Handles() (out, in easing.Point) {
	out, in = easing.DefaultTangentOut, easing.DefaultTangentIn
	if k.TangentOut != nil {
		out = *k.TangentOut
	}
	if k.TangentIn != nil {
		in = *k.TangentIn
	}
	return out, in
}
