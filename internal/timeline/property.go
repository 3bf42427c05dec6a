package timeline

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// CollisionNudge is how far a moved keyframe is pushed off an occupied time.
const CollisionNudge = 1e-4

// PropertyID identifies a property across the whole timeline.
type PropertyID string

// PropertyType is a display and validation hint for the value kind.
type PropertyType string

const (
	TypeAny    PropertyType = ""
	TypeNumber PropertyType = "number"
	TypeVector PropertyType = "vector"
	TypeColor  PropertyType = "color"
	TypeText   PropertyType = "text"
)

// ParsePropertyType validates a wire value.
func ParsePropertyType(s string) (PropertyType, error) {
	switch t := PropertyType(s); t {
	case TypeAny, TypeNumber, TypeVector, TypeColor, TypeText:
		return t, nil
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// Accepts reports whether v is a valid keyframe value for a property of type t.
func (t PropertyType) Accepts(v Value) bool {
	switch t {
	case TypeNumber:
		_, ok := v.(Number)
		return ok
	case TypeVector, TypeColor:
		_, ok := v.(Vector)
		return ok
	case TypeText:
		_, ok := v.(Categorical)
		return ok
	}
	return v != nil
}

// Property is a named animation channel with an ordered set of keyframes.
// Zero keyframes leave it static at Value.
type Property struct {
	ID    PropertyID
	Name  string
	Type  PropertyType
	Value Value // default, or last evaluated

	// Editing hints, not enforced on stored values.
	Min, Max, Step *float64

	Keyframes []Keyframe
}

// NewProperty creates an empty property with a fresh id.
func NewProperty(name string, typ PropertyType, def Value) *Property {
	return &Property{
		ID:    PropertyID(uuid.NewString()),
		Name:  name,
		Type:  typ,
		Value: def,
	}
}

// Fits reports whether v can be stored in p: the kind must match the
// property type and vectors must have as many components as the default.
func (p *Property) Fits(v Value) bool {
	if !p.Type.Accepts(v) {
		return false
	}
	vec, ok := v.(Vector)
	def, dok := p.Value.(Vector)
	return !ok || !dok || len(vec) == len(def)
}

// IndexOf returns the index of keyframe id, or -1.
func (p *Property) IndexOf(id KeyframeID) int {
	for i := range p.Keyframes {
		if p.Keyframes[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexAtTime returns the index of the keyframe at exactly t, or -1.
func (p *Property) IndexAtTime(t float64) int {
	for i := range p.Keyframes {
		if p.Keyframes[i].Time == t {
			return i
		}
	}
	return -1
}

// Sorted reports whether keyframes are in strictly ascending time order.
func (p *Property) Sorted() bool {
	for i := 1; i < len(p.Keyframes); i++ {
		if p.Keyframes[i].Time <= p.Keyframes[i-1].Time {
			return false
		}
	}
	return true
}

// SortKeyframes restores ascending time order. Ties keep insertion order.
func (p *Property) SortKeyframes() {
	sort.SliceStable(p.Keyframes, func(i, j int) bool {
		return p.Keyframes[i].Time < p.Keyframes[j].Time
	})
}

// Normalize sorts keyframes and separates exact time collisions, returning
// how many keyframes were nudged. When moved collides it is the one pushed;
// otherwise the later keyframe in slice order is. Nudged keyframes go forward
// by CollisionNudge steps, or backward when forward would pass limit.
// A limit <= 0 means unbounded.
func (p *Property) Normalize(moved KeyframeID, limit float64) int {
	p.SortKeyframes()
	nudged := 0
	for i := 1; i < len(p.Keyframes); i++ {
		if p.Keyframes[i].Time != p.Keyframes[i-1].Time {
			continue
		}
		victim := i
		if p.Keyframes[i-1].ID == moved {
			victim = i - 1
		}
		p.Keyframes[victim].Time = p.freeTimeNear(p.Keyframes[victim].Time, limit)
		nudged++
		p.SortKeyframes()
		i = 0
	}
	return nudged
}

func (p *Property) freeTimeNear(t, limit float64) float64 {
	for n := 1; ; n++ {
		c := t + CollisionNudge*float64(n)
		if limit > 0 && c > limit {
			break
		}
		if p.IndexAtTime(c) < 0 {
			return c
		}
	}
	for n := 1; ; n++ {
		c := t - CollisionNudge*float64(n)
		if c < 0 {
			// Fully packed down to zero; fall back past the limit.
			return p.freeTimeNear(t, 0)
		}
		if p.IndexAtTime(c) < 0 {
			return c
		}
	}
}

// Clone returns a deep copy, keeping ids.
func (p *Property) Clone() *Property {
	out := *p
	out.Value = CloneValue(p.Value)
	out.Min = cloneFloat(p.Min)
	out.Max = cloneFloat(p.Max)
	out.Step = cloneFloat(p.Step)
	out.Keyframes = make([]Keyframe, len(p.Keyframes))
	for i, k := range p.Keyframes {
		out.Keyframes[i] = k.Clone()
	}
	return &out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
