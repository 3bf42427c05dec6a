package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the payload of a keyframe or a property default. It is a closed
// union: Number, Vector or Categorical.
type Value interface {
	isValue()
	String() string
}

// Number is a scalar numeric value.
type Number float64

// Vector is a fixed-length numeric vector, interpolated per component.
type Vector []float64

// Categorical is a string value. It is held but never interpolated.
type Categorical string

func (Number) isValue()      {}
func (Vector) isValue()      {}
func (Categorical) isValue() {}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (c Categorical) String() string {
	return string(c)
}

// CloneValue returns a copy that shares no memory with v.
func CloneValue(v Value) Value {
	if vec, ok := v.(Vector); ok {
		out := make(Vector, len(vec))
		copy(out, vec)
		return out
	}
	return v
}

// EqualValues compares two values by kind and content.
func EqualValues(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Categorical:
		bv, ok := b.(Categorical)
		return ok && av == bv
	case Vector:
		bv, ok := b.(Vector)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	}
	return false
}

// ValueKind names the union member of v for messages and validation.
func ValueKind(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case Vector:
		return "vector"
	case Categorical:
		return "categorical"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", v)
	}
}
