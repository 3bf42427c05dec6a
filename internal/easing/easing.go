// Package easing maps normalized progress to shaped progress and evaluates
// the tangent-controlled cubic curves used by cubic keyframe segments.
//
// Every function here is pure. Bounce and elastic intentionally overshoot
// [0, 1]; callers must not clamp their output.
package easing

import (
	"fmt"
	"math"
)

// Kind selects the progress-shaping function between a keyframe and its successor.
type Kind string

const (
	Linear    Kind = "linear"
	EaseIn    Kind = "ease-in"
	EaseOut   Kind = "ease-out"
	EaseInOut Kind = "ease-in-out"
	Bounce    Kind = "bounce"
	Elastic   Kind = "elastic"
)

// Kinds lists every easing in wire order.
var Kinds = []Kind{Linear, EaseIn, EaseOut, EaseInOut, Bounce, Elastic}

// Interpolation governs whether tangent handles are honored for a segment.
type Interpolation string

const (
	InterpLinear Interpolation = "linear"
	InterpCubic  Interpolation = "cubic"
	InterpStep   Interpolation = "step"
)

// Interpolations lists every interpolation mode in wire order.
var Interpolations = []Interpolation{InterpLinear, InterpCubic, InterpStep}

// ParseKind validates a wire value. Unknown names are an error, never a default.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown easing %q", s)
}

// ParseInterpolation validates a wire value.
func ParseInterpolation(s string) (Interpolation, error) {
	for _, i := range Interpolations {
		if string(i) == s {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown interpolation %q", s)
}

// Valid reports whether k is one of the six closed easing kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// Valid reports whether i is one of the three closed interpolation modes.
func (i Interpolation) Valid() bool {
	_, err := ParseInterpolation(string(i))
	return err == nil
}

// Ease applies kind to progress t. t is clamped to [0, 1] first; the result
// is not clamped. Unknown kinds behave as Linear.
func Ease(t float64, kind Kind) float64 {
	t = clamp01(t)

	switch kind {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - pow(1-t, 2)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - pow(-2*t+2, 2)/2
	case Bounce:
		return 1 - pow(1-t, 3)*math.Abs(math.Cos(3.5*math.Pi*t))
	case Elastic:
		return math.Pow(2, -10*t)*math.Sin((10*t-0.75)*(2*math.Pi/3)) + 1
	default:
		return t
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// pow calculates x^n for small non-negative n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
