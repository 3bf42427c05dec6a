package easing

import "math"

// Point is a tangent handle in the unit square of a segment: X is normalized
// time, Y is normalized value (0 = segment start value, 1 = segment end value).
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Default handles place the control points on the diagonal, which makes the
// cubic segment reproduce its eased progress exactly.
var (
	DefaultTangentOut = Point{X: 1.0 / 3.0, Y: 1.0 / 3.0}
	DefaultTangentIn  = Point{X: 2.0 / 3.0, Y: 2.0 / 3.0}
)

// CubicBezierValue evaluates the one-dimensional cubic Bezier with control
// values p0..p3 at parameter t.
func CubicBezierValue(t, p0, p1, p2, p3 float64) float64 {
	mt := 1 - t
	return mt*mt*mt*p0 + 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t*p3
}

// cubicBezierSlope is the derivative of CubicBezierValue with respect to t.
func cubicBezierSlope(t, p0, p1, p2, p3 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*(p1-p0) + 6*mt*t*(p2-p1) + 3*t*t*(p3-p2)
}

// SolveCubicX finds the curve parameter whose X coordinate equals x for the
// timing curve (0,0) out in (1,1). Handle X values are clamped to [0, 1] so
// the curve stays monotonic in X and the solution is unique.
func SolveCubicX(x float64, out, in Point) float64 {
	x = clamp01(x)
	x1, x2 := clamp01(out.X), clamp01(in.X)

	// Newton first, it converges in a few steps for well-behaved handles.
	s := x
	for i := 0; i < 8; i++ {
		err := CubicBezierValue(s, 0, x1, x2, 1) - x
		if math.Abs(err) < 1e-7 {
			return s
		}
		d := cubicBezierSlope(s, 0, x1, x2, 1)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= err / d
		if s < 0 || s > 1 {
			break
		}
	}

	// Bisection fallback for flat regions.
	lo, hi := 0.0, 1.0
	s = x
	for i := 0; i < 64; i++ {
		v := CubicBezierValue(s, 0, x1, x2, 1)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

// CubicSegment evaluates a tangent-shaped segment from v0 to v1 at eased
// progress et. The handles' Y values are scaled into the value range, so the
// curve shapes the value itself and may leave [v0, v1]. Overshooting
// progress (bounce, elastic) continues linearly past the nearest endpoint.
func CubicSegment(et, v0, v1 float64, out, in Point) float64 {
	delta := v1 - v0
	if et < 0 {
		return v0 + delta*et
	}
	if et > 1 {
		return v1 + delta*(et-1)
	}
	s := SolveCubicX(et, out, in)
	return CubicBezierValue(s, v0, v0+delta*out.Y, v0+delta*in.Y, v1)
}
