package easing

import (
	"math"
	"testing"
)

func TestEaseEndpoints(t *testing.T) {
	for _, k := range []Kind{Linear, EaseIn, EaseOut, EaseInOut} {
		t.Run(string(k), func(t *testing.T) {
			if got := Ease(0, k); got != 0 {
				t.Errorf("Ease(0) = %f, want 0", got)
			}
			if got := Ease(1, k); math.Abs(got-1) > 1e-12 {
				t.Errorf("Ease(1) = %f, want 1", got)
			}
		})
	}
}

func TestEaseFormulas(t *testing.T) {
	tests := []struct {
		kind Kind
		t    float64
		want float64
	}{
		{Linear, 0.3, 0.3},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.75, 0.875},
		{Bounce, 0, 0},
		{Bounce, 1, 1},
		{Bounce, 0.5, 1 - 0.125*math.Abs(math.Cos(1.75*math.Pi))},
		{Elastic, 0, 0},
		{Elastic, 0.5, math.Pow(2, -5)*math.Sin(4.25*(2*math.Pi/3)) + 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := Ease(tt.t, tt.kind)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ease(%.2f, %s) = %f, want %f", tt.t, tt.kind, got, tt.want)
			}
		})
	}
}

func TestElasticOvershootIsKept(t *testing.T) {
	got := Ease(1, Elastic)
	if got <= 1 {
		t.Errorf("expected elastic overshoot at t=1, got %f", got)
	}
	t.Logf("elastic(1) = %.6f", got)
}

func TestEaseClampsInput(t *testing.T) {
	if got := Ease(-0.5, EaseIn); got != 0 {
		t.Errorf("Ease(-0.5) = %f, want 0", got)
	}
	if got := Ease(2, EaseOut); got != 1 {
		t.Errorf("Ease(2) = %f, want 1", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"linear", false},
		{"ease-in-out", false},
		{"elastic", false},
		{"easeInOut", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}

	if _, err := ParseInterpolation("cubic"); err != nil {
		t.Errorf("ParseInterpolation(cubic): %v", err)
	}
	if _, err := ParseInterpolation("hermite"); err == nil {
		t.Error("expected error for unknown interpolation")
	}
}

func TestCubicBezierValue(t *testing.T) {
	if got := CubicBezierValue(0, 2, 5, 7, 9); got != 2 {
		t.Errorf("t=0: got %f, want 2", got)
	}
	if got := CubicBezierValue(1, 2, 5, 7, 9); got != 9 {
		t.Errorf("t=1: got %f, want 9", got)
	}
	// Evenly spaced control values give a straight line.
	if got := CubicBezierValue(0.5, 0, 1, 2, 3); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("t=0.5: got %f, want 1.5", got)
	}
}

func TestSolveCubicX(t *testing.T) {
	out, in := Point{X: 0.42, Y: 0}, Point{X: 0.58, Y: 1}
	for _, x := range []float64{0, 0.1, 0.37, 0.5, 0.9, 1} {
		s := SolveCubicX(x, out, in)
		got := CubicBezierValue(s, 0, out.X, in.X, 1)
		if math.Abs(got-x) > 1e-6 {
			t.Errorf("x=%.2f: curve(%f) = %f", x, s, got)
		}
	}
}

func TestCubicSegmentDefaultHandlesAreLinear(t *testing.T) {
	for _, et := range []float64{0, 0.25, 0.5, 0.8, 1} {
		got := CubicSegment(et, 10, 20, DefaultTangentOut, DefaultTangentIn)
		want := 10 + 10*et
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("et=%.2f: got %f, want %f", et, got, want)
		}
	}
}

func TestCubicSegmentShapesValue(t *testing.T) {
	out, in := Point{X: 0.25, Y: 1.5}, Point{X: 0.75, Y: 1.5}
	got := CubicSegment(0.5, 0, 1, out, in)
	if got <= 1 {
		t.Errorf("expected handles above 1 to overshoot the end value, got %f", got)
	}
	if v := CubicSegment(1.1, 0, 1, out, in); math.Abs(v-1.1) > 1e-12 {
		t.Errorf("overshooting progress should extend linearly, got %f", v)
	}
}
