package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// DefaultCurveSamples is how many points a curve preview evaluates per redraw.
const DefaultCurveSamples = 100

// CurvePoint is one evaluated point of a value curve.
type CurvePoint struct {
	T float64
	V float64
}

// SampleCurve evaluates component c of p at n evenly spaced times over
// [from, to]. Categorical properties have no curve.
func SampleCurve(p *timeline.Property, from, to float64, n, c int) ([]CurvePoint, error) {
	if n < 2 {
		n = 2
	}
	if to <= from {
		return nil, fmt.Errorf("invalid curve range [%.3f, %.3f]", from, to)
	}

	pts := make([]CurvePoint, n)
	for i := range pts {
		t := from + (to-from)*float64(i)/float64(n-1)
		v, ok := EvaluateNumber(p, t, c)
		if !ok {
			return nil, fmt.Errorf("property %q has no numeric component %d", p.Name, c)
		}
		pts[i] = CurvePoint{T: t, V: v}
	}
	return pts, nil
}

// CurveOptions controls RenderCurve.
type CurveOptions struct {
	Width, Height int
	From, To      float64
	Samples       int
	Component     int
	LineWidth     float32
	Background    color.Color
	Line          color.Color
	Marker        color.Color
}

// DefaultCurveOptions draws the whole timeline on an 800x300 canvas.
func DefaultCurveOptions(duration float64) CurveOptions {
	return CurveOptions{
		Width:      800,
		Height:     300,
		From:       0,
		To:         duration,
		Samples:    DefaultCurveSamples,
		LineWidth:  2,
		Background: color.RGBA{R: 24, G: 26, B: 32, A: 255},
		Line:       color.RGBA{R: 79, G: 140, B: 255, A: 255},
		Marker:     color.RGBA{R: 255, G: 196, B: 0, A: 255},
	}
}

// RenderCurve rasterizes the value curve of p with a diamond on every
// keyframe inside the range. The image comes from the shared pool; hand it
// back with system.PutImage once encoded.
func RenderCurve(p *timeline.Property, opts CurveOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", opts.Width, opts.Height)
	}
	pts, err := SampleCurve(p, opts.From, opts.To, opts.Samples, opts.Component)
	if err != nil {
		return nil, err
	}

	lo, hi := pts[0].V, pts[0].V
	for _, pt := range pts {
		lo = math.Min(lo, pt.V)
		hi = math.Max(hi, pt.V)
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.1
	lo, hi = lo-pad, hi+pad

	w, h := float64(opts.Width), float64(opts.Height)
	toPx := func(t, v float64) (float32, float32) {
		x := (t - opts.From) / (opts.To - opts.From) * (w - 1)
		y := (1 - (v-lo)/(hi-lo)) * (h - 1)
		return float32(x), float32(y)
	}

	img := system.GetImage(opts.Width, opts.Height)
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	r := vector.NewRasterizer(opts.Width, opts.Height)
	for i := 1; i < len(pts); i++ {
		x0, y0 := toPx(pts[i-1].T, pts[i-1].V)
		x1, y1 := toPx(pts[i].T, pts[i].V)
		strokeSegment(r, x0, y0, x1, y1, opts.LineWidth)
	}
	r.Draw(img, img.Bounds(), image.NewUniform(opts.Line), image.Point{})

	r.Reset(opts.Width, opts.Height)
	markers := 0
	for _, k := range p.Keyframes {
		if k.Time < opts.From || k.Time > opts.To {
			continue
		}
		v, ok := EvaluateNumber(p, k.Time, opts.Component)
		if !ok {
			continue
		}
		x, y := toPx(k.Time, v)
		diamond(r, x, y, 5)
		markers++
	}
	if markers > 0 {
		r.Draw(img, img.Bounds(), image.NewUniform(opts.Marker), image.Point{})
	}

	return img, nil
}

// strokeSegment adds a line segment of the given width as a closed quad.
func strokeSegment(r *vector.Rasterizer, x0, y0, x1, y1, width float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
}

func diamond(r *vector.Rasterizer, x, y, size float32) {
	r.MoveTo(x, y-size)
	r.LineTo(x+size, y)
	r.LineTo(x, y+size)
	r.LineTo(x-size, y)
	r.ClosePath()
}
