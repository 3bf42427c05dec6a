package renderer

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/cardmotion/internal/config"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Channel holds the samples of one property over an exported range.
type Channel struct {
	Track    string           `yaml:"track"`
	Property string           `yaml:"property"`
	Values   []timeline.Value `yaml:"values"`
}

// Sampling is an offline evaluation of a timeline range.
type Sampling struct {
	Start    float64   `yaml:"start"`
	End      float64   `yaml:"end"`
	Rate     float64   `yaml:"rate"`
	Times    []float64 `yaml:"times"`
	Channels []Channel `yaml:"channels"`
}

// SampleTimes returns the sample instants for [start, end] at rate. The end
// time is always included.
func SampleTimes(start, end, rate float64) []float64 {
	n := int(math.Floor((end-start)*rate+1e-9)) + 1
	times := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		times = append(times, start+float64(i)/rate)
	}
	if last := times[len(times)-1]; end-last > 1e-9 {
		times = append(times, end)
	}
	return times
}

// SampleRange evaluates every property over params' range. The live
// timeline is only read to take a deep copy; evaluation runs on the copy,
// one goroutine per track.
func SampleRange(ctx context.Context, tl *timeline.Timeline, params config.ExportParams) (*Sampling, error) {
	if params.Rate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %v", params.Rate)
	}
	start := tl.ClampTime(params.Start)
	end := tl.ClampTime(params.End)
	if end < start {
		return nil, fmt.Errorf("invalid range [%.3f, %.3f]", params.Start, params.End)
	}

	tracks := tl.CloneTracks()
	times := SampleTimes(start, end, params.Rate)

	// Channel slots are laid out up front so each goroutine owns its range.
	offsets := make([]int, len(tracks))
	total := 0
	for i, tr := range tracks {
		offsets[i] = total
		if tr.Visible || params.IncludeHidden {
			total += len(tr.Properties)
		}
	}
	channels := make([]Channel, total)

	g, ctx := errgroup.WithContext(ctx)
	if params.Workers > 0 {
		g.SetLimit(params.Workers)
	}

	for i, tr := range tracks {
		if !tr.Visible && !params.IncludeHidden {
			continue
		}
		i, tr := i, tr
		g.Go(func() error {
			for j, p := range tr.Properties {
				ch := Channel{Track: tr.Name, Property: p.Name, Values: make([]timeline.Value, len(times))}
				for k, t := range times {
					if k%256 == 0 {
						if err := ctx.Err(); err != nil {
							return err
						}
					}
					if tr.Muted {
						ch.Values[k] = timeline.CloneValue(p.Value)
					} else {
						ch.Values[k] = Evaluate(p, t)
					}
				}
				channels[offsets[i]+j] = ch
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sample range: %w", err)
	}

	return &Sampling{
		Start:    start,
		End:      end,
		Rate:     params.Rate,
		Times:    times,
		Channels: channels,
	}, nil
}
