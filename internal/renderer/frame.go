package renderer

import "github.com/ivlev/cardmotion/internal/timeline"

// Sample is one evaluated property in a frame.
type Sample struct {
	TrackID    timeline.TrackID
	PropertyID timeline.PropertyID
	Track      string
	Property   string
	Value      timeline.Value
}

// Frame is everything a render consumer needs for one tick: the evaluated
// value of every property on every visible track. What a property does
// visually is up to the consumer.
type Frame struct {
	Time   float64
	Values []Sample
}

// Consumer receives a frame once per tick.
type Consumer interface {
	Consume(Frame)
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(Frame)

func (f ConsumerFunc) Consume(fr Frame) { f(fr) }

// Snapshot evaluates the timeline at t. Invisible tracks are skipped; muted
// tracks report each property's static value.
func Snapshot(tl *timeline.Timeline, t float64) Frame {
	fr := Frame{Time: t}
	for _, tr := range tl.Tracks {
		if !tr.Visible {
			continue
		}
		for _, p := range tr.Properties {
			v := timeline.CloneValue(p.Value)
			if !tr.Muted {
				v = Evaluate(p, t)
			}
			fr.Values = append(fr.Values, Sample{
				TrackID:    tr.ID,
				PropertyID: p.ID,
				Track:      tr.Name,
				Property:   p.Name,
				Value:      v,
			})
		}
	}
	return fr
}

// Lookup returns the value of the first property named name.
func (f Frame) Lookup(name string) (timeline.Value, bool) {
	for _, s := range f.Values {
		if s.Property == name {
			return s.Value, true
		}
	}
	return nil, false
}
