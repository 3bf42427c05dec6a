// Package timeline holds the authoritative animation data model: a Timeline
// owns ordered tracks, tracks own properties, properties own keyframes kept
// in ascending time order.
//
// The model is not safe for concurrent use. One goroutine (the host event
// loop) owns a Timeline; see engine.Loop.
package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrTrackNotFound    = errors.New("track not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrKeyframeNotFound = errors.New("keyframe not found")
)

// Defaults for a fresh authoring session.
const (
	DefaultDuration  = 10.0
	DefaultFrameRate = 60.0
	DefaultTrackName = "Card"
)

// PlaybackState is the scheduler state stored on the timeline.
type PlaybackState string

const (
	Stopped PlaybackState = "stopped"
	Paused  PlaybackState = "paused"
	Playing PlaybackState = "playing"
)

// Timeline is the aggregate root of an authoring session.
type Timeline struct {
	Tracks []*Track

	CurrentTime float64 // 0 <= CurrentTime <= Duration
	Duration    float64
	State       PlaybackState
	FrameRate   float64 // export step sizing only
	Loop        bool

	Selection *Selection
	Clipboard Clipboard
}

// New creates a timeline with the given duration and one empty track.
// A non-positive duration uses DefaultDuration.
func New(duration float64) *Timeline {
	if duration <= 0 {
		duration = DefaultDuration
	}
	tl := &Timeline{
		Duration:  duration,
		State:     Stopped,
		FrameRate: DefaultFrameRate,
		Selection: NewSelection(),
	}
	tl.AddTrack(NewTrack(DefaultTrackName, "#4f8cff"))
	return tl
}

// AddTrack appends t and returns it.
func (tl *Timeline) AddTrack(t *Track) *Track {
	tl.Tracks = append(tl.Tracks, t)
	return t
}

// Track returns the track with id.
func (tl *Timeline) Track(id TrackID) (*Track, error) {
	for _, t := range tl.Tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}

// TrackByName returns the first track named name.
func (tl *Timeline) TrackByName(name string) (*Track, error) {
	for _, t := range tl.Tracks {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, name)
}

// AddProperty creates a property on the given track.
func (tl *Timeline) AddProperty(track TrackID, name string, typ PropertyType, def Value) (*Property, error) {
	t, err := tl.Track(track)
	if err != nil {
		return nil, err
	}
	return t.AddProperty(NewProperty(name, typ, def)), nil
}

// Property returns the property with id and its owning track.
func (tl *Timeline) Property(id PropertyID) (*Property, *Track, error) {
	for _, t := range tl.Tracks {
		for _, p := range t.Properties {
			if p.ID == id {
				return p, t, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
}

// Locate finds a keyframe anywhere in the timeline.
func (tl *Timeline) Locate(id KeyframeID) (*Property, *Track, int, error) {
	for _, t := range tl.Tracks {
		for _, p := range t.Properties {
			if i := p.IndexOf(id); i >= 0 {
				return p, t, i, nil
			}
		}
	}
	return nil, nil, -1, fmt.Errorf("%w: %s", ErrKeyframeNotFound, id)
}

// Keyframe returns a copy of the keyframe with id.
func (tl *Timeline) Keyframe(id KeyframeID) (Keyframe, bool) {
	p, _, i, err := tl.Locate(id)
	if err != nil {
		return Keyframe{}, false
	}
	return p.Keyframes[i].Clone(), true
}

// ClampTime limits t to [0, Duration].
func (tl *Timeline) ClampTime(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > tl.Duration {
		return tl.Duration
	}
	return t
}

// PruneSelection drops selected ids that no longer name a keyframe.
func (tl *Timeline) PruneSelection() {
	for _, id := range tl.Selection.IDs() {
		if _, _, _, err := tl.Locate(id); err != nil {
			tl.Selection.Remove(id)
		}
	}
}

// CloneTracks deep-copies the track tree for read-only use off the owning
// goroutine, for example by an exporter.
func (tl *Timeline) CloneTracks() []*Track {
	out := make([]*Track, len(tl.Tracks))
	for i, t := range tl.Tracks {
		out[i] = t.Clone()
	}
	return out
}

// Reset discards all tracks and session state and starts over with one track.
func (tl *Timeline) Reset(duration float64) {
	*tl = *New(duration)
}
