package timeline

import "github.com/google/uuid"

// TrackID identifies a track.
type TrackID string

// Track groups properties that share a color and editing state.
type Track struct {
	ID    TrackID
	Name  string
	Color string

	Visible  bool // invisible tracks are left out of rendered frames
	Locked   bool // locked tracks reject every keyframe mutation
	Muted    bool // muted tracks render their properties' static values
	Expanded bool // UI only

	Properties []*Property
}

// NewTrack creates a visible, unlocked track with a fresh id.
func NewTrack(name, color string) *Track {
	return &Track{
		ID:       TrackID(uuid.NewString()),
		Name:     name,
		Color:    color,
		Visible:  true,
		Expanded: true,
	}
}

// AddProperty appends p to the track and returns it.
func (t *Track) AddProperty(p *Property) *Property {
	t.Properties = append(t.Properties, p)
	return p
}

// PropertyByName returns the first property named name, or nil.
func (t *Track) PropertyByName(name string) *Property {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy, keeping ids.
func (t *Track) Clone() *Track {
	out := *t
	out.Properties = make([]*Property, len(t.Properties))
	for i, p := range t.Properties {
		out.Properties[i] = p.Clone()
	}
	return &out
}
