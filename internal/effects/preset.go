// Package effects holds animation presets: named keyframe templates applied
// to a track through the editing operations. Presets are data; the engine
// knows nothing about what a preset property does on screen.
package effects

import (
	"errors"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrTrackLocked   = errors.New("track is locked")
	ErrValueMismatch = errors.New("value does not fit property")
)

// Preset is a named keyframe template.
type Preset interface {
	Name() string
	Description() string
	// Duration is the template length the key times are authored against.
	Duration() float64
	Channels() []Channel
}

// Channel is the keyframes a preset writes into one property.
type Channel struct {
	Property string
	Type     timeline.PropertyType
	Default  timeline.Value
	Keys     []Key
}

// defaultValue is the static value of a property created for ch.
func (ch Channel) defaultValue() timeline.Value {
	if ch.Default == nil && len(ch.Keys) > 0 {
		return ch.Keys[0].Value
	}
	return ch.Default
}

// Key is one template keyframe. Zero shaping fields fall back to the
// editor defaults.
type Key struct {
	Time          float64
	Value         timeline.Value
	Easing        easing.Kind
	Interpolation easing.Interpolation
	TangentIn     *easing.Point
	TangentOut    *easing.Point
}

// Template is a Preset backed by plain data, as built in or loaded from a
// preset pack.
type Template struct {
	ID      string
	Summary string
	Length  float64
	Channel []Channel
}

func (t *Template) Name() string        { return t.ID }
func (t *Template) Description() string { return t.Summary }
func (t *Template) Duration() float64   { return t.Length }
func (t *Template) Channels() []Channel { return t.Channel }
