// Package document is the persistence boundary: a YAML wire format for a
// timeline's tracks, properties and keyframes. Loading fails fast with a
// *ValidationError on unknown enumerations, missing required fields and
// values that do not fit their property.
package document

import (
	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/easing"
)

// Version is the wire format version written and accepted.
const Version = "1.0"

// Document is the on-disk form of a timeline.
type Document struct {
	Version   string     `yaml:"version"`
	Duration  float64    `yaml:"duration"`
	FrameRate float64    `yaml:"frameRate,omitempty"`
	Loop      bool       `yaml:"loop,omitempty"`
	Tracks    []TrackDoc `yaml:"tracks"`
}

// TrackDoc is one persisted track.
type TrackDoc struct {
	ID         string        `yaml:"id,omitempty"`
	Name       string        `yaml:"name"`
	Color      string        `yaml:"color,omitempty"`
	Visible    *bool         `yaml:"visible,omitempty"`
	Locked     bool          `yaml:"locked,omitempty"`
	Muted      bool          `yaml:"muted,omitempty"`
	Expanded   *bool         `yaml:"expanded,omitempty"`
	Properties []PropertyDoc `yaml:"properties"`
}

// PropertyDoc is one persisted property. Value holds the raw node so the
// union can be decoded with a precise error path.
type PropertyDoc struct {
	ID        string        `yaml:"id,omitempty"`
	Name      string        `yaml:"name"`
	Type      string        `yaml:"type,omitempty"`
	Value     yaml.Node     `yaml:"value"`
	Min       *float64      `yaml:"min,omitempty"`
	Max       *float64      `yaml:"max,omitempty"`
	Step      *float64      `yaml:"step,omitempty"`
	Keyframes []KeyframeDoc `yaml:"keyframes"`
}

// KeyframeDoc is one persisted keyframe. Time, value, easing and
// interpolation are required.
type KeyframeDoc struct {
	ID            string        `yaml:"id,omitempty"`
	Time          *float64      `yaml:"time"`
	Value         yaml.Node     `yaml:"value"`
	Easing        string        `yaml:"easing"`
	Interpolation string        `yaml:"interpolation"`
	TangentIn     *easing.Point `yaml:"tangentIn,omitempty"`
	TangentOut    *easing.Point `yaml:"tangentOut,omitempty"`
}
