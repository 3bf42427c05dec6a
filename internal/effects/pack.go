package effects

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/document"
	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

type packDoc struct {
	Presets []presetDoc `yaml:"presets"`
}

type presetDoc struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Duration    float64      `yaml:"duration"`
	Channels    []channelDoc `yaml:"channels"`
}

type channelDoc struct {
	Property string    `yaml:"property"`
	Type     string    `yaml:"type"`
	Default  yaml.Node `yaml:"default"`
	Keys     []keyDoc  `yaml:"keys"`
}

type keyDoc struct {
	Time          float64       `yaml:"time"`
	Value         yaml.Node     `yaml:"value"`
	Easing        string        `yaml:"easing"`
	Interpolation string        `yaml:"interpolation"`
	TangentIn     *easing.Point `yaml:"tangentIn"`
	TangentOut    *easing.Point `yaml:"tangentOut"`
}

// LoadPresets reads a YAML preset pack.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	presets, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

// ParsePresets decodes a preset pack. Values follow the document value
// rules and enumerations must be known.
func ParsePresets(data []byte) ([]Preset, error) {
	var pack packDoc
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse preset pack: %w", err)
	}

	out := make([]Preset, 0, len(pack.Presets))
	for i, pd := range pack.Presets {
		p, err := pd.template(fmt.Sprintf("presets[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (pd presetDoc) template(path string) (*Template, error) {
	if pd.Name == "" {
		return nil, &document.ValidationError{Path: path + ".name", Reason: "missing required field"}
	}
	t := &Template{ID: pd.Name, Summary: pd.Description, Length: pd.Duration}

	for ci, cd := range pd.Channels {
		cpath := fmt.Sprintf("%s.channels[%d]", path, ci)
		typ, err := timeline.ParsePropertyType(cd.Type)
		if err != nil {
			return nil, &document.ValidationError{Path: cpath + ".type", Reason: err.Error()}
		}
		ch := Channel{Property: cd.Property, Type: typ}
		if cd.Default.Kind != 0 {
			if ch.Default, err = document.DecodeValue(cpath+".default", &cd.Default); err != nil {
				return nil, err
			}
			if err = document.CheckValue(cpath+".default", typ, ch.Default, nil); err != nil {
				return nil, err
			}
		}

		for ki, kd := range cd.Keys {
			kpath := fmt.Sprintf("%s.keys[%d]", cpath, ki)
			k := Key{Time: kd.Time, TangentIn: kd.TangentIn, TangentOut: kd.TangentOut}
			if k.Value, err = document.DecodeValue(kpath+".value", &kd.Value); err != nil {
				return nil, err
			}
			ref := ch.Default
			if ref == nil && len(ch.Keys) > 0 {
				ref = ch.Keys[0].Value
			}
			if err = document.CheckValue(kpath+".value", typ, k.Value, ref); err != nil {
				return nil, err
			}
			if kd.Easing != "" {
				if k.Easing, err = easing.ParseKind(kd.Easing); err != nil {
					return nil, &document.ValidationError{Path: kpath + ".easing", Reason: err.Error()}
				}
			}
			if kd.Interpolation != "" {
				if k.Interpolation, err = easing.ParseInterpolation(kd.Interpolation); err != nil {
					return nil, &document.ValidationError{Path: kpath + ".interpolation", Reason: err.Error()}
				}
			}
			if t.Length < k.Time {
				t.Length = k.Time
			}
			ch.Keys = append(ch.Keys, k)
		}
		if ch.Default == nil && len(ch.Keys) > 0 {
			ch.Default = ch.Keys[0].Value
		}
		t.Channel = append(t.Channel, ch)
	}
	return t, nil
}
