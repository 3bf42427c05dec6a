package effects

import (
	"fmt"
	"sort"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

var builtins = map[string]func() Preset{
	"fade-in": func() Preset {
		return &Template{
			ID: "fade-in", Summary: "opacity 0 to 1", Length: 1,
			Channel: []Channel{number("opacity", 1,
				Key{Time: 0, Value: timeline.Number(0), Easing: easing.EaseOut},
				Key{Time: 1, Value: timeline.Number(1)},
			)},
		}
	},
	"fade-out": func() Preset {
		return &Template{
			ID: "fade-out", Summary: "opacity 1 to 0", Length: 1,
			Channel: []Channel{number("opacity", 1,
				Key{Time: 0, Value: timeline.Number(1), Easing: easing.EaseIn},
				Key{Time: 1, Value: timeline.Number(0)},
			)},
		}
	},
	"spin-y": func() Preset {
		return &Template{
			ID: "spin-y", Summary: "full turn around the vertical axis", Length: 2,
			Channel: []Channel{number("rotation-y", 0,
				Key{Time: 0, Value: timeline.Number(0), Easing: easing.Linear, Interpolation: easing.InterpLinear},
				Key{Time: 2, Value: timeline.Number(360)},
			)},
		}
	},
	"float": func() Preset {
		return &Template{
			ID: "float", Summary: "gentle vertical bob", Length: 2,
			Channel: []Channel{number("position-y", 0,
				Key{Time: 0, Value: timeline.Number(0)},
				Key{Time: 1, Value: timeline.Number(0.2)},
				Key{Time: 2, Value: timeline.Number(0)},
			)},
		}
	},
	"pulse": func() Preset {
		return &Template{
			ID: "pulse", Summary: "scale up and back", Length: 1,
			Channel: []Channel{{
				Property: "scale", Type: timeline.TypeVector, Default: timeline.Vector{1, 1, 1},
				Keys: []Key{
					{Time: 0, Value: timeline.Vector{1, 1, 1}, Easing: easing.EaseOut},
					{Time: 0.5, Value: timeline.Vector{1.1, 1.1, 1.1}, Easing: easing.EaseIn},
					{Time: 1, Value: timeline.Vector{1, 1, 1}},
				},
			}},
		}
	},
	"card-flip": func() Preset {
		return &Template{
			ID: "card-flip", Summary: "flip to the back face with a slight overshoot", Length: 1.2,
			Channel: []Channel{
				number("rotation-y", 0,
					Key{
						Time: 0, Value: timeline.Number(0), Easing: easing.Linear,
						TangentOut: &easing.Point{X: 0.4, Y: 0},
						TangentIn:  &easing.Point{X: 0.7, Y: 1.15},
					},
					Key{Time: 1.2, Value: timeline.Number(180)},
				),
				{
					Property: "face", Type: timeline.TypeText, Default: timeline.Categorical("front"),
					Keys: []Key{
						{Time: 0, Value: timeline.Categorical("front"), Interpolation: easing.InterpStep},
						{Time: 0.6, Value: timeline.Categorical("back"), Interpolation: easing.InterpStep},
					},
				},
			},
		}
	},
}

func number(name string, def float64, keys ...Key) Channel {
	return Channel{Property: name, Type: timeline.TypeNumber, Default: timeline.Number(def), Keys: keys}
}

// NewPreset returns the built-in preset called name.
func NewPreset(name string) (Preset, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return mk(), nil
}

// BuiltinNames lists the built-in presets in name order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
