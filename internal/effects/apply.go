package effects

import (
	"fmt"

	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Options place a preset on the timeline.
type Options struct {
	Offset   float64 // timeline time of the preset's t=0
	Duration float64 // stretch the template to this length; <= 0 keeps it
}

// Apply writes p into track through Add and Update, creating missing
// properties. Existing keyframes at the same times are overwritten. The
// returned ids are the keyframes written, in template order.
func Apply(ed *editor.Editor, track timeline.TrackID, p Preset, opts Options) ([]timeline.KeyframeID, error) {
	tl := ed.Timeline()
	t, err := tl.Track(track)
	if err != nil {
		return nil, err
	}
	if t.Locked {
		return nil, fmt.Errorf("apply %s to %s: %w", p.Name(), t.Name, ErrTrackLocked)
	}

	if err := checkChannels(t, p); err != nil {
		return nil, fmt.Errorf("apply %s to %s: %w", p.Name(), t.Name, err)
	}

	scale := 1.0
	if opts.Duration > 0 && p.Duration() > 0 {
		scale = opts.Duration / p.Duration()
	}

	var ids []timeline.KeyframeID
	for _, ch := range p.Channels() {
		prop := t.PropertyByName(ch.Property)
		if prop == nil {
			if prop, err = tl.AddProperty(track, ch.Property, ch.Type, ch.defaultValue()); err != nil {
				return ids, err
			}
		}

		for _, k := range ch.Keys {
			id, ok := ed.Add(prop.ID, opts.Offset+k.Time*scale, k.Value)
			if !ok {
				return ids, fmt.Errorf("apply %s: add keyframe to %s failed", p.Name(), ch.Property)
			}
			ed.Update([]timeline.KeyframeID{id}, keyPatch(k))
			ids = append(ids, id)
		}
	}

	system.Logger().Debug("preset applied", "preset", p.Name(), "track", t.Name, "keyframes", len(ids), "offset", opts.Offset, "scale", scale)
	return ids, nil
}

// checkChannels verifies every key of p fits the property it will land in,
// so a mismatched preset leaves the track untouched.
func checkChannels(t *timeline.Track, p Preset) error {
	for _, ch := range p.Channels() {
		prop := t.PropertyByName(ch.Property)
		if prop == nil {
			prop = &timeline.Property{Name: ch.Property, Type: ch.Type, Value: ch.defaultValue()}
			if !prop.Fits(prop.Value) {
				return fmt.Errorf("%w: %s default is %s, want %s", ErrValueMismatch, ch.Property, timeline.ValueKind(prop.Value), ch.Type)
			}
		}
		for _, k := range ch.Keys {
			if !prop.Fits(k.Value) {
				return fmt.Errorf("%w: %s key at %gs is %s, property is %s", ErrValueMismatch, ch.Property, k.Time, timeline.ValueKind(k.Value), prop.Type)
			}
		}
	}
	return nil
}

func keyPatch(k Key) editor.Patch {
	ez, interp := timeline.DefaultEasing, timeline.DefaultInterpolation
	if k.Easing != "" {
		ez = k.Easing
	}
	if k.Interpolation != "" {
		interp = k.Interpolation
	}
	return editor.Patch{
		Easing:        &ez,
		Interpolation: &interp,
		ClearTangents: true,
		TangentIn:     k.TangentIn,
		TangentOut:    k.TangentOut,
	}
}
