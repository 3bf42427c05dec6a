package document

import (
	"fmt"
	"math"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// ToDocument captures the persisted part of tl. Keyframes are written in
// time order; track and property order is kept.
func ToDocument(tl *timeline.Timeline) (*Document, error) {
	doc := &Document{
		Version:   Version,
		Duration:  tl.Duration,
		FrameRate: tl.FrameRate,
		Loop:      tl.Loop,
		Tracks:    make([]TrackDoc, 0, len(tl.Tracks)),
	}

	for ti, t := range tl.Tracks {
		visible, expanded := t.Visible, t.Expanded
		td := TrackDoc{
			ID:         string(t.ID),
			Name:       t.Name,
			Color:      t.Color,
			Visible:    &visible,
			Locked:     t.Locked,
			Muted:      t.Muted,
			Expanded:   &expanded,
			Properties: make([]PropertyDoc, 0, len(t.Properties)),
		}

		for pi, p := range t.Properties {
			path := fmt.Sprintf("tracks[%d].properties[%d]", ti, pi)
			def, err := EncodeValue(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%s.value: %w", path, err)
			}
			pd := PropertyDoc{
				ID:        string(p.ID),
				Name:      p.Name,
				Type:      string(p.Type),
				Value:     *def,
				Min:       p.Min,
				Max:       p.Max,
				Step:      p.Step,
				Keyframes: make([]KeyframeDoc, 0, len(p.Keyframes)),
			}

			kfs := p.Clone()
			kfs.SortKeyframes()
			for ki, k := range kfs.Keyframes {
				v, err := EncodeValue(k.Value)
				if err != nil {
					return nil, fmt.Errorf("%s.keyframes[%d].value: %w", path, ki, err)
				}
				tm := k.Time
				pd.Keyframes = append(pd.Keyframes, KeyframeDoc{
					ID:            string(k.ID),
					Time:          &tm,
					Value:         *v,
					Easing:        string(k.Easing),
					Interpolation: string(k.Interpolation),
					TangentIn:     k.TangentIn,
					TangentOut:    k.TangentOut,
				})
			}
			td.Properties = append(td.Properties, pd)
		}
		doc.Tracks = append(doc.Tracks, td)
	}
	return doc, nil
}

// FromDocument validates doc and builds a timeline from it. Missing ids are
// generated. Keyframes stored out of order are sorted; two keyframes at the
// same time in one property are an error.
func FromDocument(doc *Document) (*timeline.Timeline, error) {
	if doc.Version == "" {
		return nil, invalid("version", "missing required field")
	}
	if doc.Version != Version {
		return nil, invalid("version", "unsupported version %q", doc.Version)
	}
	if doc.Duration <= 0 || math.IsNaN(doc.Duration) || math.IsInf(doc.Duration, 0) {
		return nil, invalid("duration", "must be a positive number of seconds, got %v", doc.Duration)
	}

	tl := timeline.New(doc.Duration)
	tl.Tracks = nil
	tl.Loop = doc.Loop
	if doc.FrameRate > 0 {
		tl.FrameRate = doc.FrameRate
	}

	seen := make(map[string]string)
	claim := func(path, id string) error {
		if id == "" {
			return nil
		}
		if prev, ok := seen[id]; ok {
			return invalid(path+".id", "duplicate id %q, first used at %s", id, prev)
		}
		seen[id] = path
		return nil
	}

	for ti, td := range doc.Tracks {
		path := fmt.Sprintf("tracks[%d]", ti)
		if err := claim(path, td.ID); err != nil {
			return nil, err
		}
		t := timeline.NewTrack(td.Name, td.Color)
		if td.ID != "" {
			t.ID = timeline.TrackID(td.ID)
		}
		if td.Visible != nil {
			t.Visible = *td.Visible
		}
		if td.Expanded != nil {
			t.Expanded = *td.Expanded
		}
		t.Locked = td.Locked
		t.Muted = td.Muted

		for pi, pd := range td.Properties {
			p, err := propertyFromDoc(fmt.Sprintf("%s.properties[%d]", path, pi), pd, claim)
			if err != nil {
				return nil, err
			}
			t.AddProperty(p)
		}
		tl.AddTrack(t)
	}
	return tl, nil
}

func propertyFromDoc(path string, pd PropertyDoc, claim func(path, id string) error) (*timeline.Property, error) {
	if err := claim(path, pd.ID); err != nil {
		return nil, err
	}
	if pd.Name == "" {
		return nil, invalid(path+".name", "missing required field")
	}
	typ, err := timeline.ParsePropertyType(pd.Type)
	if err != nil {
		return nil, invalid(path+".type", "%v", err)
	}
	def, err := DecodeValue(path+".value", &pd.Value)
	if err != nil {
		return nil, err
	}
	if err := CheckValue(path+".value", typ, def, nil); err != nil {
		return nil, err
	}

	p := timeline.NewProperty(pd.Name, typ, def)
	if pd.ID != "" {
		p.ID = timeline.PropertyID(pd.ID)
	}
	p.Min, p.Max, p.Step = pd.Min, pd.Max, pd.Step

	for ki, kd := range pd.Keyframes {
		k, err := keyframeFromDoc(fmt.Sprintf("%s.keyframes[%d]", path, ki), kd, claim)
		if err != nil {
			return nil, err
		}
		if err := CheckValue(fmt.Sprintf("%s.keyframes[%d].value", path, ki), typ, k.Value, def); err != nil {
			return nil, err
		}
		if p.IndexAtTime(k.Time) >= 0 {
			return nil, invalid(fmt.Sprintf("%s.keyframes[%d].time", path, ki), "duplicate keyframe time %v", k.Time)
		}
		p.Keyframes = append(p.Keyframes, k)
	}
	p.SortKeyframes()
	return p, nil
}

func keyframeFromDoc(path string, kd KeyframeDoc, claim func(path, id string) error) (timeline.Keyframe, error) {
	var k timeline.Keyframe
	if err := claim(path, kd.ID); err != nil {
		return k, err
	}
	if kd.Time == nil {
		return k, invalid(path+".time", "missing required field")
	}
	if *kd.Time < 0 || math.IsNaN(*kd.Time) || math.IsInf(*kd.Time, 0) {
		return k, invalid(path+".time", "must be a finite time >= 0, got %v", *kd.Time)
	}
	v, err := DecodeValue(path+".value", &kd.Value)
	if err != nil {
		return k, err
	}
	if kd.Easing == "" {
		return k, invalid(path+".easing", "missing required field")
	}
	ez, err := easing.ParseKind(kd.Easing)
	if err != nil {
		return k, invalid(path+".easing", "%v", err)
	}
	if kd.Interpolation == "" {
		return k, invalid(path+".interpolation", "missing required field")
	}
	interp, err := easing.ParseInterpolation(kd.Interpolation)
	if err != nil {
		return k, invalid(path+".interpolation", "%v", err)
	}
	for name, pt := range map[string]*easing.Point{"tangentIn": kd.TangentIn, "tangentOut": kd.TangentOut} {
		if pt == nil {
			continue
		}
		if math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			return k, invalid(path+"."+name, "y must be finite, got %v", pt.Y)
		}
		if !(pt.X >= 0 && pt.X <= 1) {
			return k, invalid(path+"."+name, "x must lie in [0, 1], got %v", pt.X)
		}
	}

	k = timeline.NewKeyframe(*kd.Time, v)
	if kd.ID != "" {
		k.ID = timeline.KeyframeID(kd.ID)
	}
	k.Easing = ez
	k.Interpolation = interp
	k.TangentIn = kd.TangentIn
	k.TangentOut = kd.TangentOut
	return k, nil
}

// CheckValue enforces the property type on a value, reporting problems at
// path. Vector and color properties also require every vector to match the
// length of ref when ref is a vector.
func CheckValue(path string, typ timeline.PropertyType, v, ref timeline.Value) error {
	if !typ.Accepts(v) {
		return invalid(path, "%s value does not fit a %s property", timeline.ValueKind(v), typ)
	}
	vec, ok := v.(timeline.Vector)
	rv, rok := ref.(timeline.Vector)
	if ok && rok && (typ == timeline.TypeVector || typ == timeline.TypeColor) && len(vec) != len(rv) {
		return invalid(path, "vector has %d components, property default has %d", len(vec), len(rv))
	}
	return nil
}
