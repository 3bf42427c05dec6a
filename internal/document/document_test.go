package document

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/timeline"
)

func sampleTimeline() *timeline.Timeline {
	tl := timeline.New(8)
	tl.Loop = true
	card := tl.Tracks[0]
	card.Muted = true

	op, _ := tl.AddProperty(card.ID, "opacity", timeline.TypeNumber, timeline.Number(1))
	k0 := timeline.NewKeyframe(0, timeline.Number(0))
	k1 := timeline.NewKeyframe(2.5, timeline.Number(1))
	k1.Easing = easing.Bounce
	k0.TangentOut = &easing.Point{X: 0.2, Y: 1.4}
	op.Keyframes = []timeline.Keyframe{k0, k1}

	pos, _ := tl.AddProperty(card.ID, "camera-position", timeline.TypeVector, timeline.Vector{0, 0, 5})
	pos.Keyframes = []timeline.Keyframe{timeline.NewKeyframe(1, timeline.Vector{1, 2, 3})}

	back := tl.AddTrack(timeline.NewTrack("Back", "#ff8800"))
	back.Visible = false
	label, _ := tl.AddProperty(back.ID, "label", timeline.TypeText, timeline.Categorical("front"))
	step := timeline.NewKeyframe(4, timeline.Categorical("back"))
	step.Interpolation = easing.InterpStep
	label.Keyframes = []timeline.Keyframe{step}
	return tl
}

func TestRoundTrip(t *testing.T) {
	tl := sampleTimeline()

	data, err := Marshal(tl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	t.Logf("document:\n%s", data)

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Duration != tl.Duration || got.Loop != tl.Loop || got.FrameRate != tl.FrameRate {
		t.Errorf("header mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Tracks, tl.Tracks) {
		t.Errorf("tracks differ after round trip")
		for i := range tl.Tracks {
			t.Logf("want %+v\n got %+v", *tl.Tracks[i], *got.Tracks[i])
		}
	}
}

func TestCategoricalNumericStringStaysText(t *testing.T) {
	tl := timeline.New(1)
	p, _ := tl.AddProperty(tl.Tracks[0].ID, "caption", timeline.TypeText, timeline.Categorical("1.5"))

	data, err := Marshal(tl)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Tracks[0].Properties[0].Value; v != timeline.Categorical("1.5") {
		t.Errorf("value = %#v, want categorical %q (was %v)", v, "1.5", p.Value)
	}
}

const validKeyframe = `
version: "1.0"
duration: 4
tracks:
  - name: Card
    properties:
      - name: opacity
        type: number
        value: 1
        keyframes:
          - {time: 0, value: 0, easing: linear, interpolation: cubic}
%s
`

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		path  string
	}{
		{"unknown easing", "          - {time: 1, value: 1, easing: wobble, interpolation: cubic}", "keyframes[1].easing"},
		{"unknown interpolation", "          - {time: 1, value: 1, easing: linear, interpolation: smooth}", "keyframes[1].interpolation"},
		{"missing time", "          - {value: 1, easing: linear, interpolation: cubic}", "keyframes[1].time"},
		{"missing value", "          - {time: 1, easing: linear, interpolation: cubic}", "keyframes[1].value"},
		{"missing easing", "          - {time: 1, value: 1, interpolation: cubic}", "keyframes[1].easing"},
		{"string in number property", "          - {time: 1, value: high, easing: linear, interpolation: cubic}", "keyframes[1].value"},
		{"boolean value", "          - {time: 1, value: true, easing: linear, interpolation: cubic}", "keyframes[1].value"},
		{"negative time", "          - {time: -1, value: 1, easing: linear, interpolation: cubic}", "keyframes[1].time"},
		{"duplicate time", "          - {time: 0, value: 1, easing: linear, interpolation: cubic}", "keyframes[1].time"},
		{"handle outside square", "          - {time: 1, value: 1, easing: linear, interpolation: cubic, tangentIn: {x: 1.5, y: 0}}", "keyframes[1].tangentIn"},
		{"nan value", "          - {time: 1, value: .nan, easing: linear, interpolation: cubic}", "keyframes[1].value"},
		{"infinite value", "          - {time: 1, value: .inf, easing: linear, interpolation: cubic}", "keyframes[1].value"},
		{"nan handle x", "          - {time: 1, value: 1, easing: linear, interpolation: cubic, tangentOut: {x: .nan, y: 0}}", "keyframes[1].tangentOut"},
		{"infinite handle y", "          - {time: 1, value: 1, easing: linear, interpolation: cubic, tangentIn: {x: 0.5, y: -.inf}}", "keyframes[1].tangentIn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(strings.Replace(validKeyframe, "%s", tt.extra, 1)))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.HasSuffix(verr.Path, tt.path) {
				t.Errorf("path = %q, want suffix %q", verr.Path, tt.path)
			}
			t.Logf("%v", err)
		})
	}
}

func TestKeyframeDocDecodesScalarValue(t *testing.T) {
	var kd KeyframeDoc
	if err := yaml.Unmarshal([]byte("{time: 1, value: 1, easing: linear, interpolation: step}"), &kd); err != nil {
		t.Fatalf("decode keyframe: %v", err)
	}
	v, err := DecodeValue("value", &kd.Value)
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if v != timeline.Number(1) {
		t.Errorf("value = %v, want 1", v)
	}
}

func TestValidationDocumentLevel(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing version", "duration: 1\ntracks: []\n"},
		{"future version", "version: \"2.0\"\nduration: 1\ntracks: []\n"},
		{"zero duration", "version: \"1.0\"\nduration: 0\ntracks: []\n"},
		{"unknown field", "version: \"1.0\"\nduration: 1\nspeed: 2\ntracks: []\n"},
		{"unknown property type", "version: \"1.0\"\nduration: 1\ntracks:\n  - name: A\n    properties:\n      - {name: x, type: matrix, value: 1}\n"},
		{"vector length", "version: \"1.0\"\nduration: 1\ntracks:\n  - name: A\n    properties:\n      - name: pos\n        type: vector\n        value: [0, 0]\n        keyframes:\n          - {time: 0, value: [1, 2, 3], easing: linear, interpolation: linear}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUnsortedKeyframesAreSorted(t *testing.T) {
	doc := strings.Replace(validKeyframe, "%s",
		"          - {time: 3, value: 1, easing: linear, interpolation: cubic}\n          - {time: 1, value: 0.5, easing: linear, interpolation: cubic}", 1)
	tl, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if p := tl.Tracks[0].Properties[0]; !p.Sorted() {
		t.Errorf("keyframes not sorted")
	}
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "card.yaml")

	tl := sampleTimeline()
	if err := Write(tl, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Tracks) != 2 {
		t.Errorf("expected 2 tracks, got %d", len(got.Tracks))
	}
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("docs")
	if filepath.Dir(path) != "docs" || !strings.HasPrefix(filepath.Base(path), "timeline_") {
		t.Errorf("unexpected path %s", path)
	}
	t.Logf("Generated path: %s", path)
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.yml", "c.yaml"}
	for i, f := range files {
		p := filepath.Join(dir, f)
		os.WriteFile(p, []byte("version: \"1.0\"\n"), 0644)
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(p, mod, mod)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if filepath.Base(latest) != "c.yaml" {
		t.Errorf("expected c.yaml, got %s", latest)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}
