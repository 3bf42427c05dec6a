package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/document"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// resolveDocument returns the document path to work on.
func resolveDocument() (string, error) {
	if cfg.DocumentPath != "" {
		return cfg.DocumentPath, nil
	}
	latest, err := document.FindLatest(cfg.DocumentDir)
	if err != nil {
		return "", fmt.Errorf("%w. Create one with 'cardmotion new'", err)
	}
	fmt.Printf("[*] Selected document: %s\n", latest)
	return latest, nil
}

func loadTimeline() (*timeline.Timeline, string, error) {
	path, err := resolveDocument()
	if err != nil {
		return nil, "", err
	}
	tl, err := document.Read(path)
	if err != nil {
		return nil, "", err
	}
	return tl, path, nil
}

// findProperty resolves "track/property" or a bare property name, which
// matches the first property of that name in track order.
func findProperty(tl *timeline.Timeline, ref string) (*timeline.Property, *timeline.Track, error) {
	trackName, propName, qualified := strings.Cut(ref, "/")
	if !qualified {
		propName, trackName = trackName, ""
	}
	for _, t := range tl.Tracks {
		if trackName != "" && t.Name != trackName {
			continue
		}
		if p := t.PropertyByName(propName); p != nil {
			return p, t, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", timeline.ErrPropertyNotFound, ref)
}

// findTrack resolves a track by name; empty picks the first track.
func findTrack(tl *timeline.Timeline, name string) (*timeline.Track, error) {
	if name == "" {
		if len(tl.Tracks) == 0 {
			return nil, timeline.ErrTrackNotFound
		}
		return tl.Tracks[0], nil
	}
	return tl.TrackByName(name)
}

// parseValue reads a command-line value with the document rules: 0.5 is a
// number, [1, 2, 3] a vector and anything else text.
func parseValue(s string) (timeline.Value, error) {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(s), &n); err != nil {
		return nil, fmt.Errorf("parse value %q: %w", s, err)
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		return document.DecodeValue("value", n.Content[0])
	}
	return timeline.Categorical(s), nil
}
