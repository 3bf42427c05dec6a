package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Marshal encodes tl as a YAML document.
func Marshal(tl *timeline.Timeline) ([]byte, error) {
	doc, err := ToDocument(tl)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a YAML document. Unknown fields are
// rejected.
func Unmarshal(data []byte) (*timeline.Timeline, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return FromDocument(&doc)
}

// Write saves tl to path, creating the parent directory if needed.
func Write(tl *timeline.Timeline, path string) error {
	data, err := Marshal(tl)
	if err != nil {
		return err
	}
	if err := system.EnsureDir(path); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	system.Logger().Info("document saved", "path", path, "tracks", len(tl.Tracks))
	return nil
}

// Read loads and validates the document at path.
func Read(path string) (*timeline.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tl, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	system.Logger().Info("document loaded", "path", path, "tracks", len(tl.Tracks), "duration", tl.Duration)
	return tl, nil
}
