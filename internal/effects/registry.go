package effects

import (
	"fmt"
	"sort"
)

// Registry resolves preset names, built-ins first unless overridden by a
// loaded pack.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry returns a registry holding every built-in preset.
func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]Preset)}
	for _, name := range BuiltinNames() {
		p, _ := NewPreset(name)
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any preset of the same name.
func (r *Registry) Register(p Preset) {
	r.presets[p.Name()] = p
}

// LoadFile registers every preset of a YAML pack and returns how many.
func (r *Registry) LoadFile(path string) (int, error) {
	presets, err := LoadPresets(path)
	if err != nil {
		return 0, err
	}
	for _, p := range presets {
		r.Register(p)
	}
	return len(presets), nil
}

// Get returns the preset called name.
func (r *Registry) Get(name string) (Preset, error) {
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// Names lists registered presets in name order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for n := range r.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
