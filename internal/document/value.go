package document

import (
	"math"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/timeline"
)

// EncodeValue renders a value as a YAML node: numbers as scalars, vectors
// as flow sequences, categorical values as strings.
func EncodeValue(v timeline.Value) (*yaml.Node, error) {
	n := &yaml.Node{}
	var err error
	switch v := v.(type) {
	case timeline.Number:
		err = n.Encode(float64(v))
	case timeline.Vector:
		err = n.Encode([]float64(v))
		n.Style = yaml.FlowStyle
	case timeline.Categorical:
		err = n.Encode(string(v))
	default:
		return nil, invalid("", "cannot encode value of kind %s", timeline.ValueKind(v))
	}
	return n, err
}

// DecodeValue reads the union back from n, reporting problems at path. Booleans, nulls, maps and nested or
// empty sequences are rejected.
func DecodeValue(path string, n *yaml.Node) (timeline.Value, error) {
	if n == nil || n.Kind == 0 {
		return nil, invalid(path, "missing required field")
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, invalid(path, "bad number %q", n.Value)
			}
			return timeline.Number(f), nil
		case "!!str":
			return timeline.Categorical(n.Value), nil
		}
		return nil, invalid(path, "unsupported value %q (%s)", n.Value, n.ShortTag())
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return nil, invalid(path, "empty vector")
		}
		vec := make(timeline.Vector, len(n.Content))
		for i, c := range n.Content {
			if c.Kind != yaml.ScalarNode || (c.ShortTag() != "!!int" && c.ShortTag() != "!!float") {
				return nil, invalid(path, "vector component %d is not a number", i)
			}
			if err := c.Decode(&vec[i]); err != nil {
				return nil, invalid(path, "vector component %d: %v", i, err)
			}
			if math.IsNaN(vec[i]) || math.IsInf(vec[i], 0) {
				return nil, invalid(path, "vector component %d is not finite", i)
			}
		}
		return vec, nil
	}
	return nil, invalid(path, "value must be a number, a list of numbers or a string")
}
