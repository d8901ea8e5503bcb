package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML writes a Single as a scalar, a List as a sequence and a Map as
// a mapping.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Node()
}

// Node returns the YAML node for the value.
func (v Value) Node() (*yaml.Node, error) {
	switch v.kind {
	case KindSingle:
		return scalarNode(v.scalar)
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			child, err := scalarNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.entries {
			key, err := scalarNode(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := e.Value.Node()
			if err != nil {
				return nil, fmt.Errorf("unable to encode %s: %w", e.Key, err)
			}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
}

func scalarNode(s any) (*yaml.Node, error) {
	if f, ok := s.(float64); ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(s); err != nil {
		return nil, err
	}
	return n, nil
}

// formatFloat keeps a fractional part on whole numbers so that 2.0 is read
// back as a float and not as the integer 2.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := FromNode(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromNode picks the variant from the node structure: a sequence is a List,
// a mapping is a Map and any other scalar is a Single. Null gives the unset
// value.
func FromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return Value{}, fmt.Errorf("%w: empty document", ErrShape)
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return Value{}, nil
		}
		s, err := decodeScalar(node)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindSingle, scalar: s}, nil
	case yaml.SequenceNode:
		v := Value{kind: KindList}
		for _, child := range node.Content {
			if child.Kind == yaml.AliasNode {
				child = child.Alias
			}
			if child.Kind != yaml.ScalarNode || child.ShortTag() == "!!null" {
				return Value{}, fmt.Errorf("%w: line %d: list items must be scalars", ErrShape, child.Line)
			}
			s, err := decodeScalar(child)
			if err != nil {
				return Value{}, err
			}
			v.items = append(v.items, s)
		}
		return v, nil
	case yaml.MappingNode:
		v := Value{kind: KindMap}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode || key.ShortTag() == "!!merge" {
				return Value{}, fmt.Errorf("%w: line %d: map keys must be plain scalars", ErrShape, key.Line)
			}
			if v.index(key.Value) >= 0 {
				return Value{}, fmt.Errorf("%w: line %d: duplicate key %q", ErrShape, key.Line, key.Value)
			}
			child, err := FromNode(val)
			if err != nil {
				return Value{}, err
			}
			v.entries = append(v.entries, Entry{Key: key.Value, Value: child})
		}
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: line %d: unexpected node", ErrShape, node.Line)
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!str":
		return node.Value, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrShape, node.Line, err)
		}
		return b, nil
	case "!!int":
		var i int
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrShape, node.Line, err)
		}
		return u, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrShape, node.Line, err)
		}
		return f, nil
	case "!!timestamp":
		return node.Value, nil
	}
	return nil, fmt.Errorf("%w: line %d: unsupported tag %s", ErrShape, node.Line, node.ShortTag())
}
