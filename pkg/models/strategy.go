package models

import (
	"errors"
	"fmt"

	"github.com/opnlabs/ghaflow/pkg/store"
	"github.com/opnlabs/ghaflow/pkg/value"
	"gopkg.in/yaml.v3"
)

var ErrReservedDimension = errors.New("models: include and exclude are not dimension names")

type Strategy struct {
	Matrix      *Matrix `yaml:"matrix,omitempty"`
	FailFast    *bool   `yaml:"fail-fast,omitempty"`
	MaxParallel *uint   `yaml:"max-parallel,omitempty"`
}

func (s Strategy) WithMatrix(m Matrix) Strategy {
	s.Matrix = &m
	return s
}

func (s Strategy) WithFailFast(failFast bool) Strategy {
	s.FailFast = &failFast
	return s
}

func (s Strategy) WithMaxParallel(n uint) Strategy {
	s.MaxParallel = &n
	return s
}

// Combination is one entry of a matrix include or exclude list.
type Combination = store.Ordered[value.Value]

// Matrix holds named dimensions, written first in insertion order, followed
// by the include and exclude lists.
type Matrix struct {
	Dimensions store.Ordered[value.Value]
	Include    []Combination
	Exclude    []Combination
}

// AddDimension sets a dimension. The value is usually a list, but a single
// expression such as ${{ fromJSON(needs.setup.outputs.targets) }} is kept as is.
// The names include and exclude are reserved: use AddInclude and AddExclude.
// A matrix holding either as a dimension fails validation and encoding with
// ErrReservedDimension.
func (m Matrix) AddDimension(name string, v value.Value) Matrix {
	m.Dimensions = m.Dimensions.With(name, v)
	return m
}

func (m Matrix) AddInclude(c Combination) Matrix {
	m.Include = appendClone(m.Include, c)
	return m
}

func (m Matrix) AddExclude(c Combination) Matrix {
	m.Exclude = appendClone(m.Exclude, c)
	return m
}

// NewCombination builds a combination from key/value pairs.
func NewCombination(pairs ...value.Entry) Combination {
	var c Combination
	for _, p := range pairs {
		c.Put(p.Key, p.Value)
	}
	return c
}

func (m Matrix) IsZero() bool {
	return m.Dimensions.IsZero() && len(m.Include) == 0 && len(m.Exclude) == 0
}

// Validate reports dimensions that would be read back as include or exclude
// lists.
func (m Matrix) Validate() error {
	for _, name := range []string{"include", "exclude"} {
		if m.Dimensions.Has(name) {
			return fmt.Errorf("%w: %s", ErrReservedDimension, name)
		}
	}
	return nil
}

func (m Matrix) MarshalYAML() (interface{}, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	dims, err := m.Dimensions.MarshalYAML()
	if err != nil {
		return nil, err
	}
	n := dims.(*yaml.Node)
	for _, list := range []struct {
		key   string
		items []Combination
	}{{"include", m.Include}, {"exclude", m.Exclude}} {
		if len(list.items) == 0 {
			continue
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: list.key}
		val := &yaml.Node{}
		if err := val.Encode(list.items); err != nil {
			return nil, fmt.Errorf("unable to encode matrix %s: %w", list.key, err)
		}
		n.Content = append(n.Content, key, val)
	}
	return n, nil
}

func (m *Matrix) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a matrix must be a mapping", node.Line)
	}

	var decoded Matrix
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "include":
			if err := val.Decode(&decoded.Include); err != nil {
				return fmt.Errorf("unable to decode matrix include: %w", err)
			}
		case "exclude":
			if err := val.Decode(&decoded.Exclude); err != nil {
				return fmt.Errorf("unable to decode matrix exclude: %w", err)
			}
		default:
			v, err := value.FromNode(val)
			if err != nil {
				return fmt.Errorf("matrix dimension %s: %w", key.Value, err)
			}
			if err := decoded.Dimensions.Set(key.Value, v); err != nil {
				return fmt.Errorf("line %d: matrix dimension %s: %w", key.Line, key.Value, err)
			}
		}
	}
	*m = decoded
	return nil
}
