// Package store implements an insertion ordered key-value map.
package store

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrKeyExists      = errors.New("store: key already exists")
	ErrKeyDoesntExist = errors.New("store: key does not exist")
)

type Store[V any] interface {
	Set(key string, value V) error
	Get(key string) (V, error)
	Delete(key string) error
	Update(key string, newValue V) error
}

// Ordered is a string keyed map that remembers insertion order. Copies of an
// Ordered share storage, so callers that hand out copies must Clone before
// writing.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

var _ Store[int] = (*Ordered[int])(nil)

// Set is used to set a value to a new key.
func (o *Ordered[V]) Set(key string, value V) error {
	if _, ok := o.values[key]; ok {
		return ErrKeyExists
	}
	if o.values == nil {
		o.values = make(map[string]V)
	}
	o.keys = append(o.keys, key)
	o.values[key] = value
	return nil
}

// Put sets key to value, keeping the position of an existing key.
func (o *Ordered[V]) Put(key string, value V) {
	if err := o.Update(key, value); err != nil {
		_ = o.Set(key, value)
	}
}

// Get is used to get a value from a key.
func (o *Ordered[V]) Get(key string) (V, error) {
	v, ok := o.values[key]
	if !ok {
		return v, ErrKeyDoesntExist
	}
	return v, nil
}

// Delete removes the specified key and value.
func (o *Ordered[V]) Delete(key string) error {
	if _, ok := o.values[key]; !ok {
		return ErrKeyDoesntExist
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	if len(o.keys) == 0 {
		o.keys, o.values = nil, nil
	}
	return nil
}

// Update can be used to change the value for a given key.
func (o *Ordered[V]) Update(key string, value V) error {
	if _, ok := o.values[key]; !ok {
		return ErrKeyDoesntExist
	}
	o.values[key] = value
	return nil
}

func (o Ordered[V]) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o Ordered[V]) Len() int {
	return len(o.keys)
}

func (o Ordered[V]) IsZero() bool {
	return len(o.keys) == 0
}

// Keys returns the keys in insertion order.
func (o Ordered[V]) Keys() []string {
	return slices.Clone(o.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (o Ordered[V]) Range(fn func(key string, value V) bool) {
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a copy that shares no storage with o. Values are copied
// shallowly.
func (o Ordered[V]) Clone() Ordered[V] {
	if len(o.keys) == 0 {
		return Ordered[V]{}
	}
	c := Ordered[V]{
		keys:   slices.Clone(o.keys),
		values: make(map[string]V, len(o.values)),
	}
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

// With returns a copy of o with key set to value.
func (o Ordered[V]) With(key string, value V) Ordered[V] {
	c := o.Clone()
	c.Put(key, value)
	return c
}

// Merge returns a copy of o with every entry of other put on top.
func (o Ordered[V]) Merge(other Ordered[V]) Ordered[V] {
	c := o.Clone()
	other.Range(func(k string, v V) bool {
		c.Put(k, v)
		return true
	})
	return c
}

// Equal compares keys in order, then values with their own Equal method when
// they have one.
func (o Ordered[V]) Equal(other Ordered[V]) bool {
	if !slices.Equal(o.keys, other.keys) {
		return false
	}
	for _, k := range o.keys {
		a, b := o.values[k], other.values[k]
		if eq, ok := any(a).(interface{ Equal(V) bool }); ok {
			if !eq.Equal(b) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

func (o Ordered[V]) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		key := &yaml.Node{}
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		val := &yaml.Node{}
		if err := val.Encode(o.values[k]); err != nil {
			return nil, fmt.Errorf("unable to encode %s: %w", k, err)
		}
		n.Content = append(n.Content, key, val)
	}
	return n, nil
}

func (o *Ordered[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*o = Ordered[V]{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	var decoded Ordered[V]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: map keys must be scalars", key.Line)
		}
		var v V
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("unable to decode %s: %w", key.Value, err)
		}
		if err := decoded.Set(key.Value, v); err != nil {
			return fmt.Errorf("line %d: %s: %w", key.Line, key.Value, err)
		}
	}
	*o = decoded
	return nil
}
