// Package value implements the values GitHub Actions accepts in several
// shapes: a single scalar, a list of scalars, or a map of values.
//
// The shape chosen by the caller is kept through encoding and decoding.
// `branches: main` and `branches: [main]` are different documents, and a
// Value never turns one into the other.
package value

import (
	"errors"
	"math"
	"reflect"
	"slices"
)

var ErrShape = errors.New("value: unsupported shape")

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindSingle
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "none"
}

// Scalar lists the Go types a Single or List value can be built from.
type Scalar interface {
	~string | ~bool | ~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Entry is one key of a map Value.
type Entry struct {
	Key   string
	Value Value
}

// Value is a tagged union. The zero Value is unset: it is omitted when it is
// a field, and written as null when it is the value of a map entry.
type Value struct {
	kind    Kind
	scalar  any
	items   []any
	entries []Entry
}

func String(s string) Value {
	return Value{kind: KindSingle, scalar: s}
}

func Bool(b bool) Value {
	return Value{kind: KindSingle, scalar: b}
}

func Int(i int) Value {
	return Value{kind: KindSingle, scalar: i}
}

func Float(f float64) Value {
	return Value{kind: KindSingle, scalar: f}
}

// Of builds a Single value from any string, bool, integer or float based
// type, including typed enums.
func Of[T Scalar](v T) Value {
	return Value{kind: KindSingle, scalar: normalize(v)}
}

// Strings builds a List value.
func Strings(items ...string) Value {
	return ListOf(items...)
}

// ListOf builds a List value from scalars of one type.
func ListOf[T Scalar](items ...T) Value {
	v := Value{kind: KindList}
	for _, item := range items {
		v.items = append(v.items, normalize(item))
	}
	return v
}

// Map builds a Map value. A repeated key replaces the earlier entry in place.
func Map(entries ...Entry) Value {
	v := Value{kind: KindMap}
	for _, e := range entries {
		v = v.With(e.Key, e.Value)
	}
	return v
}

func Pair(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// normalize reduces named types to the builtin type the decoder produces, so
// a constructed value and its decoded copy compare equal. Unsigned values
// that do not fit an int stay uint64.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u > math.MaxInt {
			return u
		}
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsZero() bool {
	return v.kind == KindNone
}

// Scalar returns the scalar of a Single value.
func (v Value) Scalar() (any, bool) {
	if v.kind != KindSingle {
		return nil, false
	}
	return v.scalar, true
}

// Text returns the scalar of a Single value when it is a string.
func (v Value) Text() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindSingle
}

// Items returns a copy of the scalars of a List value.
func (v Value) Items() []any {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.items)
}

// Entries returns a copy of the entries of a Map value in insertion order.
func (v Value) Entries() []Entry {
	if v.kind != KindMap {
		return nil
	}
	return slices.Clone(v.entries)
}

// Get looks up a key of a Map value.
func (v Value) Get(key string) (Value, bool) {
	if i := v.index(key); i >= 0 {
		return v.entries[i].Value, true
	}
	return Value{}, false
}

// Len is the number of items of a List or entries of a Map, 1 for a Single
// and 0 for an unset value.
func (v Value) Len() int {
	switch v.kind {
	case KindSingle:
		return 1
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	}
	return 0
}

func (v Value) index(key string) int {
	if v.kind != KindMap {
		return -1
	}
	for i, e := range v.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// With returns a Map value with key set to val. An existing key keeps its
// position. Calling With on a non-map value starts a new map.
func (v Value) With(key string, val Value) Value {
	out := Value{kind: KindMap}
	if v.kind == KindMap {
		out.entries = slices.Clone(v.entries)
	}
	if i := out.index(key); i >= 0 {
		out.entries[i].Value = val
		return out
	}
	out.entries = append(out.entries, Entry{Key: key, Value: val})
	return out
}

// Append returns a List value with items added at the end. An unset value
// becomes a list and a Single becomes a list that starts with its scalar.
func (v Value) Append(items ...Value) Value {
	out := Value{kind: KindList}
	switch v.kind {
	case KindSingle:
		out.items = []any{v.scalar}
	case KindList:
		out.items = slices.Clone(v.items)
	}
	for _, item := range items {
		switch item.kind {
		case KindSingle:
			out.items = append(out.items, item.scalar)
		case KindList:
			out.items = append(out.items, item.items...)
		}
	}
	return out
}

// Merge combines two values. Maps merge key by key, recursing into keys
// present in both; lists concatenate. Otherwise other wins unless it is unset.
func (v Value) Merge(other Value) Value {
	switch {
	case other.kind == KindNone:
		return v
	case v.kind == KindMap && other.kind == KindMap:
		out := v
		for _, e := range other.entries {
			if cur, ok := out.Get(e.Key); ok {
				out = out.With(e.Key, cur.Merge(e.Value))
				continue
			}
			out = out.With(e.Key, e.Value)
		}
		return out
	case v.kind == KindList && other.kind == KindList:
		return v.Append(other)
	}
	return other
}

// Equal reports whether both values have the same shape and contents.
// Map entries compare in order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindSingle:
		return v.scalar == other.scalar
	case KindList:
		return slices.Equal(v.items, other.items)
	case KindMap:
		return slices.EqualFunc(v.entries, other.entries, func(a, b Entry) bool {
			return a.Key == b.Key && a.Value.Equal(b.Value)
		})
	}
	return true
}
