package store

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const (
	KEY1           = "test-key"
	KEY2           = "test-key2"
	VALUE1         = "TESTING123"
	VALUE2         = "TESTING234"
	NEWVALUE       = "NEWVALUE"
	NONEXISTINGKEY = "12345"
)

func TestSet(t *testing.T) {
	var o Ordered[string]

	err := o.Set(KEY1, VALUE1)
	if err != nil {
		t.Error(err, "could not set key")
	}

	err = o.Set(KEY1, VALUE2)
	if err != ErrKeyExists {
		t.Error("did not return the key exists error")
	}

	val, _ := o.Get(KEY1)
	if val != VALUE1 {
		t.Errorf("expected %s to be kept, got %s", VALUE1, val)
	}
}

func TestGet(t *testing.T) {
	var o Ordered[string]

	err := o.Set(KEY2, VALUE2)
	if err != nil {
		t.Error(err, "could not set key")
	}

	val, err := o.Get(KEY2)
	if err != nil {
		t.Error(err)
	}
	if val != VALUE2 {
		t.Errorf("retrieved value not the same, expected %s got %s", VALUE2, val)
	}
}

func TestGetNonExistingKey(t *testing.T) {
	var o Ordered[string]

	_, err := o.Get(NONEXISTINGKEY)
	if err != ErrKeyDoesntExist {
		t.Error("did not return key doesn't exist error")
	}
}

func TestDelete(t *testing.T) {
	var o Ordered[string]
	o.Set(KEY1, VALUE1)
	o.Set(KEY2, VALUE2)

	err := o.Delete(KEY2)
	if err != nil {
		t.Error(err)
	}
	_, err = o.Get(KEY2)
	if err != ErrKeyDoesntExist {
		t.Error("delete did not remove the key")
	}
	if keys := o.Keys(); len(keys) != 1 || keys[0] != KEY1 {
		t.Errorf("unexpected keys after delete: %v", keys)
	}
	if err := o.Delete(NONEXISTINGKEY); err != ErrKeyDoesntExist {
		t.Error("did not return key doesn't exist error")
	}
}

func TestUpdate(t *testing.T) {
	var o Ordered[string]
	o.Set(KEY1, VALUE1)

	err := o.Update(KEY1, NEWVALUE)
	if err != nil {
		t.Error(err)
	}
	val, err := o.Get(KEY1)
	if err != nil {
		t.Error(err)
	}
	if val != NEWVALUE {
		t.Errorf("expected %s, got %s", NEWVALUE, val)
	}
	if err := o.Update(NONEXISTINGKEY, NEWVALUE); err != ErrKeyDoesntExist {
		t.Error("update should not create keys")
	}
}

func TestInsertionOrder(t *testing.T) {
	var o Ordered[int]
	for i, k := range []string{"zeta", "alpha", "mid"} {
		o.Set(k, i)
	}
	o.Put("alpha", 10)

	if got := strings.Join(o.Keys(), ","); got != "zeta,alpha,mid" {
		t.Errorf("unexpected order %s", got)
	}

	out, err := yaml.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "zeta: 0\nalpha: 10\nmid: 2\n" {
		t.Errorf("unexpected yaml %q", out)
	}
}

func TestWithDoesNotShareStorage(t *testing.T) {
	var base Ordered[string]
	base.Set(KEY1, VALUE1)

	next := base.With(KEY2, VALUE2).With(KEY1, NEWVALUE)

	if base.Len() != 1 {
		t.Errorf("original grew to %d keys", base.Len())
	}
	if val, _ := base.Get(KEY1); val != VALUE1 {
		t.Errorf("original value changed to %s", val)
	}
	if val, _ := next.Get(KEY1); val != NEWVALUE {
		t.Errorf("expected %s, got %s", NEWVALUE, val)
	}
}

func TestUnmarshal(t *testing.T) {
	var o Ordered[string]
	if err := yaml.Unmarshal([]byte("b: x\na: y\n"), &o); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(o.Keys(), ","); got != "b,a" {
		t.Errorf("unexpected order %s", got)
	}

	if err := yaml.Unmarshal([]byte("a: 1\na: 2\n"), &o); err == nil {
		t.Error("duplicate keys should fail")
	}
	if err := yaml.Unmarshal([]byte("- a\n"), &o); err == nil {
		t.Error("a sequence is not a map")
	}
}

func TestEqual(t *testing.T) {
	var a, b Ordered[string]
	a.Set("x", "1")
	a.Set("y", "2")
	b.Set("y", "2")
	b.Set("x", "1")

	if a.Equal(b) {
		t.Error("maps with different order should differ")
	}
	if !a.Equal(a.Clone()) {
		t.Error("clone should be equal")
	}
	if !(Ordered[string]{}).Equal(Ordered[string]{}) {
		t.Error("empty maps are equal")
	}
}
