package bencode

import (
	"bytes"
	"sort"

	"github.com/elliotchance/orderedmap"
)

// Value is a node of a bencode tree. It is implemented by Integer,
// ByteString, List and *Dictionary only.
type Value interface {
	isValue()
}

type Integer int64

// ByteString holds raw bytes, which are not required to be valid UTF-8.
type ByteString []byte

type List []Value

// Dictionary maps byte string keys to values. Keys are kept in the order
// they were inserted or decoded; encoding sorts them. The zero value is an
// empty dictionary, and a nil *Dictionary reads as empty.
type Dictionary struct {
	entries *orderedmap.OrderedMap
}

func (Integer) isValue()     {}
func (ByteString) isValue()  {}
func (List) isValue()        {}
func (*Dictionary) isValue() {}

func (b ByteString) String() string {
	return string(b)
}

func NewDictionary() *Dictionary {
	return &Dictionary{entries: orderedmap.NewOrderedMap()}
}

func (d *Dictionary) Get(key string) (Value, bool) {
	if d == nil || d.entries == nil {
		return nil, false
	}
	v, ok := d.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// Set replaces the value of an existing key in place, or appends a new key.
func (d *Dictionary) Set(key string, v Value) {
	if d.entries == nil {
		d.entries = orderedmap.NewOrderedMap()
	}
	d.entries.Set(key, v)
}

func (d *Dictionary) Delete(key string) bool {
	if d == nil || d.entries == nil {
		return false
	}
	return d.entries.Delete(key)
}

func (d *Dictionary) Len() int {
	if d == nil || d.entries == nil {
		return 0
	}
	return d.entries.Len()
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, d.Len())
	if d.Len() == 0 {
		return keys
	}
	for el := d.entries.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key.(string))
	}
	return keys
}

// SortedKeys returns the keys in canonical (byte-wise ascending) order.
func (d *Dictionary) SortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b are structurally equal. Dictionary key order
// is ignored, list order is not.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case ByteString:
		bv, ok := b.(ByteString)
		return ok && bytes.Equal(av, bv)
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			x, _ := av.Get(k)
			y, found := bv.Get(k)
			if !found || !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}

// String is a convenience constructor for text byte strings.
func String(s string) ByteString {
	return ByteString(s)
}
