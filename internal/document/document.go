// Package document holds the in-memory content document: an ordered JSON tree
// that remembers key order so a rewrite only changes what was overwritten.
//
// Values in a tree are one of:
//
//   - *Object for JSON objects (ordered keys)
//   - []any for JSON arrays
//   - string, Number, bool, or nil for scalars
//
// Number keeps the literal text of a JSON number so that values round-trip
// without float conversion.
package document

import "slices"

// Number is a JSON number kept as its literal text.
type Number string

func (n Number) String() string { return string(n) }

// Object is a JSON object that preserves key insertion order.
//
// Setting an existing key replaces its value in place; setting a new key
// appends it. The zero value is not usable, use NewObject.
type Object struct {
	keys   []string
	fields map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]any)}
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in document order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Set stores value under key, keeping the position of an existing key.
func (o *Object) Set(key string, value any) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, exists := o.fields[key]; !exists {
		return
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Clone returns a deep copy of v. Scalars are returned unchanged.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		out := &Object{
			keys:   slices.Clone(t.keys),
			fields: make(map[string]any, len(t.fields)),
		}
		for k, val := range t.fields {
			out.fields[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are the same tree, including key order.
func Equal(a, b any) bool {
	switch ta := a.(type) {
	case *Object:
		tb, ok := b.(*Object)
		if !ok || ta.Len() != tb.Len() {
			return false
		}
		for i, k := range ta.keys {
			if tb.keys[i] != k {
				return false
			}
			if !Equal(ta.fields[k], tb.fields[k]) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}

// KindOf names the JSON kind of v for diagnostics.
func KindOf(v any) string {
	switch v.(type) {
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
