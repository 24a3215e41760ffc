package codec

import (
	"reflect"
	"strconv"

	"github.com/rawbytedev/serialfield/internal/common"
	"github.com/rawbytedev/serialfield/pkg/wire"
)

// Entry is one element of an Array. Key is an int64 or a string.
type Entry struct {
	Key   any
	Value any
}

// Array is a decoded ordered map. Entries keep encoded order and duplicates.
type Array struct {
	Entries []Entry
}

// List builds an Array with keys 0..n-1.
func List(values ...any) *Array {
	a := &Array{Entries: make([]Entry, len(values))}
	for i, v := range values {
		a.Entries[i] = Entry{Key: int64(i), Value: v}
	}
	return a
}

func (a *Array) Len() int { return len(a.Entries) }

// Get returns the value of the last entry with the given key. Integer keys
// of any width match.
func (a *Array) Get(key any) (any, bool) {
	k, ok := normalizeKey(key)
	if !ok {
		return nil, false
	}
	for i := len(a.Entries) - 1; i >= 0; i-- {
		if a.Entries[i].Key == k {
			return a.Entries[i].Value, true
		}
	}
	return nil, false
}

// Append adds an entry at the end without replacing earlier ones. Integer
// keys are stored as int64.
func (a *Array) Append(key, value any) {
	if k, ok := normalizeKey(key); ok {
		key = k
	}
	a.Entries = append(a.Entries, Entry{Key: key, Value: value})
}

// Values returns the values in order.
func (a *Array) Values() []any {
	out := make([]any, len(a.Entries))
	for i, e := range a.Entries {
		out[i] = e.Value
	}
	return out
}

// IsList reports whether the keys are exactly 0..n-1 in order.
func (a *Array) IsList() bool {
	for i, e := range a.Entries {
		if e.Key != int64(i) {
			return false
		}
	}
	return true
}

// Field is one property of an Object.
type Field struct {
	Key   wire.FieldKey
	Value any
}

// Object is a decoded named composite. It is a view of the record, not an
// instance of the type it names.
type Object struct {
	Class  string
	Fields []Field
}

// Get returns the value of the last field stored under key.
func (o *Object) Get(key wire.FieldKey) (any, bool) {
	for i := len(o.Fields) - 1; i >= 0; i-- {
		if o.Fields[i].Key == key {
			return o.Fields[i].Value, true
		}
	}
	return nil, false
}

// Public returns the last public field called name. Integer keys match
// their decimal spelling.
func (o *Object) Public(name string) (any, bool) {
	for i := len(o.Fields) - 1; i >= 0; i-- {
		if k := o.Fields[i].Key; k.IsPublic() && k.Name == name {
			return o.Fields[i].Value, true
		}
	}
	return nil, false
}

// Private looks up a field private to the object's own class.
func (o *Object) Private(name string) (any, bool) {
	return o.Get(wire.PrivateKey(o.Class, name))
}

// Set appends a field; earlier fields with the same key stay in place.
func (o *Object) Set(key wire.FieldKey, value any) {
	o.Fields = append(o.Fields, Field{Key: key, Value: value})
}

// ClassNamer overrides the class name a struct is encoded under.
type ClassNamer interface {
	ClassName() string
}

// Plain converts decoded values into maps and slices that generic
// marshalers understand. Lists become []any, other arrays and objects become
// map[string]any keyed by the entry key (FieldKey.String for objects).
func Plain(v any) any {
	switch x := v.(type) {
	case *Array:
		if x.IsList() {
			out := make([]any, len(x.Entries))
			for i, e := range x.Entries {
				out[i] = Plain(e.Value)
			}
			return out
		}
		out := make(map[string]any, len(x.Entries))
		for _, e := range x.Entries {
			out[keyString(e.Key)] = Plain(e.Value)
		}
		return out
	case *Object:
		out := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			out[f.Key.String()] = Plain(f.Value)
		}
		return out
	default:
		return v
	}
}

func keyString(k any) string {
	switch x := k.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	default:
		return ""
	}
}

// normalizeKey maps integer keys of any width to int64.
func normalizeKey(key any) (any, bool) {
	if s, ok := key.(string); ok {
		return s, true
	}
	v := reflect.ValueOf(key)
	switch k := v.Kind(); {
	case k == reflect.String:
		return v.String(), true
	case common.IsIntKind(k):
		return v.Int(), true
	case common.IsUintKind(k):
		if v.Uint() > 1<<63-1 {
			return nil, false
		}
		return int64(v.Uint()), true
	default:
		return nil, false
	}
}
