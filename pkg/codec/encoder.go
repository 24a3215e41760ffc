package codec

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/rawbytedev/serialfield/internal/common"
	"github.com/rawbytedev/serialfield/pkg/wire"
)

// MaxDepth bounds nesting while encoding, pointer cycles included.
const MaxDepth = wire.MaxDepth

var (
	arrayType  = reflect.TypeOf((*Array)(nil))
	objectType = reflect.TypeOf((*Object)(nil))
	namerType  = reflect.TypeOf((*ClassNamer)(nil)).Elem()
)

// Encoder turns native values into records. Struct layouts are memoized per
// type; an Encoder is safe for concurrent use and its zero value is ready.
type Encoder struct {
	mu    sync.RWMutex
	plans map[reflect.Type]*structPlan
}

func NewEncoder() *Encoder {
	return &Encoder{plans: make(map[reflect.Type]*structPlan)}
}

var defaultEncoder = NewEncoder()

// Encode encodes v with a shared Encoder.
func Encode(v any) (string, error) {
	return defaultEncoder.Encode(v)
}

// Encode returns the record for v.
func (e *Encoder) Encode(v any) (string, error) {
	buf, err := e.appendValue(nil, reflect.ValueOf(v), 0)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func encodeErr(v reflect.Value, err error) error {
	return &EncodingError{Op: "encode", Type: v.Type().String(), Err: err}
}

func (e *Encoder) appendValue(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	if !v.IsValid() {
		return wire.AppendNull(dst), nil
	}
	if depth > MaxDepth {
		return nil, encodeErr(v, ErrTooDeep)
	}
	switch v.Type() {
	case arrayType:
		if v.IsNil() {
			return wire.AppendNull(dst), nil
		}
		return e.appendArray(dst, (*Array)(v.UnsafePointer()), depth)
	case objectType:
		if v.IsNil() {
			return wire.AppendNull(dst), nil
		}
		return e.appendObject(dst, (*Object)(v.UnsafePointer()), depth)
	}

	switch k := v.Kind(); {
	case k == reflect.Bool:
		return wire.AppendBool(dst, v.Bool()), nil
	case common.IsIntKind(k):
		return wire.AppendInt(dst, v.Int()), nil
	case common.IsUintKind(k):
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, encodeErr(v, ErrOverflow)
		}
		return wire.AppendInt(dst, int64(u)), nil
	case common.IsFloatKind(k):
		return wire.AppendFloat(dst, v.Float(), v.Type().Bits()), nil
	case k == reflect.String:
		return wire.AppendString(dst, v.String()), nil
	case k == reflect.Pointer, k == reflect.Interface:
		if v.IsNil() {
			return wire.AppendNull(dst), nil
		}
		return e.appendValue(dst, v.Elem(), depth+1)
	case k == reflect.Slice:
		if v.IsNil() {
			return wire.AppendNull(dst), nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return wire.AppendString(dst, string(v.Bytes())), nil
		}
		return e.appendList(dst, v, depth)
	case k == reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			for i := range b {
				b[i] = byte(v.Index(i).Uint())
			}
			return wire.AppendString(dst, string(b)), nil
		}
		return e.appendList(dst, v, depth)
	case k == reflect.Map:
		if v.IsNil() {
			return wire.AppendNull(dst), nil
		}
		return e.appendMap(dst, v, depth)
	case k == reflect.Struct:
		return e.appendStruct(dst, v, depth)
	default:
		return nil, encodeErr(v, ErrUnsupported)
	}
}

func (e *Encoder) appendList(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	n := v.Len()
	dst = wire.Header{Kind: wire.KindArray, Count: n}.Append(dst)
	dst = append(dst, '{')
	var err error
	for i := 0; i < n; i++ {
		dst = wire.AppendInt(dst, int64(i))
		if dst, err = e.appendValue(dst, v.Index(i), depth+1); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

type mapKey struct {
	v     reflect.Value
	isInt bool
	i     int64
	s     string
}

// appendMap emits integer keys first in numeric order, then string keys in
// byte order, so equal maps always encode identically.
func (e *Encoder) appendMap(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	keys := make([]mapKey, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		mk := mapKey{v: iter.Key()}
		kv := mk.v
		if kv.Kind() == reflect.Interface && !kv.IsNil() {
			kv = kv.Elem()
		}
		switch k := kv.Kind(); {
		case k == reflect.String:
			mk.s = kv.String()
		case common.IsIntKind(k):
			mk.isInt, mk.i = true, kv.Int()
		case common.IsUintKind(k):
			if kv.Uint() > math.MaxInt64 {
				return nil, encodeErr(kv, ErrOverflow)
			}
			mk.isInt, mk.i = true, int64(kv.Uint())
		default:
			return nil, &EncodingError{Op: "encode", Type: v.Type().String(), Err: fmt.Errorf("%w: map key %s", ErrUnsupported, mk.v.Type())}
		}
		keys = append(keys, mk)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.isInt != b.isInt {
			return a.isInt
		}
		if a.isInt {
			return a.i < b.i
		}
		return a.s < b.s
	})

	dst = wire.Header{Kind: wire.KindArray, Count: len(keys)}.Append(dst)
	dst = append(dst, '{')
	var err error
	for _, k := range keys {
		if k.isInt {
			dst = wire.AppendInt(dst, k.i)
		} else {
			dst = wire.AppendString(dst, k.s)
		}
		if dst, err = e.appendValue(dst, v.MapIndex(k.v), depth+1); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

func (e *Encoder) appendStruct(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	plan := e.getPlan(v.Type())
	class := plan.class
	if name, ok := classOf(v); ok {
		class = name
	}
	dst = wire.Header{Kind: wire.KindObject, Name: class, Count: len(plan.fields)}.Append(dst)
	dst = append(dst, '{')
	var err error
	for i, f := range plan.fields {
		if class == plan.class {
			dst = append(dst, plan.keys[i]...)
		} else {
			dst = f.keyFor(class).AppendToken(dst)
		}
		if dst, err = e.appendValue(dst, v.Field(f.idx), depth+1); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

// classOf asks a ClassNamer for its class, through the pointer when the
// method has a pointer receiver. Values reached through unexported fields
// are read through their address.
func classOf(v reflect.Value) (string, bool) {
	if v.CanAddr() {
		p := reflect.NewAt(v.Type(), v.Addr().UnsafePointer())
		if n, ok := p.Interface().(ClassNamer); ok {
			return n.ClassName(), true
		}
		return "", false
	}
	if v.Type().Implements(namerType) && v.CanInterface() {
		return v.Interface().(ClassNamer).ClassName(), true
	}
	return "", false
}

func (e *Encoder) appendArray(dst []byte, a *Array, depth int) ([]byte, error) {
	dst = wire.Header{Kind: wire.KindArray, Count: len(a.Entries)}.Append(dst)
	dst = append(dst, '{')
	var err error
	for _, entry := range a.Entries {
		key, ok := normalizeKey(entry.Key)
		if !ok {
			return nil, &EncodingError{Op: "encode", Type: fmt.Sprintf("%T", entry.Key), Err: fmt.Errorf("%w: array key", ErrUnsupported)}
		}
		switch k := key.(type) {
		case int64:
			dst = wire.AppendInt(dst, k)
		case string:
			dst = wire.AppendString(dst, k)
		}
		if dst, err = e.appendValue(dst, reflect.ValueOf(entry.Value), depth+1); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

func (e *Encoder) appendObject(dst []byte, o *Object, depth int) ([]byte, error) {
	dst = wire.Header{Kind: wire.KindObject, Name: o.Class, Count: len(o.Fields)}.Append(dst)
	dst = append(dst, '{')
	var err error
	for _, f := range o.Fields {
		dst = f.Key.AppendToken(dst)
		if dst, err = e.appendValue(dst, reflect.ValueOf(f.Value), depth+1); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}
