package codec

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/serialfield/internal/common"
)

// DecodeInto decodes record and stores it in the value out points to.
// Objects fill structs by matching public keys to exported fields (the
// serial tag applies); fields private to a type cannot be set from outside
// it and are left alone.
func (d *Decoder) DecodeInto(record string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &EncodingError{Op: "decode", Type: fmt.Sprintf("%T", out), Err: ErrNotPointer}
	}
	v, err := d.Decode(record)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), v)
}

func mismatch(dst reflect.Value, src any) error {
	return &EncodingError{Op: "decode", Type: dst.Type().String(), Err: fmt.Errorf("%w: cannot assign %T", ErrMismatch, src)}
}

func assign(dst reflect.Value, src any) error {
	switch dst.Kind() {
	case reflect.Interface:
		if src == nil {
			dst.SetZero()
			return nil
		}
		sv := reflect.ValueOf(src)
		if !sv.Type().AssignableTo(dst.Type()) {
			return mismatch(dst, src)
		}
		dst.Set(sv)
		return nil
	case reflect.Pointer:
		if src == nil {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), src)
	}
	if src == nil {
		dst.SetZero()
		return nil
	}

	k := dst.Kind()
	switch s := src.(type) {
	case bool:
		if k != reflect.Bool {
			return mismatch(dst, src)
		}
		dst.SetBool(s)
	case int64:
		switch {
		case common.IsIntKind(k):
			if dst.OverflowInt(s) {
				return mismatch(dst, src)
			}
			dst.SetInt(s)
		case common.IsUintKind(k):
			if s < 0 || dst.OverflowUint(uint64(s)) {
				return mismatch(dst, src)
			}
			dst.SetUint(uint64(s))
		case common.IsFloatKind(k):
			dst.SetFloat(float64(s))
		default:
			return mismatch(dst, src)
		}
	case float64:
		if !common.IsFloatKind(k) {
			return mismatch(dst, src)
		}
		dst.SetFloat(s)
	case string:
		switch {
		case k == reflect.String:
			dst.SetString(s)
		case k == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
			dst.SetBytes([]byte(s))
		default:
			return mismatch(dst, src)
		}
	case *Array:
		return assignArray(dst, s)
	case *Object:
		return assignObject(dst, s)
	default:
		return mismatch(dst, src)
	}
	return nil
}

func assignArray(dst reflect.Value, a *Array) error {
	switch dst.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), len(a.Entries), len(a.Entries))
		for i, e := range a.Entries {
			if err := assign(out.Index(i), e.Value); err != nil {
				return err
			}
		}
		dst.Set(out)
	case reflect.Array:
		if len(a.Entries) > dst.Len() {
			return mismatch(dst, a)
		}
		for i, e := range a.Entries {
			if err := assign(dst.Index(i), e.Value); err != nil {
				return err
			}
		}
	case reflect.Map:
		m := reflect.MakeMapWithSize(dst.Type(), len(a.Entries))
		for _, e := range a.Entries {
			kv := reflect.New(dst.Type().Key()).Elem()
			if err := assign(kv, e.Key); err != nil {
				return err
			}
			vv := reflect.New(dst.Type().Elem()).Elem()
			if err := assign(vv, e.Value); err != nil {
				return err
			}
			m.SetMapIndex(kv, vv)
		}
		dst.Set(m)
	default:
		return mismatch(dst, a)
	}
	return nil
}

func assignObject(dst reflect.Value, o *Object) error {
	switch dst.Kind() {
	case reflect.Struct:
		t := dst.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, ok := fieldName(sf)
			if !ok {
				continue
			}
			v, ok := o.Public(name)
			if !ok {
				continue
			}
			if err := assign(dst.Field(i), v); err != nil {
				return fmt.Errorf("field %s: %w", sf.Name, err)
			}
		}
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return mismatch(dst, o)
		}
		m := reflect.MakeMapWithSize(dst.Type(), len(o.Fields))
		for _, f := range o.Fields {
			vv := reflect.New(dst.Type().Elem()).Elem()
			if err := assign(vv, f.Value); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(f.Key.String()).Convert(dst.Type().Key()), vv)
		}
		dst.Set(m)
	default:
		return mismatch(dst, o)
	}
	return nil
}
