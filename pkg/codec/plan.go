package codec

import (
	"reflect"
	"strings"

	"github.com/rawbytedev/serialfield/pkg/wire"
)

type fieldPlan struct {
	idx      int
	name     string
	exported bool
}

type structPlan struct {
	class  string
	fields []fieldPlan
	keys   []string // encoded key tokens for class
}

// keyFor returns the key a struct field is stored under when its type is
// encoded as class.
func (f fieldPlan) keyFor(class string) wire.FieldKey {
	if f.exported {
		return wire.PublicKey(f.name)
	}
	return wire.PrivateKey(class, f.name)
}

// fieldName reads the serial tag: `serial:"name"` renames, `serial:"-"` skips.
func fieldName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("serial")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, true
}

// className is the default class of a struct type; anonymous structs use the
// generic stdClass.
func className(t reflect.Type) string {
	if t.Name() == "" {
		return "stdClass"
	}
	return t.Name()
}

func (e *Encoder) getPlan(t reflect.Type) *structPlan {
	e.mu.RLock()
	if plan, ok := e.plans[t]; ok {
		e.mu.RUnlock()
		return plan
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check
	if plan, ok := e.plans[t]; ok {
		return plan
	}
	if e.plans == nil {
		e.plans = make(map[reflect.Type]*structPlan)
	}

	plan := &structPlan{class: className(t)}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, ok := fieldName(sf)
		if !ok {
			continue
		}
		fp := fieldPlan{idx: i, name: name, exported: sf.IsExported()}
		plan.fields = append(plan.fields, fp)
		plan.keys = append(plan.keys, string(fp.keyFor(plan.class).AppendToken(nil)))
	}
	e.plans[t] = plan
	return plan
}
