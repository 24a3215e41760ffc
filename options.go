package serialfield

import (
	"fmt"
	"strings"

	"github.com/rawbytedev/serialfield/pkg/wire"
)

// Scope selects how a field name is stored in a record.
type Scope int

const (
	// ScopePrivate keys the field to the declaring type: NUL owner NUL name.
	ScopePrivate Scope = iota
	// ScopeProtected keys the field as NUL * NUL name.
	ScopeProtected
	// ScopePublic uses the plain name.
	ScopePublic
)

func (s Scope) String() string {
	switch s {
	case ScopePrivate:
		return "private"
	case ScopeProtected:
		return "protected"
	case ScopePublic:
		return "public"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ParseScope parses the name returned by Scope.String. The empty string is
// ScopePrivate.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "", "private":
		return ScopePrivate, nil
	case "protected":
		return ScopeProtected, nil
	case "public":
		return ScopePublic, nil
	}
	return 0, fmt.Errorf("unknown scope %q", s)
}

// ScopeOf reports the scope a key is stored under.
func ScopeOf(k wire.FieldKey) Scope {
	switch {
	case k.IsPublic():
		return ScopePublic
	case k.IsProtected():
		return ScopeProtected
	}
	return ScopePrivate
}

type Options struct {
	// InputEncoded marks the input as a record rather than a value to encode.
	InputEncoded bool
	// OutputEncoded returns records and value tokens verbatim instead of
	// decoding them.
	OutputEncoded bool
	Scope         Scope
	// Owner overrides the type a private field is keyed to. It defaults to
	// the record's declared name.
	Owner string
}

func (o Options) key(h wire.Header, field string) (wire.FieldKey, error) {
	switch o.Scope {
	case ScopePublic:
		// arrays store integer-like names as integer keys
		if h.Kind == wire.KindArray {
			if k, ok := wire.ParseIntKey(field); ok {
				return k, nil
			}
		}
		return wire.PublicKey(field), nil
	case ScopeProtected:
		return wire.ProtectedKey(field), nil
	case ScopePrivate:
		owner := o.Owner
		if owner == "" {
			if h.Kind != wire.KindObject {
				return wire.FieldKey{}, ErrNoOwner
			}
			owner = h.Name
		}
		return wire.PrivateKey(owner, field), nil
	}
	return wire.FieldKey{}, fmt.Errorf("unknown scope %v", o.Scope)
}
