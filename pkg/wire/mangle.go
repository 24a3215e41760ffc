package wire

import (
	"strconv"
	"strings"
)

// ProtectedOwner is the owner marker of protected field names.
const ProtectedOwner = "*"

// FieldKey names a field together with the type that scopes it. An empty
// Owner is a public field, ProtectedOwner a protected one and anything else
// a field private to that type. Int marks a public integer key, with the
// decimal literal in Name.
type FieldKey struct {
	Owner string
	Name  string
	Int   bool
}

func PublicKey(name string) FieldKey { return FieldKey{Name: name} }

// IntKey returns the integer key n.
func IntKey(n int64) FieldKey { return FieldKey{Name: strconv.FormatInt(n, 10), Int: true} }

// ParseIntKey returns the integer key spelled by name. Only the canonical
// decimal form is accepted, so "7" is an integer key and "07" or "+7" are not.
func ParseIntKey(name string) (FieldKey, bool) {
	n, err := strconv.ParseInt(name, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != name {
		return FieldKey{}, false
	}
	return IntKey(n), true
}

func ProtectedKey(name string) FieldKey { return FieldKey{Owner: ProtectedOwner, Name: name} }

func PrivateKey(owner, name string) FieldKey { return FieldKey{Owner: owner, Name: name} }

func (k FieldKey) IsPublic() bool { return k.Owner == "" }

func (k FieldKey) IsProtected() bool { return k.Owner == ProtectedOwner }

// Payload returns the payload the key is stored under: the plain name or
// integer literal, or NUL owner NUL name for scoped fields.
func (k FieldKey) Payload() string {
	if k.IsPublic() {
		return k.Name
	}
	return "\x00" + k.Owner + "\x00" + k.Name
}

// AppendToken appends the key's token to dst.
func (k FieldKey) AppendToken(dst []byte) []byte {
	if k.Int {
		dst = append(dst, "i:"...)
		dst = append(dst, k.Name...)
		return append(dst, ';')
	}
	if k.IsPublic() {
		return AppendString(dst, k.Name)
	}
	dst = append(dst, "s:"...)
	dst = appendLen(dst, len(k.Owner)+len(k.Name)+2)
	dst = append(dst, ":\"\x00"...)
	dst = append(dst, k.Owner...)
	dst = append(dst, 0)
	dst = append(dst, k.Name...)
	return append(dst, "\";"...)
}

// Token returns the key as a token over its own buffer.
func (k FieldKey) Token() Token {
	src := string(k.AppendToken(nil))
	if k.Int {
		return Token{src: src, start: 0, end: len(src), pstart: 2, pend: len(src) - 1, kind: KindInt}
	}
	n := len(k.Payload())
	return Token{src: src, start: 0, end: len(src), pstart: len(src) - 2 - n, pend: len(src) - 2, kind: KindString}
}

func (k FieldKey) String() string {
	if k.IsPublic() {
		return k.Name
	}
	return k.Owner + "::" + k.Name
}

// Mangle returns the token a field private to owner is stored under.
func Mangle(owner, field string) Token {
	return PrivateKey(owner, field).Token()
}

// Demangle recognizes a scoped key token. It reports false for anything
// other than a string of the form NUL owner NUL name with a non-empty owner.
func Demangle(t Token) (FieldKey, bool) {
	if t.kind != KindString {
		return FieldKey{}, false
	}
	p := t.Payload()
	if len(p) < 2 || p[0] != 0 {
		return FieldKey{}, false
	}
	i := strings.IndexByte(p[1:], 0)
	if i <= 0 {
		return FieldKey{}, false
	}
	return FieldKey{Owner: p[1 : 1+i], Name: p[2+i:]}, true
}

// KeyOf interprets any key token: scoped strings demangle, plain strings
// become public keys and integers integer keys. The integer literal is kept
// as written, so the key's token reproduces t.
func KeyOf(t Token) (FieldKey, bool) {
	if k, ok := Demangle(t); ok {
		return k, true
	}
	switch t.kind {
	case KindString:
		return PublicKey(t.Payload()), true
	case KindInt:
		return FieldKey{Name: t.Payload(), Int: true}, true
	default:
		return FieldKey{}, false
	}
}
