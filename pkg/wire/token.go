// Package wire scans and builds the textual record format: tokens, composite
// headers, body splitting and scoped field names.
package wire

import "fmt"

// Kind is the leading tag byte of an encoded value.
type Kind byte

const (
	KindNull   Kind = 'N'
	KindBool   Kind = 'b'
	KindInt    Kind = 'i'
	KindFloat  Kind = 'd'
	KindString Kind = 's'
	KindArray  Kind = 'a'
	KindObject Kind = 'O'
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%q)", byte(k))
	}
}

// IsComposite reports whether values of kind k carry a header and a body.
func (k Kind) IsComposite() bool {
	return k == KindArray || k == KindObject
}

// isKey reports whether a value of kind k may appear in key position.
func (k Kind) isKey() bool {
	return k == KindString || k == KindInt
}

// Token is one grammar-recognized value inside an immutable source buffer.
// Offsets are validated by the scanner that produced it; a Token is never
// built by hand outside this package.
//
// The payload span depends on the kind: the literal between ':' and ';' for
// scalars, the raw string bytes for strings and the body between '{' and '}'
// for composites.
type Token struct {
	src    string
	start  int
	end    int
	pstart int
	pend   int
	kind   Kind
	header Header
}

// Kind returns the token's type tag.
func (t Token) Kind() Kind { return t.kind }

// Start returns the offset of the token's first byte in its source.
func (t Token) Start() int { return t.start }

// End returns the offset one past the token's last byte.
func (t Token) End() int { return t.end }

// Len returns the encoded length of the token.
func (t Token) Len() int { return t.end - t.start }

// Raw returns the exact encoded bytes of the token.
func (t Token) Raw() string { return t.src[t.start:t.end] }

// Payload returns the token's payload span (see Token).
func (t Token) Payload() string { return t.src[t.pstart:t.pend] }

func (t Token) String() string { return t.Raw() }

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool { return t.kind == 0 }

// Header returns the composite header; ok is false for scalars.
func (t Token) Header() (h Header, ok bool) {
	if !t.kind.IsComposite() {
		return Header{}, false
	}
	return t.header, true
}

// Fields splits a composite token's body into its ordered entries.
func (t Token) Fields() (FieldMap, error) {
	if !t.kind.IsComposite() {
		return FieldMap{}, formatErr(t.start, "%s value has no fields", t.kind)
	}
	toks, err := SplitRange(t.src, t.pstart, t.pend)
	if err != nil {
		return FieldMap{}, err
	}
	return Pair(toks)
}
