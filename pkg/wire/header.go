package wire

import (
	"github.com/rawbytedev/serialfield/internal/common"
)

// Header is the envelope of a composite value: its tag, the declared
// type name (objects only) and the declared entry count.
type Header struct {
	Kind  Kind
	Name  string
	Count int
}

// ParseHeader parses the composite header starting at src[pos]:
//
//	O:<len>:"<name>":<count>:{
//	a:<count>:{
//
// It returns the header and the offset of the first body byte.
func ParseHeader(src string, pos int) (Header, int, error) {
	return parseHeader(src, pos, len(src))
}

func parseHeader(src string, pos, limit int) (Header, int, error) {
	if pos >= limit {
		return Header{}, 0, unterminated(pos)
	}
	h := Header{Kind: Kind(src[pos])}
	p := pos + 1
	switch h.Kind {
	case KindObject:
		n, next, err := readLength(src, p, limit)
		if err != nil {
			return Header{}, 0, err
		}
		p = next
		if err := expectByte(src, p, limit, '"'); err != nil {
			return Header{}, 0, err
		}
		p++
		// name, closing quote and the ':' before the count
		if n > uint64(limit-p) || limit-p-int(n) < 2 {
			return Header{}, 0, formatErr(pos, "declared name length %d overruns input", n)
		}
		e := p + int(n)
		if src[e] != '"' || src[e+1] != ':' {
			return Header{}, 0, formatErr(pos+2, "declared name length %d does not match name", n)
		}
		h.Name = src[p:e]
		p = e + 1
	case KindArray:
	default:
		return Header{}, 0, formatErr(pos, "unrecognized type tag %q", src[pos])
	}
	count, next, err := readLength(src, p, limit)
	if err != nil {
		return Header{}, 0, err
	}
	// every entry takes at least four bytes
	if count > uint64(limit-next)/4 {
		return Header{}, 0, formatErr(p+1, "declared count %d overruns input", count)
	}
	h.Count = int(count)
	if err := expectByte(src, next, limit, '{'); err != nil {
		return Header{}, 0, err
	}
	return h, next + 1, nil
}

// BuildHeader returns the object header for name and count, without the
// opening brace.
func BuildHeader(name string, count int) string {
	return string(Header{Kind: KindObject, Name: name, Count: count}.Append(nil))
}

// Append appends h in its encoded form, without the opening brace.
func (h Header) Append(dst []byte) []byte {
	if h.Kind == KindArray {
		dst = append(dst, "a:"...)
	} else {
		dst = append(dst, "O:"...)
		dst = common.AppendUint(dst, uint64(len(h.Name)))
		dst = append(dst, ":\""...)
		dst = append(dst, h.Name...)
		dst = append(dst, "\":"...)
	}
	dst = common.AppendUint(dst, uint64(h.Count))
	return append(dst, ':')
}

func (h Header) String() string {
	return string(h.Append(nil))
}

// readLength reads ":<digits>:" at src[pos] and returns the number and the
// offset after the trailing colon.
func readLength(src string, pos, limit int) (uint64, int, error) {
	if err := expectByte(src, pos, limit, ':'); err != nil {
		return 0, 0, err
	}
	pos++
	n, size := common.ReadUint(src[pos:limit])
	if size == 0 {
		if pos >= limit {
			return 0, 0, unterminated(pos)
		}
		return 0, 0, formatErr(pos, "invalid length")
	}
	pos += size
	if err := expectByte(src, pos, limit, ':'); err != nil {
		return 0, 0, err
	}
	return n, pos + 1, nil
}

func expectByte(src string, pos, limit int, c byte) error {
	if pos >= limit {
		return unterminated(pos)
	}
	if src[pos] != c {
		return formatErr(pos, "expected %q, found %q", c, src[pos])
	}
	return nil
}
