package serialfield

import (
	"fmt"

	"github.com/rawbytedev/serialfield/pkg/wire"
)

// Record is a parsed composite record. It keeps offsets into the source
// string and never copies the body.
type Record struct {
	src       string
	Header    wire.Header
	bodyStart int
	bodyEnd   int
	Fields    wire.FieldMap
}

// ParseRecord parses src as a single object or array record.
func ParseRecord(src string) (*Record, error) {
	h, start, err := wire.ParseHeader(src, 0)
	if err != nil {
		return nil, err
	}
	end := len(src) - 1
	if end < start || src[end] != '}' {
		// let the scanner say what is wrong
		tok, err := wire.ScanToken(src, 0)
		if err != nil {
			return nil, err
		}
		return nil, &FormatError{Offset: tok.End(), Msg: "trailing data"}
	}
	toks, err := wire.SplitRange(src, start, end)
	if err != nil {
		return nil, err
	}
	fields, err := wire.Pair(toks)
	if err != nil {
		return nil, err
	}
	if fields.Len() != h.Count {
		msg := fmt.Sprintf("count mismatch: declared %d entries, found %d", h.Count, fields.Len())
		return nil, &FormatError{Offset: start, Msg: msg}
	}
	return &Record{src: src, Header: h, bodyStart: start, bodyEnd: end, Fields: fields}, nil
}

// Source returns the record as parsed.
func (r *Record) Source() string { return r.src }

// Body returns the bytes between the outer braces.
func (r *Record) Body() string { return r.src[r.bodyStart:r.bodyEnd] }

// Lookup returns the value stored under key. When the key occurs more than
// once the last entry wins. A public name and the integer key spelled the
// same way address the same field.
func (r *Record) Lookup(key wire.FieldKey) (wire.Token, error) {
	keys := []wire.Token{key.Token()}
	if key.IsPublic() {
		if ik, ok := wire.ParseIntKey(key.Name); ok {
			if key.Int {
				keys = append(keys, wire.PublicKey(key.Name).Token())
			} else {
				keys = append(keys, ik.Token())
			}
		}
	}
	tok, ok := r.Fields.LookupAny(keys...)
	if !ok {
		return wire.Token{}, &FieldNotFoundError{Owner: key.Owner, Field: key.Name, intKey: key.Int}
	}
	return tok, nil
}

// Append returns a new record with key and the encoded value added after the
// last entry and the declared count raised by one. Existing entries under
// the same key are kept.
func (r *Record) Append(key wire.FieldKey, value string) string {
	h := r.Header
	h.Count++
	body := r.Body()
	buf := make([]byte, 0, len(r.src)+len(key.Payload())+len(value)+16)
	buf = h.Append(buf)
	buf = append(buf, '{')
	buf = append(buf, body...)
	buf = key.AppendToken(buf)
	buf = append(buf, value...)
	return string(append(buf, '}'))
}
