package codec

import (
	"math"
	"strconv"

	"github.com/rawbytedev/serialfield/pkg/wire"
)

// Decoder turns records into generic values:
//
//	N  nil
//	b  bool
//	i  int64
//	d  float64
//	s  string
//	a  *Array
//	O  *Object
//
// Decoding is strict; the whole input must be exactly one value.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

var defaultDecoder Decoder

// Decode decodes record with a shared Decoder.
func Decode(record string) (any, error) {
	return defaultDecoder.Decode(record)
}

// DecodeInto decodes record into out with a shared Decoder.
func DecodeInto(record string, out any) error {
	return defaultDecoder.DecodeInto(record, out)
}

func (d *Decoder) Decode(record string) (any, error) {
	tok, err := wire.ScanToken(record, 0)
	if err != nil {
		return nil, &EncodingError{Op: "decode", Err: err}
	}
	if tok.End() != len(record) {
		return nil, &EncodingError{Op: "decode", Err: &wire.FormatError{Offset: tok.End(), Msg: "trailing data"}}
	}
	v, err := d.value(tok)
	if err != nil {
		return nil, &EncodingError{Op: "decode", Err: err}
	}
	return v, nil
}

func (d *Decoder) value(tok wire.Token) (any, error) {
	p := tok.Payload()
	switch tok.Kind() {
	case wire.KindNull:
		return nil, nil
	case wire.KindBool:
		switch p {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return nil, &wire.FormatError{Offset: tok.Start(), Msg: "invalid bool " + strconv.Quote(p)}
	case wire.KindInt:
		i, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &wire.FormatError{Offset: tok.Start(), Msg: "invalid int " + strconv.Quote(p)}
		}
		return i, nil
	case wire.KindFloat:
		f, ok := parseFloat(p)
		if !ok {
			return nil, &wire.FormatError{Offset: tok.Start(), Msg: "invalid double " + strconv.Quote(p)}
		}
		return f, nil
	case wire.KindString:
		return p, nil
	case wire.KindArray:
		return d.array(tok)
	default:
		return d.object(tok)
	}
}

func (d *Decoder) array(tok wire.Token) (*Array, error) {
	fields, err := tok.Fields()
	if err != nil {
		return nil, err
	}
	a := &Array{Entries: make([]Entry, 0, fields.Len())}
	for _, e := range fields.Entries() {
		var key any = e.Key.Payload()
		if e.Key.Kind() == wire.KindInt {
			i, err := strconv.ParseInt(e.Key.Payload(), 10, 64)
			if err != nil {
				return nil, &wire.FormatError{Offset: e.Key.Start(), Msg: "invalid int key"}
			}
			key = i
		}
		v, err := d.value(e.Value)
		if err != nil {
			return nil, err
		}
		a.Entries = append(a.Entries, Entry{Key: key, Value: v})
	}
	return a, nil
}

func (d *Decoder) object(tok wire.Token) (*Object, error) {
	h, _ := tok.Header()
	fields, err := tok.Fields()
	if err != nil {
		return nil, err
	}
	o := &Object{Class: h.Name, Fields: make([]Field, 0, fields.Len())}
	for _, e := range fields.Entries() {
		key, _ := wire.KeyOf(e.Key)
		v, err := d.value(e.Value)
		if err != nil {
			return nil, err
		}
		o.Fields = append(o.Fields, Field{Key: key, Value: v})
	}
	return o, nil
}

// parseFloat accepts decimal literals with an optional exponent plus INF,
// -INF and NAN. Hex floats and underscores are rejected.
func parseFloat(s string) (float64, bool) {
	switch s {
	case "INF":
		return math.Inf(1), true
	case "-INF":
		return math.Inf(-1), true
	case "NAN":
		return math.NaN(), true
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
