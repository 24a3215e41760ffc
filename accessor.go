// Package serialfield reads and writes single fields of serialized records,
// private and protected fields included, without rebuilding the value the
// record was made from.
//
// A record is an object or array in the tagged text format
//
//	O:5:"Point":2:{s:8:"\0Point\0x";i:3;s:8:"\0Point\0y";i:4;}
//
// Get locates one entry and returns its value. Set appends a new entry and
// bumps the declared count; earlier entries under the same key are kept and
// later lookups see the newest one.
package serialfield

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rawbytedev/serialfield/pkg/codec"
	"github.com/rawbytedev/serialfield/pkg/wire"
)

// Encoder turns a value into a record.
type Encoder interface {
	Encode(v any) (string, error)
}

// Decoder turns a record into a value.
type Decoder interface {
	Decode(record string) (any, error)
}

// Accessor runs Get and Set with a given Encoder, Decoder and logger.
// It holds no per-call state and may be shared.
type Accessor struct {
	enc Encoder
	dec Decoder
	log *zap.Logger
}

type Option func(*Accessor)

func WithEncoder(enc Encoder) Option { return func(a *Accessor) { a.enc = enc } }

func WithDecoder(dec Decoder) Option { return func(a *Accessor) { a.dec = dec } }

// WithLogger sets the logger located and appended fields are reported to
// at debug level.
func WithLogger(l *zap.Logger) Option { return func(a *Accessor) { a.log = l } }

// New returns an Accessor using the codec package unless overridden.
func New(opts ...Option) *Accessor {
	a := &Accessor{}
	for _, o := range opts {
		o(a)
	}
	if a.enc == nil {
		a.enc = codec.NewEncoder()
	}
	if a.dec == nil {
		a.dec = codec.NewDecoder()
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

var std = New()

// Get returns field from input with the default Accessor.
func Get(input any, field string, opts Options) (any, error) {
	return std.Get(input, field, opts)
}

// Set stores value under field in input with the default Accessor.
func Set(input any, field string, value any, opts Options) (any, error) {
	return std.Set(input, field, value, opts)
}

// Fields lists the entries of input with the default Accessor.
func Fields(input any, opts Options) ([]FieldInfo, error) {
	return std.Fields(input, opts)
}

// Get returns the value stored under field. With OutputEncoded set the
// value's token is returned as a string, otherwise it is decoded.
func (a *Accessor) Get(input any, field string, opts Options) (any, error) {
	rec, err := a.record(input, opts)
	if err != nil {
		return nil, err
	}
	key, err := opts.key(rec.Header, field)
	if err != nil {
		return nil, err
	}
	tok, err := rec.Lookup(key)
	if err != nil {
		return nil, err
	}
	a.log.Debug("field located",
		zap.Stringer("key", key),
		zap.Stringer("kind", tok.Kind()),
		zap.Int("offset", tok.Start()),
		zap.Int("size", tok.Len()))
	if opts.OutputEncoded {
		return tok.Raw(), nil
	}
	v, err := a.dec.Decode(tok.Raw())
	if err != nil {
		return nil, wrapEncoding("decode", nil, err)
	}
	return v, nil
}

// Set appends value under field and returns the new record, decoded unless
// OutputEncoded is set. input is never modified.
func (a *Accessor) Set(input any, field string, value any, opts Options) (any, error) {
	rec, err := a.record(input, opts)
	if err != nil {
		return nil, err
	}
	key, err := opts.key(rec.Header, field)
	if err != nil {
		return nil, err
	}
	enc, err := a.enc.Encode(value)
	if err != nil {
		return nil, wrapEncoding("encode", value, err)
	}
	tok, err := wire.ScanToken(enc, 0)
	if err == nil && tok.End() != len(enc) {
		err = &FormatError{Offset: tok.End(), Msg: "trailing data"}
	}
	if err != nil {
		return nil, &EncodingError{Op: "encode", Type: fmt.Sprintf("%T", value), Err: fmt.Errorf("%w: %w", ErrInvalidToken, err)}
	}
	out := rec.Append(key, enc)
	a.log.Debug("field appended",
		zap.Stringer("key", key),
		zap.Stringer("kind", tok.Kind()),
		zap.Int("count", rec.Header.Count+1))
	if opts.OutputEncoded {
		return out, nil
	}
	v, err := a.dec.Decode(out)
	if err != nil {
		return nil, wrapEncoding("decode", nil, err)
	}
	return v, nil
}

// FieldInfo describes one entry of a record.
type FieldInfo struct {
	Key   wire.FieldKey
	Scope Scope
	Value wire.Token
}

// Fields returns every direct entry of input in body order, duplicates
// included. Integer keys of arrays are reported as public names.
func (a *Accessor) Fields(input any, opts Options) ([]FieldInfo, error) {
	rec, err := a.record(input, opts)
	if err != nil {
		return nil, err
	}
	entries := rec.Fields.Entries()
	out := make([]FieldInfo, 0, len(entries))
	for _, e := range entries {
		k, _ := wire.KeyOf(e.Key)
		out = append(out, FieldInfo{Key: k, Scope: ScopeOf(k), Value: e.Value})
	}
	return out, nil
}

func (a *Accessor) record(input any, opts Options) (*Record, error) {
	if !opts.InputEncoded {
		src, err := a.enc.Encode(input)
		if err != nil {
			return nil, wrapEncoding("encode", input, err)
		}
		return ParseRecord(src)
	}
	switch in := input.(type) {
	case string:
		return ParseRecord(in)
	case []byte:
		return ParseRecord(string(in))
	}
	return nil, fmt.Errorf("%w, got %T", ErrInputType, input)
}
