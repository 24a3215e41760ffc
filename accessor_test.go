package serialfield

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/rawbytedev/serialfield/pkg/codec"
	"github.com/rawbytedev/serialfield/pkg/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func nul(s string) string {
	return strings.ReplaceAll(s, `\0`, "\x00")
}

var (
	pointRecord = nul(`O:5:"Point":2:{s:8:"\0Point\0x";i:3;s:8:"\0Point\0y";i:4;}`)
	catRecord   = nul(`O:3:"Cat":3:{s:4:"name";s:3:"Tom";s:7:"\0*\0mood";s:5:"happy";s:8:"\0Cat\0age";i:7;}`)
	raw         = Options{InputEncoded: true, OutputEncoded: true}
	encoded     = Options{InputEncoded: true}
)

type Point struct {
	x, y int
}

func TestPointScenario(t *testing.T) {
	v, err := Get(pointRecord, "y", encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	tok, err := Get(pointRecord, "y", raw)
	require.NoError(t, err)
	assert.Equal(t, "i:4;", tok)

	out, err := Set(pointRecord, "z", "hi", raw)
	require.NoError(t, err)
	assert.Equal(t, nul(`O:5:"Point":3:{s:8:"\0Point\0x";i:3;s:8:"\0Point\0y";i:4;s:8:"\0Point\0z";s:2:"hi";}`), out)

	v, err = Get(out, "z", encoded)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestNativeInput(t *testing.T) {
	v, err := Get(Point{x: 3, y: 4}, "y", Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	out, err := Set(Point{x: 3, y: 4}, "z", []int{1}, Options{})
	require.NoError(t, err)
	obj, ok := out.(*codec.Object)
	require.True(t, ok)
	assert.Equal(t, "Point", obj.Class)
	assert.Len(t, obj.Fields, 3)
	z, ok := obj.Private("z")
	require.True(t, ok)
	assert.Equal(t, codec.List(int64(1)), z)
}

func TestSetGetRoundTrip(t *testing.T) {
	condition := func(s string, n int64, f float64, b bool) bool {
		rec := pointRecord
		for field, v := range map[string]any{"s": s, "n": n, "f": f, "b": b} {
			out, err := Set(rec, field, v, raw)
			require.NoError(t, err)
			rec = out.(string)
		}
		got := map[string]any{}
		for _, field := range []string{"s", "n", "f", "b"} {
			v, err := Get(rec, field, encoded)
			require.NoError(t, err)
			got[field] = v
		}
		return assert.ObjectsAreEqual(map[string]any{"s": s, "n": n, "f": f, "b": b}, got)
	}
	if err := quick.Check(condition, &quick.Config{}); err != nil {
		t.Errorf("Error: %v", err)
	}
}

func TestSetCountArithmetic(t *testing.T) {
	rec := pointRecord
	names := []string{"a", "b", "c", "d", "e"}
	for i, name := range names {
		out, err := Set(rec, name, i, raw)
		require.NoError(t, err)
		rec = out.(string)

		r, err := ParseRecord(rec)
		require.NoError(t, err)
		assert.Equal(t, 2+i+1, r.Header.Count)
		assert.Equal(t, r.Header.Count, r.Fields.Len())
	}
	assert.True(t, strings.HasPrefix(rec, `O:5:"Point":7:{`))
}

func TestSetKeepsDuplicates(t *testing.T) {
	out, err := Set(pointRecord, "y", 5, raw)
	require.NoError(t, err)

	v, err := Get(out, "y", encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	fields, err := Fields(out, encoded)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, fields[1].Key, fields[2].Key)
	assert.Equal(t, "i:4;", fields[1].Value.Raw())
	assert.Equal(t, "i:5;", fields[2].Value.Raw())

	// set decodes the record; the decoder also keeps both entries
	dec, err := Set(pointRecord, "y", 5, encoded)
	require.NoError(t, err)
	y, ok := dec.(*codec.Object).Private("y")
	require.True(t, ok)
	assert.Equal(t, int64(5), y)
}

func TestGetMiss(t *testing.T) {
	_, err := Get(pointRecord, "w", encoded)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, wire.PrivateKey("Point", "w"), nf.Key())
	assert.EqualError(t, err, `private field "w" of Point not found`)

	_, err = Get(pointRecord, "x", Options{InputEncoded: true, Scope: ScopePublic})
	require.ErrorAs(t, err, &nf)
	assert.EqualError(t, err, `field "x" not found`)

	_, err = Get(pointRecord, "x", Options{InputEncoded: true, Scope: ScopeProtected})
	assert.EqualError(t, err, `protected field "x" not found`)
}

func TestScopes(t *testing.T) {
	tests := []struct {
		field string
		scope Scope
		want  any
	}{
		{"name", ScopePublic, "Tom"},
		{"mood", ScopeProtected, "happy"},
		{"age", ScopePrivate, int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			v, err := Get(catRecord, tt.field, Options{InputEncoded: true, Scope: tt.scope})
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	out, err := Set(catRecord, "toy", "ball", Options{InputEncoded: true, OutputEncoded: true, Scope: ScopeProtected})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.(string), nul(`s:6:"\0*\0toy";s:4:"ball";}`)))
	assert.True(t, strings.HasPrefix(out.(string), `O:3:"Cat":4:{`))
}

func TestFields(t *testing.T) {
	fields, err := Fields(catRecord, encoded)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, wire.PublicKey("name"), fields[0].Key)
	assert.Equal(t, ScopePublic, fields[0].Scope)
	assert.Equal(t, `s:3:"Tom";`, fields[0].Value.Raw())

	assert.Equal(t, wire.ProtectedKey("mood"), fields[1].Key)
	assert.Equal(t, ScopeProtected, fields[1].Scope)

	assert.Equal(t, wire.PrivateKey("Cat", "age"), fields[2].Key)
	assert.Equal(t, ScopePrivate, fields[2].Scope)
	assert.Equal(t, "i:7;", fields[2].Value.Raw())

	fields, err = Fields(`a:1:{i:0;s:1:"x";}`, encoded)
	require.NoError(t, err)
	assert.Equal(t, wire.IntKey(0), fields[0].Key)
	assert.Equal(t, ScopePublic, fields[0].Scope)
}

func TestOwnerOverride(t *testing.T) {
	rec := nul(`O:5:"Child":1:{s:10:"\0Parent\0id";i:9;}`)

	_, err := Get(rec, "id", encoded)
	require.ErrorAs(t, err, new(*FieldNotFoundError))

	v, err := Get(rec, "id", Options{InputEncoded: true, Owner: "Parent"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)
}

func TestArrayRecord(t *testing.T) {
	rec := `a:1:{s:1:"k";i:1;}`

	_, err := Get(rec, "k", encoded)
	require.ErrorIs(t, err, ErrNoOwner)

	v, err := Get(rec, "k", Options{InputEncoded: true, Scope: ScopePublic})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	out, err := Set(rec, "m", true, Options{InputEncoded: true, OutputEncoded: true, Scope: ScopePublic})
	require.NoError(t, err)
	assert.Equal(t, `a:2:{s:1:"k";i:1;s:1:"m";b:1;}`, out)

	out, err = Set(rec, "p", nil, Options{InputEncoded: true, OutputEncoded: true, Owner: "Box"})
	require.NoError(t, err)
	assert.Equal(t, nul(`a:2:{s:1:"k";i:1;s:6:"\0Box\0p";N;}`), out)
}

func TestArrayIntKeys(t *testing.T) {
	rec := `a:2:{i:0;s:1:"x";s:2:"07";s:1:"y";}`
	public := Options{InputEncoded: true, Scope: ScopePublic}

	// every key Fields reports can be read back by its name
	fields, err := Fields(rec, encoded)
	require.NoError(t, err)
	for _, f := range fields {
		v, err := Get(rec, f.Key.Name, public)
		require.NoError(t, err, f.Key.Name)
		assert.Equal(t, f.Value.Raw(), `s:1:"`+v.(string)+`";`)
	}

	out, err := Set(rec, "1", "z", Options{InputEncoded: true, OutputEncoded: true, Scope: ScopePublic})
	require.NoError(t, err)
	assert.Equal(t, `a:3:{i:0;s:1:"x";s:2:"07";s:1:"y";i:1;s:1:"z";}`, out)
	got, err := codec.Decode(out.(string))
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y", "z"}, got.(*codec.Array).Values())

	_, err = Get(rec, "5", public)
	var nf *FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, wire.IntKey(5), nf.Key())

	// objects cast from lists carry integer keys too
	obj := `O:8:"stdClass":2:{i:0;s:1:"a";s:1:"0";s:1:"b";}`
	v, err := Get(obj, "0", public)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	_, err = Get(obj, "3", public)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, wire.PublicKey("3"), nf.Key())

	out, err = Set(obj, "1", "c", Options{InputEncoded: true, OutputEncoded: true, Scope: ScopePublic})
	require.NoError(t, err)
	assert.Equal(t, `O:8:"stdClass":3:{i:0;s:1:"a";s:1:"0";s:1:"b";s:1:"1";s:1:"c";}`, out)
}

func TestMalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing int terminator", nul(`O:5:"Point":1:{s:8:"\0Point\0x";i:3}`), "unterminated"},
		{"name length mismatch", nul(`O:4:"Point":1:{s:8:"\0Point\0x";i:3;}`), "does not match name"},
		{"count mismatch", nul(`O:5:"Point":3:{s:8:"\0Point\0x";i:3;s:8:"\0Point\0y";i:4;}`), "count mismatch"},
		{"trailing data", pointRecord + "x", "trailing data"},
		{"scalar", `i:5;`, "unrecognized type tag"},
		{"empty", ``, "unterminated"},
		{"no body", `a:0:{`, "unterminated"},
		{"dangling entry", `a:1:{i:0;}`, "dangling entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(tt.input, "x", encoded)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe.Msg, tt.msg)
			assert.ErrorIs(t, err, wire.ErrFormat)

			_, err = Set(tt.input, "x", 1, raw)
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestInputErrors(t *testing.T) {
	_, err := Get(42, "x", encoded)
	require.ErrorIs(t, err, ErrInputType)

	v, err := Get([]byte(pointRecord), "x", encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	// a scalar encodes fine but is not a record
	_, err = Get(42, "x", Options{})
	require.ErrorAs(t, err, new(*FormatError))

	_, err = Get(make(chan int), "x", Options{})
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "encode", ee.Op)
	assert.ErrorIs(t, err, codec.ErrUnsupported)

	_, err = Set(pointRecord, "z", func() {}, raw)
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, codec.ErrUnsupported)
}

type fixedEncoder struct {
	out string
	err error
}

func (f fixedEncoder) Encode(any) (string, error) { return f.out, f.err }

type failingDecoder struct{}

func (failingDecoder) Decode(string) (any, error) { return nil, errors.New("boom") }

func TestCustomCollaborators(t *testing.T) {
	for _, bad := range []string{"i:1", "i:1;i:2;", ""} {
		a := New(WithEncoder(fixedEncoder{out: bad}))
		_, err := a.Set(pointRecord, "z", 1, raw)
		var ee *EncodingError
		require.ErrorAs(t, err, &ee, bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, wire.ErrFormat)
	}

	a := New(WithEncoder(fixedEncoder{err: errors.New("nope")}))
	_, err := a.Set(pointRecord, "z", 1, raw)
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "encode", ee.Op)
	assert.Equal(t, "int", ee.Type)

	a = New(WithEncoder(fixedEncoder{out: "b:1;"}))
	out, err := a.Set(pointRecord, "z", "ignored", raw)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.(string), nul(`s:8:"\0Point\0z";b:1;}`)))

	a = New(WithDecoder(failingDecoder{}))
	_, err = a.Get(pointRecord, "x", encoded)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "decode", ee.Op)
	assert.EqualError(t, err, "decode: boom")

	tok, err := a.Get(pointRecord, "x", raw)
	require.NoError(t, err)
	assert.Equal(t, "i:3;", tok)
}

func TestAccessorLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := New(WithLogger(zap.New(core)))

	_, err := a.Get(pointRecord, "y", encoded)
	require.NoError(t, err)
	_, err = a.Set(pointRecord, "z", "hi", raw)
	require.NoError(t, err)

	located := logs.FilterMessage("field located").All()
	require.Len(t, located, 1)
	assert.Equal(t, "Point::y", located[0].ContextMap()["key"])
	assert.Equal(t, "int", located[0].ContextMap()["kind"])

	appended := logs.FilterMessage("field appended").All()
	require.Len(t, appended, 1)
	assert.Equal(t, int64(3), appended[0].ContextMap()["count"])

	_, err = a.Get(pointRecord, "nope", encoded)
	require.Error(t, err)
	assert.Equal(t, 2, logs.Len())
}

func TestConcurrentAccess(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			out, err := Set(Point{x: i, y: i}, "z", i, Options{OutputEncoded: true})
			if err != nil {
				return err
			}
			v, err := Get(out, "z", encoded)
			if err != nil {
				return err
			}
			if v != int64(i) {
				return fmt.Errorf("goroutine %d read %v", i, v)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestParseScope(t *testing.T) {
	for _, s := range []Scope{ScopePrivate, ScopeProtected, ScopePublic} {
		got, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopePrivate, got)
	_, err = ParseScope("friend")
	assert.Error(t, err)
	assert.Equal(t, "Scope(9)", Scope(9).String())
}
