package codec

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Profile struct {
	Name   string
	Age    int32
	Score  float64
	Tags   []string
	Active bool
	Meta   map[string]int
	Nick   *string `serial:"nick"`
	Raw    []byte
}

func TestDecodeIntoRoundTrip(t *testing.T) {
	condition := func(p Profile) bool {
		rec, err := Encode(p)
		require.NoError(t, err)
		var out Profile
		require.NoError(t, DecodeInto(rec, &out))
		return assert.ObjectsAreEqual(p, out)
	}
	if err := quick.Check(condition, &quick.Config{}); err != nil {
		t.Errorf("Error: %v", err)
	}
}

func TestDecodeIntoSkipsPrivate(t *testing.T) {
	type holder struct {
		Pub  int
		priv int
	}
	var h holder
	err := DecodeInto(nul(`O:6:"holder":2:{s:3:"Pub";i:4;s:12:"\0holder\0priv";i:9;}`), &h)
	require.NoError(t, err)
	assert.Equal(t, 4, h.Pub)
	assert.Equal(t, 0, h.priv)
}

func TestDecodeIntoCollections(t *testing.T) {
	var arr [3]int
	require.NoError(t, DecodeInto(`a:2:{i:0;i:5;i:1;i:6;}`, &arr))
	assert.Equal(t, [3]int{5, 6, 0}, arr)

	var m map[int]string
	require.NoError(t, DecodeInto(`a:2:{i:3;s:1:"c";i:1;s:1:"a";}`, &m))
	assert.Equal(t, map[int]string{1: "a", 3: "c"}, m)

	var fields map[string]any
	require.NoError(t, DecodeInto(nul(`O:1:"A":2:{s:4:"\0A\0p";i:1;s:1:"q";N;}`), &fields))
	assert.Equal(t, map[string]any{"A::p": int64(1), "q": nil}, fields)

	var anything any
	require.NoError(t, DecodeInto(`a:1:{i:0;b:1;}`, &anything))
	assert.Equal(t, List(true), anything)

	var f32 float32
	require.NoError(t, DecodeInto(`i:2;`, &f32))
	assert.Equal(t, float32(2), f32)
}

func TestDecodeIntoErrors(t *testing.T) {
	var n int
	require.ErrorIs(t, DecodeInto(`i:1;`, n), ErrNotPointer)
	require.ErrorIs(t, DecodeInto(`i:1;`, (*int)(nil)), ErrNotPointer)
	require.ErrorIs(t, DecodeInto(`s:1:"a";`, &n), ErrMismatch)

	var small int8
	require.ErrorIs(t, DecodeInto(`i:300;`, &small), ErrMismatch)

	var u uint
	require.ErrorIs(t, DecodeInto(`i:-1;`, &u), ErrMismatch)

	var arr [1]int
	require.ErrorIs(t, DecodeInto(`a:2:{i:0;i:1;i:1;i:2;}`, &arr), ErrMismatch)

	var p Profile
	err := DecodeInto(`O:7:"Profile":1:{s:3:"Age";s:2:"no";}`, &p)
	require.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "field Age")
}
