package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderObject(t *testing.T) {
	src := `O:5:"Point":2:{s:1:"x";i:3;s:1:"y";i:4;}`
	h, body, err := ParseHeader(src, 0)
	require.NoError(t, err)
	assert.Equal(t, Header{Kind: KindObject, Name: "Point", Count: 2}, h)
	assert.Equal(t, len(`O:5:"Point":2:{`), body)
}

func TestParseHeaderArray(t *testing.T) {
	src := `a:1:{i:0;N;}`
	h, body, err := ParseHeader(src, 0)
	require.NoError(t, err)
	assert.Equal(t, Header{Kind: KindArray, Count: 1}, h)
	assert.Equal(t, 5, body)
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"name too long", `O:6:"Point":2:{}`, "does not match name"},
		{"name too short", `O:4:"Point":2:{}`, "does not match name"},
		{"name overrun", `O:50:"Point":0:{}`, "overruns"},
		{"bad tag", `X:1:{}`, "unrecognized type tag"},
		{"scalar tag", `i:1;`, "unrecognized type tag"},
		{"no brace", `O:5:"Point":0:`, "unterminated"},
		{"bad count", `O:5:"Point":x:{}`, "invalid length"},
		{"count overrun", `a:99:{}`, "overruns"},
		{"empty", ``, "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseHeader(tt.in, 0)
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Contains(t, fe.Msg, tt.msg)
		})
	}
}

func TestBuildHeader(t *testing.T) {
	require.Equal(t, `O:5:"Point":3:`, BuildHeader("Point", 3))
	require.Equal(t, `a:0:`, Header{Kind: KindArray}.String())

	h, body, err := ParseHeader(BuildHeader("Käse", 0)+"{}", 0)
	require.NoError(t, err)
	assert.Equal(t, "Käse", h.Name)
	assert.Equal(t, 0, h.Count)
	assert.Equal(t, len(`O:5:"Käse":0:{`), body)
	require.Equal(t, `O:5:"Käse":12:`, BuildHeader("Käse", 12))
}
