package wire

import (
	"math"
	"strconv"

	"github.com/rawbytedev/serialfield/internal/common"
)

func AppendNull(dst []byte) []byte {
	return append(dst, "N;"...)
}

func AppendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, "b:1;"...)
	}
	return append(dst, "b:0;"...)
}

func AppendInt(dst []byte, i int64) []byte {
	dst = append(dst, "i:"...)
	dst = common.AppendInt(dst, i)
	return append(dst, ';')
}

// AppendFloat appends a double token using the shortest representation that
// round-trips at the given bit size. Infinities and NaN use INF, -INF and NAN.
func AppendFloat(dst []byte, f float64, bitSize int) []byte {
	dst = append(dst, "d:"...)
	switch {
	case math.IsInf(f, 1):
		dst = append(dst, "INF"...)
	case math.IsInf(f, -1):
		dst = append(dst, "-INF"...)
	case math.IsNaN(f):
		dst = append(dst, "NAN"...)
	default:
		dst = strconv.AppendFloat(dst, f, 'g', -1, bitSize)
	}
	return append(dst, ';')
}

func AppendString(dst []byte, s string) []byte {
	dst = append(dst, "s:"...)
	dst = appendLen(dst, len(s))
	dst = append(dst, ":\""...)
	dst = append(dst, s...)
	return append(dst, "\";"...)
}

func appendLen(dst []byte, n int) []byte {
	return common.AppendUint(dst, uint64(n))
}
