package common

import (
	"math"
	"reflect"
	"strconv"
)

// IsIntKind reports whether k is a signed integer kind.
func IsIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

// IsUintKind reports whether k is an unsigned integer kind.
func IsUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// IsFloatKind reports whether k is a floating point kind.
func IsFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// ReadUint decodes an unsigned decimal number from the start of s, returning
// the value and the number of bytes consumed. It consumes nothing on an empty
// digit run or on overflow.
func ReadUint(s string) (uint64, int) {
	var x uint64
	i := 0
	for i < len(s) {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := uint64(c - '0')
		if x > (math.MaxUint64-d)/10 {
			return 0, 0
		}
		x = x*10 + d
		i++
	}
	if i == 0 {
		return 0, 0
	}
	return x, i
}

// AppendUint appends the decimal form of x to dst.
func AppendUint(dst []byte, x uint64) []byte {
	return strconv.AppendUint(dst, x, 10)
}

// AppendInt appends the decimal form of x to dst.
func AppendInt(dst []byte, x int64) []byte {
	return strconv.AppendInt(dst, x, 10)
}
