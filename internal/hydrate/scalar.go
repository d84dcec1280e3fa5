package hydrate

import (
	"encoding/base64"
	"strconv"
)

// Number is the set of numeric field types a record may declare.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// numeric matches json.Number from either the standard library or go-json.
type numeric interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// String returns v when it is a string and "" otherwise.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Bool returns v when it is a bool and false otherwise.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Num converts any numeric value to T. Strings, bools and structured values
// are not numbers and give the zero value. Negative values give zero for
// unsigned T.
func Num[T Number](v any) T {
	switch n := v.(type) {
	case T:
		return n
	case numeric:
		return fromNumeric[T](n)
	case float64:
		return fromFloat[T](n)
	case float32:
		return fromFloat[T](float64(n))
	case int:
		return fromInt[T](int64(n))
	case int8:
		return fromInt[T](int64(n))
	case int16:
		return fromInt[T](int64(n))
	case int32:
		return fromInt[T](int64(n))
	case int64:
		return fromInt[T](n)
	case uint:
		return T(n)
	case uint8:
		return T(n)
	case uint16:
		return T(n)
	case uint32:
		return T(n)
	case uint64:
		return T(n)
	}
	var zero T
	return zero
}

func fromNumeric[T Number](n numeric) T {
	if i, err := n.Int64(); err == nil {
		return fromInt[T](i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return T(u)
	}
	f, _ := n.Float64()
	return fromFloat[T](f)
}

func fromInt[T Number](i int64) T {
	if i < 0 && unsigned[T]() {
		return 0
	}
	return T(i)
}

func fromFloat[T Number](f float64) T {
	if f < 0 && unsigned[T]() {
		return 0
	}
	return T(f)
}

func unsigned[T Number]() bool {
	var z T
	z--
	return z > 0
}

// Bytes accepts a byte slice, base64 text (how encoding/json writes []byte)
// or a sequence of byte-sized numbers.
func Bytes(v any) []byte {
	switch b := v.(type) {
	case nil:
		return nil
	case []byte:
		return b
	case string:
		decoded, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil
		}
		return decoded
	}
	return List(v, Num[byte])
}
