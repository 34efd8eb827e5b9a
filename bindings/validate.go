package bindings

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/ethereum/kzg-host/engine"
)

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func wrongType(field, want string, v any) error {
	return &ValidationError{Kind: WrongType, Field: field, Want: want, Got: typeName(v)}
}

func wrongLength(field string, expected, actual int) error {
	return &ValidationError{Kind: WrongLength, Field: field, Expected: expected, Actual: actual}
}

func lengthMismatch(field string, actual int, other string, expected int) error {
	return &ValidationError{Kind: LengthMismatch, Field: field, Actual: actual, Other: other, Expected: expected}
}

func outOfRange(field, value, reason string) error {
	return &ValidationError{Kind: OutOfRange, Field: field, Value: value, Reason: reason}
}

// bytesOf accepts only []byte of exactly length bytes. The result aliases the
// caller's memory.
func bytesOf(v any, field string, length int) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, wrongType(field, "[]byte", v)
	}
	if len(b) != length {
		return nil, wrongLength(field, length, len(b))
	}
	return b, nil
}

func blobOf(v any, field string) (*engine.Blob, error) {
	b, err := bytesOf(v, field, engine.BytesPerBlob)
	if err != nil {
		return nil, err
	}
	return (*engine.Blob)(b), nil
}

func bytes32Of(v any, field string) (*engine.Bytes32, error) {
	b, err := bytesOf(v, field, engine.BytesPerFieldElement)
	if err != nil {
		return nil, err
	}
	return (*engine.Bytes32)(b), nil
}

func bytes48Of(v any, field string) (*engine.Bytes48, error) {
	b, err := bytesOf(v, field, engine.BytesPerCommitment)
	if err != nil {
		return nil, err
	}
	return (*engine.Bytes48)(b), nil
}

func cellOf(v any, field string) (*engine.Cell, error) {
	b, err := bytesOf(v, field, engine.BytesPerCell)
	if err != nil {
		return nil, err
	}
	return (*engine.Cell)(b), nil
}

// uintOf accepts any Go integer, an integral float or a json.Number and
// returns it as a uint64.
func uintOf(v any, field string) (uint64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return 0, outOfRange(field, strconv.FormatInt(n, 10), "is negative")
		}
		return uint64(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return floatToUint(rv.Float(), field)
	case reflect.String:
		num, ok := v.(json.Number)
		if !ok {
			break
		}
		if n, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
			return n, nil
		}
		f, err := num.Float64()
		if err != nil {
			return 0, outOfRange(field, num.String(), "is not a representable number")
		}
		return floatToUint(f, field)
	}
	return 0, wrongType(field, "a number", v)
}

func floatToUint(f float64, field string) (uint64, error) {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, outOfRange(field, text, "is not finite")
	case f < 0:
		return 0, outOfRange(field, text, "is negative")
	case f != math.Trunc(f):
		return 0, outOfRange(field, text, "is not an integer")
	case f >= math.Exp2(64):
		return 0, outOfRange(field, text, "does not fit in 64 bits")
	}
	return uint64(f), nil
}

// array is a validated host array backed by any Go slice or array.
type array struct {
	v     reflect.Value
	field string
}

// indexArrayOf accepts any Go slice or array, []uint8 included, for arrays
// of numeric indices.
func indexArrayOf(v any, field string) (array, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return array{}, wrongType(field, "an array", v)
	}
	return array{v: rv, field: field}, nil
}

// arrayOf accepts arrays of binary values. A byte slice is itself a single
// binary value, so it is rejected.
func arrayOf(v any, field string) (array, error) {
	a, err := indexArrayOf(v, field)
	if err != nil {
		return array{}, err
	}
	if a.v.Type().Elem().Kind() == reflect.Uint8 {
		return array{}, wrongType(field, "an array", v)
	}
	return a, nil
}

func (a array) Len() int { return a.v.Len() }

func (a array) elem(i int) (any, string) {
	return a.v.Index(i).Interface(), fmt.Sprintf("%s[%d]", a.field, i)
}

// collect validates every element of a with conv before anything is
// allocated, so a rejected element never leaves partial state behind.
func collect[T any](a array, conv func(v any, field string) (T, error)) ([]T, error) {
	out := make([]T, a.Len())
	for i := range out {
		v, field := a.elem(i)
		t, err := conv(v, field)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
