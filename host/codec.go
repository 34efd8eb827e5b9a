package host

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeValue converts a JSON or YAML value tree into runtime values:
// 0x-prefixed strings become []byte, lists become []any and maps are decoded
// element by element. Everything else is returned unchanged.
func DecodeValue(v any) (any, error) {
	switch v := v.(type) {
	case string:
		if !strings.HasPrefix(v, "0x") && !strings.HasPrefix(v, "0X") {
			return v, nil
		}
		b, err := hexutil.Decode("0x" + v[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex value %q: %w", abbreviate(v), err)
		}
		return b, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			d, err := DecodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = d
		}
		return out, nil
	case []string:
		return DecodeValue(stringsToAny(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			d, err := DecodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = d
		}
		return out, nil
	}
	return v, nil
}

// EncodeValue is the inverse of DecodeValue for the values exported functions
// return: byte slices become 0x-prefixed lowercase hex strings and slices
// become []any.
func EncodeValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return hexutil.Encode(v)
	case [][]byte:
		out := make([]any, len(v))
		for i, b := range v {
			out[i] = hexutil.Encode(b)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = EncodeValue(e)
		}
		return out
	}
	return v
}

func stringsToAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func abbreviate(s string) string {
	if len(s) <= 20 {
		return s
	}
	return s[:20] + "..."
}
