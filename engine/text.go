package engine

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidHex is returned when a hex string does not encode exactly the
// number of bytes of the target type.
var ErrInvalidHex = errors.New("invalid hex length")

func decodeFixedHex(dst, input []byte) error {
	input = bytes.TrimPrefix(input, []byte("0x"))
	if len(input) != 2*len(dst) {
		return fmt.Errorf("%w: want %d chars, got %d", ErrInvalidHex, 2*len(dst), len(input))
	}
	if _, err := hex.Decode(dst, input); err != nil {
		return err
	}
	return nil
}

func (b *Bytes32) UnmarshalText(input []byte) error {
	return decodeFixedHex(b[:], input)
}

func (b *Bytes48) UnmarshalText(input []byte) error {
	return decodeFixedHex(b[:], input)
}

func (b *Blob) UnmarshalText(input []byte) error {
	return decodeFixedHex(b[:], input)
}

func (c *Cell) UnmarshalText(input []byte) error {
	return decodeFixedHex(c[:], input)
}

func (b Bytes32) MarshalText() ([]byte, error) { return encodeHex(b[:]), nil }
func (b Bytes48) MarshalText() ([]byte, error) { return encodeHex(b[:]), nil }

func encodeHex(src []byte) []byte {
	out := make([]byte, 2+hex.EncodedLen(len(src)))
	copy(out, "0x")
	hex.Encode(out[2:], src)
	return out
}

// FieldElement returns the i-th 32-byte field element of the cell.
func (c *Cell) FieldElement(i int) []byte {
	return c[i*BytesPerFieldElement : (i+1)*BytesPerFieldElement]
}
