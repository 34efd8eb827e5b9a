package bindings

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/kzg-host/engine"
)

func TestBytesOf(t *testing.T) {
	b := make([]byte, engine.BytesPerCommitment)
	got, err := bytes48Of(b, "commitment")
	require.NoError(t, err)
	got[0] = 9
	require.Equal(t, byte(9), b[0], "views alias caller memory")

	_, err = bytes48Of("0x00", "commitment")
	requireValidation(t, err, WrongType, "commitment")
	require.ErrorIs(t, err, ErrWrongType)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "string")

	_, err = bytes48Of(nil, "commitment")
	requireValidation(t, err, WrongType, "commitment")

	_, err = bytes48Of([48]byte{}, "commitment")
	requireValidation(t, err, WrongType, "commitment")

	_, err = blobOf(make([]byte, engine.BytesPerBlob-1), "blob")
	requireValidation(t, err, WrongLength, "blob")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, engine.BytesPerBlob, ve.Expected)
	require.Equal(t, engine.BytesPerBlob-1, ve.Actual)
	require.EqualError(t, err, "expected blob to be 131072 bytes, got 131071")
}

func TestUintOf(t *testing.T) {
	for _, v := range []any{5, int8(5), uint16(5), int64(5), uint64(5), 5.0, float32(5), json.Number("5"), json.Number("5.0")} {
		n, err := uintOf(v, "id")
		require.NoError(t, err, "%T", v)
		require.EqualValues(t, 5, n)
	}

	n, err := uintOf(uint64(math.MaxUint64), "id")
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), n)

	for _, v := range []any{"5", true, nil, []byte{5}} {
		_, err := uintOf(v, "id")
		requireValidation(t, err, WrongType, "id")
	}
	for _, v := range []any{-1, -0.5, 1.5, math.NaN(), math.Inf(1), 1e20, json.Number("-3"), json.Number("abc")} {
		_, err := uintOf(v, "id")
		requireValidation(t, err, OutOfRange, "id")
		require.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestArrayOf(t *testing.T) {
	for _, v := range []any{[]any{}, [][]byte{{1}}, []int{1, 2}, [2]string{}} {
		_, err := arrayOf(v, "xs")
		require.NoError(t, err, "%T", v)
	}
	for _, v := range []any{nil, []byte{1}, "abc", 3, map[string]any{}} {
		_, err := arrayOf(v, "xs")
		requireValidation(t, err, WrongType, "xs")
	}
}

func TestIndexArrayOf(t *testing.T) {
	arr, err := indexArrayOf([]uint8{0, 1, 127}, "ids")
	require.NoError(t, err)
	ids, err := collect(arr, uintOf)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 127}, ids)

	for _, v := range []any{nil, "abc", 3} {
		_, err := indexArrayOf(v, "ids")
		requireValidation(t, err, WrongType, "ids")
	}
}

func TestCollectReportsIndex(t *testing.T) {
	arr, err := arrayOf([]any{make([]byte, 48), make([]byte, 47)}, "proofs")
	require.NoError(t, err)
	_, err = collect(arr, bytes48Of)
	requireValidation(t, err, WrongLength, "proofs[1]")
}

func TestMapRet(t *testing.T) {
	require.NoError(t, mapRet("op", engine.OK))

	err := mapRet("verifyBlobKzgProofBatch", engine.BadArgs)
	requireEngineError(t, err, BadArgs, engine.BadArgs)
	require.ErrorIs(t, err, ErrBadArgs)
	require.EqualError(t, err, "verifyBlobKzgProofBatch: C_KZG_BADARGS")

	requireEngineError(t, mapRet("op", engine.Error), Internal, engine.Error)
	requireEngineError(t, mapRet("op", engine.Malloc), OutOfMemory, engine.Malloc)
	require.ErrorIs(t, mapRet("op", engine.Malloc), ErrOutOfMemory)

	err = mapRet("op", engine.Ret(99))
	requireEngineError(t, err, Internal, engine.Ret(99))
	require.Contains(t, err.Error(), "UNKNOWN (99)")
}
