package bindings

import (
	"unsafe"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/internal/native"
)

// allocate acquires a zeroed native buffer of n elements of T from scope.
func allocate[T any](scope *native.Scope, name string, n int) ([]T, error) {
	var zero T
	buf, err := scope.Alloc(name, n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return native.View[T](buf), nil
}

// marshal copies already validated elements into one contiguous native
// buffer, the layout the engine expects for batch inputs.
func marshal[T any](scope *native.Scope, name string, src []*T) ([]T, error) {
	dst, err := allocate[T](scope, name, len(src))
	if err != nil {
		return nil, err
	}
	for i, p := range src {
		dst[i] = *p
	}
	return dst, nil
}

func marshalIndices(scope *native.Scope, name string, src []uint64) ([]uint64, error) {
	dst, err := allocate[uint64](scope, name, len(src))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cellsOut(cells []engine.Cell) [][]byte {
	out := make([][]byte, len(cells))
	for i := range cells {
		out[i] = clone(cells[i][:])
	}
	return out
}

func proofsOut(proofs []engine.KZGProof) [][]byte {
	out := make([][]byte, len(proofs))
	for i := range proofs {
		out[i] = clone(proofs[i][:])
	}
	return out
}
