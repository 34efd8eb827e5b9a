//go:build cgo

package native

// #include <stdlib.h>
import "C"

import (
	"fmt"
	"unsafe"
)

// CHeap allocates with calloc and releases with free.
type CHeap struct{}

func (CHeap) Alloc(size int) ([]byte, error) {
	p := C.calloc(C.size_t(size), 1)
	if p == nil {
		return nil, fmt.Errorf("%w: calloc(%d)", ErrAllocation, size)
	}
	return unsafe.Slice((*byte)(p), size), nil
}

func (CHeap) Free(b []byte) {
	C.free(unsafe.Pointer(unsafe.SliceData(b)))
}

// Default returns the C heap allocator.
func Default() Allocator { return CHeap{} }
