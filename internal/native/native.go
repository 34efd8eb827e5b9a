// Package native allocates the flat buffers handed to a KZG engine and
// guarantees they are released exactly once.
package native

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// ErrAllocation is wrapped by every allocation failure.
var ErrAllocation = errors.New("allocation failed")

// Allocator hands out zeroed memory. Free must be called exactly once per
// successful Alloc with the slice Alloc returned.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte)
}

// AllocError describes a failed buffer acquisition.
type AllocError struct {
	Buffer string
	Size   int
	Err    error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("allocating %s (%d bytes): %v", e.Buffer, e.Size, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }

type limited struct {
	Allocator
	limit int
}

// WithLimit fails every request larger than limit bytes instead of passing
// it on to a. A non-positive limit returns a unchanged.
func WithLimit(a Allocator, limit int) Allocator {
	if limit <= 0 {
		return a
	}
	return &limited{Allocator: a, limit: limit}
}

func (l *limited) Alloc(size int) ([]byte, error) {
	if size > l.limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocation, size, l.limit)
	}
	return l.Allocator.Alloc(size)
}

// GoHeap allocates from the Go heap. Free drops the reference.
type GoHeap struct{}

func (GoHeap) Alloc(size int) ([]byte, error) { return make([]byte, size), nil }

func (GoHeap) Free([]byte) {}

// Buffer is one allocation owned by a Scope.
type Buffer struct {
	name  string
	bytes []byte
	freed bool
}

func (b *Buffer) Name() string  { return b.name }
func (b *Buffer) Bytes() []byte { return b.bytes }
func (b *Buffer) Len() int      { return len(b.bytes) }

// View reinterprets the buffer as a slice of T. T must be a fixed-size type
// whose alignment the allocator honours (byte arrays and uint64).
func View[T any](b *Buffer) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(b.bytes) < size {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.bytes))), len(b.bytes)/size)
}

// Scope collects the buffers of one operation. Close releases all of them, in
// reverse acquisition order, and may be called any number of times.
type Scope struct {
	alloc   Allocator
	buffers []*Buffer
	closed  bool
}

func NewScope(a Allocator) *Scope {
	return &Scope{alloc: a}
}

// Alloc acquires count*elemSize zeroed bytes. A zero-sized request yields an
// empty buffer without calling the allocator.
func (s *Scope) Alloc(name string, count, elemSize int) (*Buffer, error) {
	if s.closed {
		return nil, &AllocError{Buffer: name, Err: fmt.Errorf("%w: scope closed", ErrAllocation)}
	}
	if count < 0 || elemSize <= 0 {
		return nil, &AllocError{Buffer: name, Err: fmt.Errorf("%w: invalid size %d x %d", ErrAllocation, count, elemSize)}
	}
	if count > 0 && elemSize > math.MaxInt/count {
		return nil, &AllocError{Buffer: name, Err: fmt.Errorf("%w: size overflow %d x %d", ErrAllocation, count, elemSize)}
	}
	size := count * elemSize
	buf := &Buffer{name: name, bytes: []byte{}}
	if size > 0 {
		b, err := s.alloc.Alloc(size)
		if err != nil {
			return nil, &AllocError{Buffer: name, Size: size, Err: err}
		}
		buf.bytes = b
	}
	s.buffers = append(s.buffers, buf)
	return buf, nil
}

func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.buffers) - 1; i >= 0; i-- {
		b := s.buffers[i]
		if !b.freed && len(b.bytes) > 0 {
			s.alloc.Free(b.bytes)
		}
		b.freed = true
		b.bytes = nil
	}
	s.buffers = nil
}
