package native

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/atomic"
)

// Tracking wraps an allocator and records every live buffer. Releasing a
// buffer it did not hand out, or releasing one twice, panics.
type Tracking struct {
	inner Allocator

	mu   sync.Mutex
	live map[*byte]int

	allocs    *atomic.Int64
	frees     *atomic.Int64
	liveBytes *atomic.Int64
	failAfter *atomic.Int64
}

func NewTracking(inner Allocator) *Tracking {
	return &Tracking{
		inner:     inner,
		live:      make(map[*byte]int),
		allocs:    atomic.NewInt64(0),
		frees:     atomic.NewInt64(0),
		liveBytes: atomic.NewInt64(0),
		failAfter: atomic.NewInt64(-1),
	}
}

// FailAfter lets the next n allocations succeed and fails every one after.
// A negative n disables failures.
func (t *Tracking) FailAfter(n int) {
	t.failAfter.Store(int64(n))
}

func (t *Tracking) Alloc(size int) ([]byte, error) {
	for {
		n := t.failAfter.Load()
		if n < 0 {
			break
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: injected failure", ErrAllocation)
		}
		if t.failAfter.CompareAndSwap(n, n-1) {
			break
		}
	}
	b, err := t.inner.Alloc(size)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.live[unsafe.SliceData(b)] = len(b)
	t.mu.Unlock()
	t.allocs.Inc()
	t.liveBytes.Add(int64(len(b)))
	return b, nil
}

func (t *Tracking) Free(b []byte) {
	key := unsafe.SliceData(b)
	t.mu.Lock()
	size, ok := t.live[key]
	delete(t.live, key)
	t.mu.Unlock()
	if !ok {
		panic("native: free of unknown or already released buffer")
	}
	t.frees.Inc()
	t.liveBytes.Sub(int64(size))
	t.inner.Free(b)
}

// Live returns the number of buffers not yet released.
func (t *Tracking) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

func (t *Tracking) LiveBytes() int64 { return t.liveBytes.Load() }
func (t *Tracking) Allocs() int64    { return t.allocs.Load() }
func (t *Tracking) Frees() int64     { return t.frees.Load() }
