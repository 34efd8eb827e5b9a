//go:build !cgo

package native

// Default returns the Go heap allocator; there is no C heap without cgo.
func Default() Allocator { return GoHeap{} }
