package native

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeReleasesEverything(t *testing.T) {
	tr := NewTracking(Default())
	scope := NewScope(tr)

	a, err := scope.Alloc("a", 4, 48)
	require.NoError(t, err)
	require.Equal(t, 192, a.Len())
	b, err := scope.Alloc("b", 3, 8)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Live())
	require.EqualValues(t, 216, tr.LiveBytes())

	for _, v := range a.Bytes() {
		require.Zero(t, v)
	}
	ids := View[uint64](b)
	require.Len(t, ids, 3)
	ids[2] = 7
	require.Equal(t, byte(7), b.Bytes()[16]|b.Bytes()[23])

	scope.Close()
	require.Zero(t, tr.Live())
	require.EqualValues(t, 2, tr.Frees())
	require.Nil(t, a.Bytes())

	scope.Close()
	require.EqualValues(t, 2, tr.Frees())

	_, err = scope.Alloc("late", 1, 1)
	require.ErrorIs(t, err, ErrAllocation)
}

func TestScopeZeroCount(t *testing.T) {
	tr := NewTracking(Default())
	scope := NewScope(tr)
	defer scope.Close()

	buf, err := scope.Alloc("empty", 0, 2048)
	require.NoError(t, err)
	require.Zero(t, buf.Len())
	require.Empty(t, View[[2048]byte](buf))
	require.NotNil(t, View[[2048]byte](buf))
	require.Zero(t, tr.Allocs())
}

func TestScopeOverflow(t *testing.T) {
	scope := NewScope(GoHeap{})
	defer scope.Close()

	_, err := scope.Alloc("huge", math.MaxInt/2+1, 2)
	require.ErrorIs(t, err, ErrAllocation)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	require.Equal(t, "huge", allocErr.Buffer)

	_, err = scope.Alloc("negative", -1, 2)
	require.ErrorIs(t, err, ErrAllocation)
}

func TestFailAfter(t *testing.T) {
	tr := NewTracking(GoHeap{})
	tr.FailAfter(1)
	scope := NewScope(tr)

	_, err := scope.Alloc("first", 1, 32)
	require.NoError(t, err)
	_, err = scope.Alloc("second", 1, 32)
	require.ErrorIs(t, err, ErrAllocation)
	require.Equal(t, 1, tr.Live())

	scope.Close()
	require.Zero(t, tr.Live())
}

func TestWithLimit(t *testing.T) {
	tr := NewTracking(GoHeap{})
	scope := NewScope(WithLimit(tr, 1024))
	defer scope.Close()

	_, err := scope.Alloc("small", 32, 32)
	require.NoError(t, err)
	_, err = scope.Alloc("big", 33, 32)
	require.ErrorIs(t, err, ErrAllocation)
	require.Equal(t, 1, tr.Live())
}

func TestTrackingDoubleFree(t *testing.T) {
	tr := NewTracking(GoHeap{})
	b, err := tr.Alloc(16)
	require.NoError(t, err)
	tr.Free(b)
	require.Panics(t, func() { tr.Free(b) })
}
