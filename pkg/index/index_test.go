package index

import (
	"testing"

	"github.com/marshallshelly/miniql/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInOrderAscending(t *testing.T) {
	tr := New()
	for _, k := range []int32{3, 1, 4, 1, 5, 9, 2, 6} {
		if _, ok := tr.Lookup(value.NewInt(k)); ok {
			continue
		}
		require.NoError(t, tr.Insert(value.NewInt(k), int(k)))
	}

	keys := tr.Keys()
	for i := 1; i < len(keys); i++ {
		c, err := value.Compare(keys[i-1], keys[i])
		require.NoError(t, err)
		assert.True(t, c < 0, "keys must be strictly ascending")
	}
}

func TestDuplicateRejected(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert(value.NewInt(1), "a"))
	assert.Error(t, tr.Insert(value.NewInt(1), "b"))
	assert.Equal(t, 1, tr.Len())
}

func TestDeleteWithTwoChildren(t *testing.T) {
	tr := New()
	for _, k := range []int32{5, 2, 8, 1, 3, 7, 9} {
		require.NoError(t, tr.Insert(value.NewInt(k), k))
	}
	tr.Delete(value.NewInt(5))

	_, ok := tr.Lookup(value.NewInt(5))
	assert.False(t, ok)
	assert.Equal(t, 6, tr.Len())

	keys := tr.Keys()
	require.Len(t, keys, 6)
	for i := 1; i < len(keys); i++ {
		c, _ := value.Compare(keys[i-1], keys[i])
		assert.True(t, c < 0)
	}
}

func TestBijectionAfterInsertsAndDeletes(t *testing.T) {
	tr := New()
	want := map[int32]bool{}
	for _, k := range []int32{10, 20, 5, 15, 25, 1} {
		require.NoError(t, tr.Insert(value.NewInt(k), k))
		want[k] = true
	}
	tr.Delete(value.NewInt(20))
	delete(want, 20)

	got := map[int32]bool{}
	for _, k := range tr.Keys() {
		got[k.Int] = true
	}
	assert.Equal(t, want, got)
}
