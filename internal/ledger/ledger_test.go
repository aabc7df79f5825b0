package ledger

import (
	"testing"

	"fenrir/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAssignsStableIndex(t *testing.T) {
	l := New()

	idx := l.Insert(common.Order{OrderID: 1})
	got, ok := l.Get(idx)
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.OrderID)
}

func TestUpdateOverwritesInPlace(t *testing.T) {
	l := New()
	idx := l.Insert(common.Order{OrderID: 1, Quantity: 100})

	l.Update(idx, common.Order{OrderID: 1, Quantity: 40})
	got, ok := l.Get(idx)
	require.True(t, ok)
	assert.EqualValues(t, 40, got.Quantity)
}

func TestReleaseFreesSlotForReuse(t *testing.T) {
	l := New()
	idx := l.Insert(common.Order{OrderID: 1})
	l.Release(idx)

	_, ok := l.Get(idx)
	assert.False(t, ok)

	newIdx := l.Insert(common.Order{OrderID: 2})
	assert.Equal(t, idx, newIdx, "freed slots should be reused before growing the slab")
}

func TestLenTracksLiveEntriesOnly(t *testing.T) {
	l := New()
	a := l.Insert(common.Order{OrderID: 1})
	l.Insert(common.Order{OrderID: 2})
	assert.Equal(t, 2, l.Len())

	l.Release(a)
	assert.Equal(t, 1, l.Len())
}

func TestGetOnUnknownIndexReturnsFalse(t *testing.T) {
	l := New()
	_, ok := l.Get(42)
	assert.False(t, ok)
}

func TestReleaseIsIdempotentOnUnknownIndex(t *testing.T) {
	l := New()
	assert.NotPanics(t, func() { l.Release(5) })
}
