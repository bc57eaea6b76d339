package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestWindow_TotalPages(t *testing.T) {
	tests := []struct {
		items int
		pages int
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{6, 2},
		{7, 3},
	}

	for _, tt := range tests {
		w := NewWindow[int](3)
		w.SetItems(intRange(tt.items))
		assert.Equal(t, tt.pages, w.TotalPages(), "items=%d", tt.items)
	}
}

func TestWindow_PageCounts(t *testing.T) {
	// Seven items at page size 3 split 3/3/1; navigation past either end
	// stays put.
	w := NewWindow[int](3)
	w.SetItems(intRange(7))

	assert.Equal(t, 1, w.Page())
	assert.Len(t, w.Items(), 3)

	require.True(t, w.Next())
	assert.Len(t, w.Items(), 3)

	require.True(t, w.Next())
	assert.Len(t, w.Items(), 1)
	assert.Equal(t, []int{7}, w.Items())

	assert.False(t, w.Next())
	assert.Equal(t, 3, w.Page())
	assert.Len(t, w.Items(), 1)

	w.SetPage(1)
	assert.False(t, w.Prev())
	assert.Equal(t, 1, w.Page())
	assert.Len(t, w.Items(), 3)

	w.SetItems(nil)
	assert.Equal(t, 1, w.Page())
	assert.Empty(t, w.Items())
	assert.False(t, w.Next())
	assert.False(t, w.Prev())
}

func TestWindow_SetItemsResetsPage(t *testing.T) {
	w := NewWindow[int](3)
	w.SetItems(intRange(9))
	w.SetPage(3)
	require.Equal(t, 3, w.Page())

	// A re-sort or refetch replaces the items and snaps back to page 1.
	w.SetItems(intRange(4))
	assert.Equal(t, 1, w.Page())
	assert.Equal(t, []int{1, 2, 3}, w.Items())
}

func TestWindow_SetPageClamps(t *testing.T) {
	w := NewWindow[int](3)
	w.SetItems(intRange(5))

	w.SetPage(99)
	assert.Equal(t, 2, w.Page())

	w.SetPage(-4)
	assert.Equal(t, 1, w.Page())
}

func TestWindow_DefaultPageSize(t *testing.T) {
	w := NewWindow[string](0)
	assert.Equal(t, DefaultPageSize, w.PageSize())
}
