package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKey_DefaultWhenUnset(t *testing.T) {
	s := NewStore(t.TempDir())

	assert.Equal(t, DefaultSortKey, s.SortKey(ViewRestaurants))
	assert.Equal(t, DefaultSortKey, s.SortKey(ViewMenu))
}

func TestSetSortKey_PersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	require.NoError(t, s.SetSortKey(ViewRestaurants, "rating_desc"))

	// A fresh store over the same directory sees the saved value,
	// the same way a new CLI invocation would.
	reopened := NewStore(dir)
	assert.Equal(t, "rating_desc", reopened.SortKey(ViewRestaurants))
}

func TestSetSortKey_ViewsAreIndependent(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.SetSortKey(ViewRestaurants, "location"))
	require.NoError(t, s.SetSortKey(ViewMenu, "value_desc"))

	assert.Equal(t, "location", s.SortKey(ViewRestaurants))
	assert.Equal(t, "value_desc", s.SortKey(ViewMenu))
}

func TestSetSortKey_Overwrite(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.SetSortKey(ViewMenu, "alphabetical"))
	require.NoError(t, s.SetSortKey(ViewMenu, "none"))

	assert.Equal(t, "none", s.SortKey(ViewMenu))
}
