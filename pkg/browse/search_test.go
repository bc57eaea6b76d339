package browse

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results []client.Food
	err     error
	queries []string
}

func (f *fakeSearcher) SearchFoods(_ context.Context, _ int, query string) ([]client.Food, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func sampleMenu() []client.Food {
	return []client.Food{
		{ID: 1, Name: "Margherita Pizza"},
		{ID: 2, Name: "Pasta Carbonara"},
		{ID: 3, Name: "Tiramisu"},
	}
}

func TestMenuSearch_BlankQueryDeactivates(t *testing.T) {
	searcher := &fakeSearcher{}
	search := NewMenuSearch(searcher, nil, nil)

	for _, query := range []string{"", "   ", "\t"} {
		result := search.Search(context.Background(), 1, sampleMenu(), query)
		assert.False(t, result.Active, "query %q", query)
		assert.Len(t, result.Foods, 3)
	}
	assert.Empty(t, searcher.queries, "blank queries must not hit the server")
}

func TestMenuSearch_ServerResults(t *testing.T) {
	searcher := &fakeSearcher{results: []client.Food{{ID: 2, Name: "Pasta Carbonara"}}}
	search := NewMenuSearch(searcher, nil, nil)

	result := search.Search(context.Background(), 1, sampleMenu(), " pasta ")
	require.True(t, result.Active)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, 2, result.Foods[0].ID)
	// The query is trimmed before it goes to the server.
	assert.Equal(t, []string{"pasta"}, searcher.queries)
}

func TestMenuSearch_FallsBackToLocalFilter(t *testing.T) {
	searcher := &fakeSearcher{err: pberrors.ErrNetworkFailure}
	search := NewMenuSearch(searcher, nil, nil)

	result := search.Search(context.Background(), 1, sampleMenu(), "PIZZA")
	require.True(t, result.Active)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, "Margherita Pizza", result.Foods[0].Name)
}

func TestMenuSearch_FallbackNoMatches(t *testing.T) {
	searcher := &fakeSearcher{err: pberrors.ErrFetchFailed}
	search := NewMenuSearch(searcher, nil, nil)

	result := search.Search(context.Background(), 1, sampleMenu(), "sushi")
	assert.True(t, result.Active)
	assert.Empty(t, result.Foods)
}
