package browse

import (
	"context"
	"strings"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/pkg/logging"
	"github.com/polybites/polybites-cli/pkg/observability"
)

// Searcher is the slice of the API client the menu search needs.
// *client.Client satisfies it.
type Searcher interface {
	SearchFoods(ctx context.Context, restaurantID int, query string) ([]client.Food, error)
}

// MenuSearch resolves a menu search query against the server, degrading to a
// local substring filter over the already-loaded menu when the server search
// fails. A blank query deactivates search and yields the full menu.
type MenuSearch struct {
	searcher Searcher
	log      logging.Logger
	metrics  *observability.BrowserMetrics
}

// NewMenuSearch returns a search over the given backend.
func NewMenuSearch(searcher Searcher, log logging.Logger, metrics *observability.BrowserMetrics) *MenuSearch {
	if log == nil {
		log = logging.Nop()
	}
	return &MenuSearch{searcher: searcher, log: log, metrics: metrics}
}

// Result is one resolved search: the matching foods and whether search is
// active. Active is false exactly when the query was blank.
type Result struct {
	Foods  []client.Food
	Active bool
}

// Search resolves query for one restaurant. loaded is the full menu already
// in memory, used both for the blank-query result and as the fallback corpus
// when the server search fails.
func (m *MenuSearch) Search(ctx context.Context, restaurantID int, loaded []client.Food, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		m.countSearch(observability.SearchSourceLocal)
		return Result{Foods: loaded, Active: false}
	}

	foods, err := m.searcher.SearchFoods(ctx, restaurantID, query)
	if err != nil {
		m.log.Debug("server search failed, filtering locally",
			logging.F("restaurant_id", restaurantID),
			logging.F("query", query),
			logging.Err(err))
		m.countSearch(observability.SearchSourceFallback)
		return Result{Foods: filterFoods(loaded, query), Active: true}
	}

	m.countSearch(observability.SearchSourceRemote)
	return Result{Foods: foods, Active: true}
}

func (m *MenuSearch) countSearch(source string) {
	if m.metrics != nil {
		m.metrics.SearchRequestsTotal.WithLabelValues(source).Inc()
	}
}

// filterFoods is the client-side fallback: case-insensitive substring match
// on the name.
func filterFoods(foods []client.Food, query string) []client.Food {
	query = strings.ToLower(query)
	out := make([]client.Food, 0, len(foods))
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
		}
	}
	return out
}
