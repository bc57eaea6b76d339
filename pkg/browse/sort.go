// Package browse implements the list pipeline behind the restaurant and menu
// views: name filtering, the sort catalog, debounced search input, and
// review ordering.
//
// The pipeline runs filter first, then sort, over value copies. Input slices
// are never mutated, so a re-render with the "none" key always recovers the
// order the server provided.
package browse

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

// SortKey names one ordering of a list view.
type SortKey string

// The sort catalog. Numeric keys treat missing values as zero; text keys
// collate case-insensitively.
const (
	SortNone         SortKey = "none"
	SortRatingDesc   SortKey = "rating_desc"
	SortRatingAsc    SortKey = "rating_asc"
	SortValueDesc    SortKey = "value_desc"
	SortReviewCount  SortKey = "reviews"
	SortMenuItems    SortKey = "menu_items"
	SortLocation     SortKey = "location"
	SortAlphabetical SortKey = "alphabetical"
)

// RestaurantSortKeys is every key the restaurant list accepts.
var RestaurantSortKeys = []SortKey{
	SortNone, SortRatingDesc, SortRatingAsc, SortValueDesc,
	SortReviewCount, SortMenuItems, SortLocation, SortAlphabetical,
}

// MenuSortKeys is every key the menu list accepts. Menus have no location or
// item-count column.
var MenuSortKeys = []SortKey{
	SortNone, SortRatingDesc, SortRatingAsc, SortValueDesc,
	SortReviewCount, SortAlphabetical,
}

// ParseSortKey validates a user-supplied sort key against the allowed set.
func ParseSortKey(raw string, allowed []SortKey) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if key == "" {
		return SortNone, nil
	}
	for _, k := range allowed {
		if key == k {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort key %q", pberrors.ErrValidation, raw)
}

// Entity is the sortable projection of a list entry. Restaurants and menu
// items both reduce to it; fields a view lacks stay zero and sort last under
// the keys that read them.
type Entity struct {
	ID            int
	Name          string
	Location      string
	AverageRating float64
	AverageValue  float64
	ReviewCount   int
	MenuItemCount int
}

// RestaurantEntity projects a catalog entry for sorting.
func RestaurantEntity(r client.Restaurant) Entity {
	return Entity{
		ID:            r.ID,
		Name:          r.Name,
		Location:      r.Location,
		AverageRating: r.AverageRating.Float64(),
		AverageValue:  r.AverageValue.Float64(),
		ReviewCount:   r.ReviewCount.Int(),
		MenuItemCount: r.MenuItemCount.Int(),
	}
}

// FoodEntity projects a menu item plus its loaded stats for sorting.
func FoodEntity(f client.Food, reviewCount int, averageRating float64) Entity {
	return Entity{
		ID:            f.ID,
		Name:          f.Name,
		AverageValue:  f.Value.Float64(),
		ReviewCount:   reviewCount,
		AverageRating: averageRating,
	}
}

// FilterByName returns the entities whose name contains the query,
// case-insensitively. An empty query returns a copy of the input.
func FilterByName(entities []Entity, query string) []Entity {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if query == "" || strings.Contains(strings.ToLower(e.Name), query) {
			out = append(out, e)
		}
	}
	return out
}

// Sort returns the entities ordered by the given key. The sort is stable and
// works on a copy; SortNone returns the input order untouched.
func Sort(entities []Entity, key SortKey) []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	if key == SortNone || key == "" {
		return out
	}

	var less func(a, b Entity) bool
	switch key {
	case SortRatingDesc:
		less = func(a, b Entity) bool { return a.AverageRating > b.AverageRating }
	case SortRatingAsc:
		less = func(a, b Entity) bool { return a.AverageRating < b.AverageRating }
	case SortValueDesc:
		less = func(a, b Entity) bool { return a.AverageValue > b.AverageValue }
	case SortReviewCount:
		less = func(a, b Entity) bool { return a.ReviewCount > b.ReviewCount }
	case SortMenuItems:
		less = func(a, b Entity) bool { return a.MenuItemCount > b.MenuItemCount }
	case SortLocation:
		coll := newCollator()
		less = func(a, b Entity) bool { return coll.CompareString(a.Location, b.Location) < 0 }
	case SortAlphabetical:
		coll := newCollator()
		less = func(a, b Entity) bool { return coll.CompareString(a.Name, b.Name) < 0 }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// newCollator builds a fresh case-insensitive collator. Collators are not
// safe for concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
