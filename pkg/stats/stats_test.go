package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

type fakeStatsFetcher struct {
	mu sync.Mutex

	foodStats   map[int]client.Stats
	failingFood map[int]bool
	menuStats   map[int]client.Stats
	menuErr     error
	likeCounts  map[int]int
	likedBy     map[int]bool

	foodCalls  map[int]int
	likedCalls int
	menuCalls  int
}

func newFakeStatsFetcher() *fakeStatsFetcher {
	return &fakeStatsFetcher{
		foodStats:   make(map[int]client.Stats),
		failingFood: make(map[int]bool),
		menuStats:   make(map[int]client.Stats),
		likeCounts:  make(map[int]int),
		likedBy:     make(map[int]bool),
		foodCalls:   make(map[int]int),
	}
}

func (f *fakeStatsFetcher) FoodStats(_ context.Context, foodID int) (client.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foodCalls[foodID]++
	if f.failingFood[foodID] {
		return client.Stats{}, pberrors.ErrFetchFailed
	}
	return f.foodStats[foodID], nil
}

func (f *fakeStatsFetcher) GeneralStats(_ context.Context, restaurantID int) (client.Stats, error) {
	return client.Stats{ReviewCount: 2, AverageRating: 3.5}, nil
}

func (f *fakeStatsFetcher) FoodStatsByRestaurant(_ context.Context, restaurantID int) (map[int]client.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menuCalls++
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	return f.menuStats, nil
}

func (f *fakeStatsFetcher) LikeCountFor(_ context.Context, _ client.ReviewKind, reviewID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likeCounts[reviewID], nil
}

func (f *fakeStatsFetcher) HasLiked(_ context.Context, _ client.ReviewKind, reviewID int, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likedCalls++
	return f.likedBy[reviewID], nil
}

func (f *fakeStatsFetcher) foodCallCount(foodID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.foodCalls[foodID]
}

func testOptions(viewerID string) Options {
	return Options{ViewerID: viewerID, Wait: time.Millisecond}
}

func TestLoader_PartialFailureYieldsZeroRecord(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	for id := 1; id <= 5; id++ {
		fetcher.foodStats[id] = client.Stats{ReviewCount: client.LooseInt(id), AverageRating: 4}
	}
	fetcher.failingFood[3] = true

	loader := NewLoader(fetcher, testOptions(""))
	records := loader.FoodStatsMany(context.Background(), []int{1, 2, 3, 4, 5})

	// One failing id degrades to the zero record; the other four carry data.
	require.Len(t, records, 5)
	assert.Equal(t, Record{}, records[3])
	for _, id := range []int{1, 2, 4, 5} {
		assert.Equal(t, id, records[id].ReviewCount, "id %d", id)
		assert.InDelta(t, 4.0, records[id].AverageRating, 1e-9, "id %d", id)
	}
}

func TestLoader_CachesAcrossCalls(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.foodStats[7] = client.Stats{ReviewCount: 9}

	loader := NewLoader(fetcher, testOptions(""))
	first := loader.FoodStats(context.Background(), 7)
	second := loader.FoodStats(context.Background(), 7)

	assert.Equal(t, 9, first.ReviewCount)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.foodCallCount(7))
}

func TestLoader_MenuStatsPrefersBatch(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.menuStats[1] = client.Stats{ReviewCount: 3, AverageRating: 4.5}

	loader := NewLoader(fetcher, testOptions(""))
	records := loader.MenuStats(context.Background(), 10, []int{1, 2})

	require.Len(t, records, 2)
	assert.Equal(t, 3, records[1].ReviewCount)
	// Foods absent from the batch response still get a zero entry.
	assert.Equal(t, Record{}, records[2])
	assert.Zero(t, fetcher.foodCallCount(1), "batch result must not trigger per-food fetches")

	// The batch primes the per-food cache.
	assert.Equal(t, 3, loader.FoodStats(context.Background(), 1).ReviewCount)
	assert.Zero(t, fetcher.foodCallCount(1))
}

func TestLoader_MenuStatsFallsBackPerFood(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.menuErr = pberrors.ErrNetworkFailure
	fetcher.foodStats[1] = client.Stats{ReviewCount: 2}
	fetcher.foodStats[2] = client.Stats{ReviewCount: 5}

	loader := NewLoader(fetcher, testOptions(""))
	records := loader.MenuStats(context.Background(), 10, []int{1, 2})

	require.Len(t, records, 2)
	assert.Equal(t, 2, records[1].ReviewCount)
	assert.Equal(t, 5, records[2].ReviewCount)
	assert.Equal(t, 1, fetcher.foodCallCount(1))
}

func TestLoader_AnonymousViewerSkipsLikedFetch(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.likedBy[1] = true

	loader := NewLoader(fetcher, testOptions(""))
	liked := loader.LikedByViewer(context.Background(), client.KindFoodReviews, []int{1, 2})

	assert.Equal(t, map[int]bool{1: false, 2: false}, liked)
	assert.Zero(t, fetcher.likedCalls)
}

func TestLoader_SignedInViewerLikedFlags(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.likedBy[1] = true

	loader := NewLoader(fetcher, testOptions("viewer-1"))
	liked := loader.LikedByViewer(context.Background(), client.KindFoodReviews, []int{1, 2})

	assert.Equal(t, map[int]bool{1: true, 2: false}, liked)
}

func TestLoader_PrimeLikeOverridesCache(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.likeCounts[4] = 1

	loader := NewLoader(fetcher, testOptions("viewer-1"))
	ctx := context.Background()

	counts := loader.LikeCounts(ctx, client.KindFoodReviews, []int{4})
	assert.Equal(t, 1, counts[4])

	// A toggle response is authoritative and replaces the cached numbers.
	loader.PrimeLike(ctx, client.KindFoodReviews, 4, true, 2)
	counts = loader.LikeCounts(ctx, client.KindFoodReviews, []int{4})
	assert.Equal(t, 2, counts[4])

	liked := loader.LikedByViewer(ctx, client.KindFoodReviews, []int{4})
	assert.True(t, liked[4])
}

func TestLoader_InvalidateLikeForcesRefetch(t *testing.T) {
	fetcher := newFakeStatsFetcher()
	fetcher.likeCounts[4] = 1

	loader := NewLoader(fetcher, testOptions("viewer-1"))
	ctx := context.Background()

	_ = loader.LikeCounts(ctx, client.KindFoodReviews, []int{4})

	fetcher.mu.Lock()
	fetcher.likeCounts[4] = 3
	fetcher.mu.Unlock()

	// Cached until invalidated.
	counts := loader.LikeCounts(ctx, client.KindFoodReviews, []int{4})
	assert.Equal(t, 1, counts[4])

	loader.InvalidateLike(ctx, client.KindFoodReviews, 4)
	counts = loader.LikeCounts(ctx, client.KindFoodReviews, []int{4})
	assert.Equal(t, 3, counts[4])
}
