// Package stats batches and caches the aggregate numbers shown next to list
// entries: review counts, average ratings, like counts, and the viewer's
// liked flags.
//
// The backend exposes most of these per id, so rendering a list would fan out
// one request per visible entry on every redraw. The loaders here collapse
// duplicate in-flight requests for the same id, cache results for the life of
// the view, and fetch distinct ids concurrently. Failures degrade per id: a
// stats fetch that errors yields the zero record for that id and leaves every
// other id's data intact.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/pkg/logging"
	"github.com/polybites/polybites-cli/pkg/observability"
)

// Record is the displayable aggregate for one entity. Missing or failed data
// is represented by the zero record, never by an absent entry.
type Record struct {
	ReviewCount   int
	AverageRating float64
}

// Fetcher is the slice of the API client the loader needs. *client.Client
// satisfies it.
type Fetcher interface {
	FoodStats(ctx context.Context, foodID int) (client.Stats, error)
	GeneralStats(ctx context.Context, restaurantID int) (client.Stats, error)
	FoodStatsByRestaurant(ctx context.Context, restaurantID int) (map[int]client.Stats, error)
	LikeCountFor(ctx context.Context, kind client.ReviewKind, reviewID int) (int, error)
	HasLiked(ctx context.Context, kind client.ReviewKind, reviewID int, userID string) (bool, error)
}

// Options configures a Loader.
type Options struct {
	Logger  logging.Logger
	Metrics *observability.BrowserMetrics

	// ViewerID is the signed-in user whose liked flags are loaded. Empty
	// means anonymous: liked flags resolve to false without any fetch.
	ViewerID string

	// Wait is how long a loader collects keys before dispatching a batch.
	Wait time.Duration
}

type kindLoaders struct {
	likeCounts *dataloader.Loader[int, int]
	liked      *dataloader.Loader[int, bool]
}

// Loader batches and caches aggregate lookups. Safe for concurrent use. A
// loader is scoped to one viewer session; construct a new one when the
// signed-in user changes.
type Loader struct {
	fetcher  Fetcher
	log      logging.Logger
	metrics  *observability.BrowserMetrics
	viewerID string

	foodStats    *dataloader.Loader[int, Record]
	generalStats *dataloader.Loader[int, Record]
	byKind       map[client.ReviewKind]kindLoaders
}

// NewLoader returns a loader over the given fetcher.
func NewLoader(fetcher Fetcher, opts Options) *Loader {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = 10 * time.Millisecond
	}

	l := &Loader{
		fetcher:  fetcher,
		log:      log,
		metrics:  opts.Metrics,
		viewerID: opts.ViewerID,
		byKind:   make(map[client.ReviewKind]kindLoaders),
	}

	l.foodStats = dataloader.NewBatchedLoader(
		l.statsBatch("food", l.fetcher.FoodStats),
		dataloader.WithWait[int, Record](wait),
	)
	l.generalStats = dataloader.NewBatchedLoader(
		l.statsBatch("general", l.fetcher.GeneralStats),
		dataloader.WithWait[int, Record](wait),
	)

	for _, kind := range []client.ReviewKind{client.KindFoodReviews, client.KindGeneralReviews} {
		kind := kind
		l.byKind[kind] = kindLoaders{
			likeCounts: dataloader.NewBatchedLoader(
				l.likeCountBatch(kind),
				dataloader.WithWait[int, int](wait),
			),
			liked: dataloader.NewBatchedLoader(
				l.likedBatch(kind),
				dataloader.WithWait[int, bool](wait),
			),
		}
	}
	return l
}

// statsBatch builds a batch function that fans one stats call out per id and
// degrades each failure to the zero record.
func (l *Loader) statsBatch(kind string, fetch func(context.Context, int) (client.Stats, error)) dataloader.BatchFunc[int, Record] {
	return func(ctx context.Context, ids []int) []*dataloader.Result[Record] {
		start := time.Now()
		results := make([]*dataloader.Result[Record], len(ids))

		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i, id int) {
				defer wg.Done()
				stats, err := fetch(ctx, id)
				if err != nil {
					l.log.Debug("stats fetch failed",
						logging.F("kind", kind),
						logging.F("id", id),
						logging.Err(err))
					l.countFetch(kind, "failed")
					results[i] = &dataloader.Result[Record]{Data: Record{}}
					return
				}
				l.countFetch(kind, "success")
				results[i] = &dataloader.Result[Record]{Data: Record{
					ReviewCount:   stats.ReviewCount.Int(),
					AverageRating: stats.AverageRating.Float64(),
				}}
			}(i, id)
		}
		wg.Wait()

		if l.metrics != nil {
			l.metrics.StatsFetchSeconds.Observe(time.Since(start).Seconds())
		}
		return results
	}
}

func (l *Loader) likeCountBatch(kind client.ReviewKind) dataloader.BatchFunc[int, int] {
	return func(ctx context.Context, ids []int) []*dataloader.Result[int] {
		results := make([]*dataloader.Result[int], len(ids))

		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i, id int) {
				defer wg.Done()
				count, err := l.fetcher.LikeCountFor(ctx, kind, id)
				if err != nil {
					l.countFetch("likes", "failed")
					results[i] = &dataloader.Result[int]{Data: 0}
					return
				}
				l.countFetch("likes", "success")
				results[i] = &dataloader.Result[int]{Data: count}
			}(i, id)
		}
		wg.Wait()
		return results
	}
}

func (l *Loader) likedBatch(kind client.ReviewKind) dataloader.BatchFunc[int, bool] {
	return func(ctx context.Context, ids []int) []*dataloader.Result[bool] {
		results := make([]*dataloader.Result[bool], len(ids))

		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i, id int) {
				defer wg.Done()
				liked, err := l.fetcher.HasLiked(ctx, kind, id, l.viewerID)
				if err != nil {
					l.countFetch("liked", "failed")
					results[i] = &dataloader.Result[bool]{Data: false}
					return
				}
				l.countFetch("liked", "success")
				results[i] = &dataloader.Result[bool]{Data: liked}
			}(i, id)
		}
		wg.Wait()
		return results
	}
}

func (l *Loader) countFetch(kind, status string) {
	if l.metrics != nil {
		l.metrics.StatsFetchesTotal.WithLabelValues(kind, status).Inc()
	}
}

// FoodStats returns the aggregate for one menu item.
func (l *Loader) FoodStats(ctx context.Context, foodID int) Record {
	record, _ := l.foodStats.Load(ctx, foodID)()
	return record
}

// GeneralStats returns the whole-restaurant review aggregate for one
// restaurant.
func (l *Loader) GeneralStats(ctx context.Context, restaurantID int) Record {
	record, _ := l.generalStats.Load(ctx, restaurantID)()
	return record
}

// FoodStatsMany returns aggregates for many menu items, keyed by food id.
// Every requested id appears in the result.
func (l *Loader) FoodStatsMany(ctx context.Context, foodIDs []int) map[int]Record {
	thunks := make(map[int]dataloader.Thunk[Record], len(foodIDs))
	for _, id := range foodIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = l.foodStats.Load(ctx, id)
	}

	out := make(map[int]Record, len(thunks))
	for id, thunk := range thunks {
		record, _ := thunk()
		out[id] = record
	}
	return out
}

// MenuStats returns per-food aggregates for one restaurant's menu, preferring
// the single batch endpoint and falling back to per-food loads when it fails.
// Every id in foodIDs appears in the result.
func (l *Loader) MenuStats(ctx context.Context, restaurantID int, foodIDs []int) map[int]Record {
	batch, err := l.fetcher.FoodStatsByRestaurant(ctx, restaurantID)
	if err != nil {
		l.log.Debug("menu stats batch failed, loading per food",
			logging.F("restaurant_id", restaurantID),
			logging.Err(err))
		l.countFetch("menu", "failed")
		return l.FoodStatsMany(ctx, foodIDs)
	}
	l.countFetch("menu", "success")

	out := make(map[int]Record, len(foodIDs))
	for _, id := range foodIDs {
		stats := batch[id]
		record := Record{
			ReviewCount:   stats.ReviewCount.Int(),
			AverageRating: stats.AverageRating.Float64(),
		}
		out[id] = record
		l.foodStats.Prime(ctx, id, record)
	}
	return out
}

// LikeCounts returns like counts for many reviews, keyed by review id.
func (l *Loader) LikeCounts(ctx context.Context, kind client.ReviewKind, reviewIDs []int) map[int]int {
	loader := l.byKind[kind].likeCounts

	thunks := make(map[int]dataloader.Thunk[int], len(reviewIDs))
	for _, id := range reviewIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = loader.Load(ctx, id)
	}

	out := make(map[int]int, len(thunks))
	for id, thunk := range thunks {
		count, _ := thunk()
		out[id] = count
	}
	return out
}

// LikedByViewer returns the viewer's liked flag for many reviews. An
// anonymous viewer resolves every flag to false without touching the network.
func (l *Loader) LikedByViewer(ctx context.Context, kind client.ReviewKind, reviewIDs []int) map[int]bool {
	out := make(map[int]bool, len(reviewIDs))
	if l.viewerID == "" {
		for _, id := range reviewIDs {
			out[id] = false
		}
		return out
	}

	loader := l.byKind[kind].liked
	thunks := make(map[int]dataloader.Thunk[bool], len(reviewIDs))
	for _, id := range reviewIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = loader.Load(ctx, id)
	}
	for id, thunk := range thunks {
		liked, _ := thunk()
		out[id] = liked
	}
	return out
}

// InvalidateLike drops the cached like count and liked flag for one review.
// Called after a toggle so the next read reflects the server's answer.
func (l *Loader) InvalidateLike(ctx context.Context, kind client.ReviewKind, reviewID int) {
	loaders := l.byKind[kind]
	loaders.likeCounts.Clear(ctx, reviewID)
	loaders.liked.Clear(ctx, reviewID)
}

// PrimeLike stores a known like count and liked flag for one review, used to
// seed the cache from an authoritative toggle response.
func (l *Loader) PrimeLike(ctx context.Context, kind client.ReviewKind, reviewID int, liked bool, likes int) {
	loaders := l.byKind[kind]
	loaders.likeCounts.Clear(ctx, reviewID).Prime(ctx, reviewID, likes)
	loaders.liked.Clear(ctx, reviewID).Prime(ctx, reviewID, liked)
}

// InvalidateStats drops every cached aggregate. Called after a review is
// submitted or deleted, when counts and averages are stale across the board.
func (l *Loader) InvalidateStats() {
	l.foodStats.ClearAll()
	l.generalStats.ClearAll()
}

// InvalidateAll drops everything: aggregates, like counts, and liked flags.
func (l *Loader) InvalidateAll() {
	l.InvalidateStats()
	for _, loaders := range l.byKind {
		loaders.likeCounts.ClearAll()
		loaders.liked.ClearAll()
	}
}
