// Package names resolves review author identifiers to display names.
//
// Author profiles live behind a per-user endpoint, so a review panel that
// naively resolved every review would issue one request per review even when
// a handful of authors wrote them all. The cache deduplicates: each distinct
// author id is fetched at most once per cache lifetime, and failed lookups
// are pinned to a deterministic fallback so they are not retried on every
// render.
package names

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/pkg/logging"
	"github.com/polybites/polybites-cli/pkg/observability"
)

// anonymousNames is the rotation of labels shown for anonymous reviews. The
// review id picks the entry, so a given review keeps its label across
// renders.
var anonymousNames = []string{
	"Anonymous Diner",
	"Faceless Foodie",
	"Redacted Rater",
	"Masked Muncher",
	"Nameless Nibbler",
	"Mystery Michelin",
	"Agent Appétit",
}

// ProfileFetcher fetches the display profile for one author id.
// *client.Client satisfies it.
type ProfileFetcher interface {
	ProfileByAuthID(ctx context.Context, userID string) (client.Profile, error)
}

// Options configures a Cache.
type Options struct {
	Logger  logging.Logger
	Metrics *observability.BrowserMetrics
}

// Cache maps author ids to formatted display names. All methods are safe for
// concurrent use. The cache is scoped to one review panel: opening a panel
// constructs a fresh cache (or calls Clear), so stale names never outlive
// the view that loaded them.
type Cache struct {
	fetcher ProfileFetcher
	log     logging.Logger
	metrics *observability.BrowserMetrics

	mu    sync.Mutex
	names map[string]string
}

// NewCache returns an empty cache backed by the given fetcher.
func NewCache(fetcher ProfileFetcher, opts Options) *Cache {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Cache{
		fetcher: fetcher,
		log:     log,
		metrics: opts.Metrics,
		names:   make(map[string]string),
	}
}

// Get returns the cached name for an author id without fetching.
func (c *Cache) Get(userID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[userID]
	return name, ok
}

// Seed stores a name for an author id without fetching. Used for the signed-in
// viewer, whose name is already known from the session.
func (c *Cache) Seed(userID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[userID] = FormatName(name)
}

// Clear empties the cache. Called when a review panel opens so the new view
// starts from fresh profile data.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[string]string)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

// Resolve returns the display name for one author id, fetching the profile on
// a cache miss. A failed fetch resolves to Fallback(userID), and that fallback
// is cached so the id is not retried.
func (c *Cache) Resolve(ctx context.Context, userID string) string {
	if name, ok := c.Get(userID); ok {
		if c.metrics != nil {
			c.metrics.NameCacheHitsTotal.Inc()
		}
		return name
	}
	if c.metrics != nil {
		c.metrics.NameCacheMissesTotal.Inc()
	}

	name := c.fetch(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent resolve may have won the race; the first write stands so
	// every caller sees the same name.
	if existing, ok := c.names[userID]; ok {
		return existing
	}
	c.names[userID] = name
	return name
}

// ResolveBatch resolves every id in userIDs, fetching each distinct uncached
// id exactly once regardless of how often it repeats in the input. Fetches
// run concurrently. The returned map holds one entry per distinct id.
func (c *Cache) ResolveBatch(ctx context.Context, userIDs []string) map[string]string {
	resolved := make(map[string]string, len(userIDs))

	var missing []string
	c.mu.Lock()
	for _, id := range userIDs {
		if _, seen := resolved[id]; seen {
			continue
		}
		if name, ok := c.names[id]; ok {
			resolved[id] = name
			if c.metrics != nil {
				c.metrics.NameCacheHitsTotal.Inc()
			}
			continue
		}
		resolved[id] = "" // reserve the key so duplicates dedupe
		missing = append(missing, id)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return resolved
	}
	if c.metrics != nil {
		c.metrics.NameCacheMissesTotal.Add(float64(len(missing)))
	}

	type lookup struct {
		id   string
		name string
	}
	results := make(chan lookup, len(missing))

	var wg sync.WaitGroup
	for _, id := range missing {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			results <- lookup{id: id, name: c.fetch(ctx, id)}
		}(id)
	}
	wg.Wait()
	close(results)

	c.mu.Lock()
	for res := range results {
		if existing, ok := c.names[res.id]; ok {
			resolved[res.id] = existing
			continue
		}
		c.names[res.id] = res.name
		resolved[res.id] = res.name
	}
	c.mu.Unlock()

	return resolved
}

// fetch retrieves and formats one profile name, degrading to the fallback
// label on any failure.
func (c *Cache) fetch(ctx context.Context, userID string) string {
	profile, err := c.fetcher.ProfileByAuthID(ctx, userID)
	if err != nil || strings.TrimSpace(profile.Name) == "" {
		if err != nil {
			c.log.Debug("profile lookup failed",
				logging.F("user_id", userID),
				logging.Err(err))
		}
		if c.metrics != nil {
			c.metrics.NameLookupsTotal.WithLabelValues("failed").Inc()
		}
		return Fallback(userID)
	}
	if c.metrics != nil {
		c.metrics.NameLookupsTotal.WithLabelValues("success").Inc()
	}
	return FormatName(profile.Name)
}

// Fallback returns the deterministic label used when an author's profile
// cannot be fetched.
func Fallback(userID string) string {
	return fmt.Sprintf("User #%s", userID)
}

// FormatName shortens a full name to "First L." form. Single-word names are
// returned unchanged.
func FormatName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return strings.TrimSpace(full)
	}
	last := []rune(parts[len(parts)-1])
	return fmt.Sprintf("%s %c.", parts[0], last[0])
}

// AnonymousName returns the display label for an anonymous review, chosen by
// the review id so the label is stable for that review.
func AnonymousName(reviewID int) string {
	if reviewID < 0 {
		reviewID = -reviewID
	}
	return anonymousNames[reviewID%len(anonymousNames)]
}

// DisplayName returns the label to render for one review, honoring the
// anonymous flag before consulting the cache.
func (c *Cache) DisplayName(ctx context.Context, review client.Review) string {
	if review.Anonymous {
		return AnonymousName(review.ID)
	}
	return c.Resolve(ctx, review.UserID)
}
