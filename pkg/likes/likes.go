// Package likes coordinates like toggles on reviews.
//
// A toggle is a remote round trip, and an impatient user can hammer the
// control far faster than the server answers. Two independent guards keep the
// traffic sane: a per-review cooldown drops triggers that arrive within
// 500ms of the last accepted one, and a per-review pending flag rejects a
// second toggle while one is still in flight. The server's response is
// authoritative for both the liked flag and the count; the coordinator never
// computes a count locally.
package likes

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/logging"
	"github.com/polybites/polybites-cli/pkg/observability"
)

// DefaultCooldown is the minimum spacing between accepted toggles on one
// review.
const DefaultCooldown = 500 * time.Millisecond

// Toggler performs the remote toggle. *client.Client satisfies it.
type Toggler interface {
	ToggleLike(ctx context.Context, kind client.ReviewKind, reviewID int, userID string) (client.ToggleResult, error)
}

// State is the coordinator's view of one review's like data.
type State struct {
	Liked   bool
	Count   int
	Pending bool
}

// Options configures a Coordinator.
type Options struct {
	Logger  logging.Logger
	Metrics *observability.BrowserMetrics

	// ViewerID is the signed-in user issuing toggles. Empty means anonymous:
	// every toggle fails with ErrSignInRequired.
	ViewerID string

	// Cooldown overrides DefaultCooldown. Zero keeps the default.
	Cooldown time.Duration
}

type reviewKey struct {
	kind client.ReviewKind
	id   int
}

type reviewEntry struct {
	state   State
	limiter *rate.Limiter
}

// Coordinator serializes like toggles per review. Safe for concurrent use.
type Coordinator struct {
	toggler  Toggler
	log      logging.Logger
	metrics  *observability.BrowserMetrics
	viewerID string
	cooldown time.Duration

	mu      sync.Mutex
	entries map[reviewKey]*reviewEntry
}

// NewCoordinator returns a coordinator for the given viewer.
func NewCoordinator(toggler Toggler, opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Coordinator{
		toggler:  toggler,
		log:      log,
		metrics:  opts.Metrics,
		viewerID: opts.ViewerID,
		cooldown: cooldown,
		entries:  make(map[reviewKey]*reviewEntry),
	}
}

// entryFor returns the entry for one review, creating it on first use. The
// fresh limiter holds one token, so the first toggle always passes.
func (c *Coordinator) entryFor(kind client.ReviewKind, reviewID int) *reviewEntry {
	key := reviewKey{kind: kind, id: reviewID}
	entry, ok := c.entries[key]
	if !ok {
		entry = &reviewEntry{limiter: rate.NewLimiter(rate.Every(c.cooldown), 1)}
		c.entries[key] = entry
	}
	return entry
}

// Seed stores the known liked flag and count for a review, typically from the
// stats loader when a review list renders.
func (c *Coordinator) Seed(kind client.ReviewKind, reviewID int, liked bool, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.entryFor(kind, reviewID)
	entry.state.Liked = liked
	entry.state.Count = count
}

// State returns the current view of one review's like data.
func (c *Coordinator) State(kind client.ReviewKind, reviewID int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryFor(kind, reviewID).state
}

// Toggle flips the viewer's like on one review and returns the reconciled
// state. Triggers inside the cooldown fail with ErrThrottled; triggers while
// a toggle is in flight fail with ErrTogglePending; anonymous viewers fail
// with ErrSignInRequired. On any failure the stored state is unchanged.
func (c *Coordinator) Toggle(ctx context.Context, kind client.ReviewKind, reviewID int) (State, error) {
	if c.viewerID == "" {
		c.countToggle(observability.ToggleResultSignIn)
		return State{}, pberrors.ErrSignInRequired
	}

	c.mu.Lock()
	entry := c.entryFor(kind, reviewID)
	if entry.state.Pending {
		state := entry.state
		c.mu.Unlock()
		c.countToggle(observability.ToggleResultDropped)
		return state, pberrors.ErrTogglePending
	}
	if !entry.limiter.Allow() {
		state := entry.state
		c.mu.Unlock()
		c.countToggle(observability.ToggleResultThrottled)
		return state, pberrors.ErrThrottled
	}
	entry.state.Pending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		entry.state.Pending = false
		c.mu.Unlock()
	}()

	result, err := c.toggler.ToggleLike(ctx, kind, reviewID, c.viewerID)
	if err != nil {
		c.log.Debug("like toggle failed",
			logging.F("kind", string(kind)),
			logging.F("review_id", reviewID),
			logging.Err(err))
		c.countToggle(observability.ToggleResultFailed)
		c.mu.Lock()
		state := entry.state
		c.mu.Unlock()
		state.Pending = false
		return state, err
	}

	c.mu.Lock()
	entry.state.Liked = result.Liked
	entry.state.Count = result.Likes.Int()
	state := entry.state
	c.mu.Unlock()
	state.Pending = false

	c.countToggle(observability.ToggleResultSuccess)
	return state, nil
}

// Reset drops all per-review state and limiters. Called when the review list
// is refetched.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[reviewKey]*reviewEntry)
}

func (c *Coordinator) countToggle(result string) {
	if c.metrics != nil {
		c.metrics.LikeTogglesTotal.WithLabelValues(result).Inc()
	}
}
