package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/config"
	"github.com/polybites/polybites-cli/pkg/browse"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/names"
	"github.com/polybites/polybites-cli/pkg/paging"
	"github.com/polybites/polybites-cli/pkg/stats"
)

// Reviews command flags.
var (
	reviewsSort     string
	reviewsPage     int
	reviewsPageSize int
	reviewsAll      bool
	reviewsOutput   string
)

// reviewRow is the output shape for one review.
type reviewRow struct {
	ID        int       `json:"id" yaml:"id"`
	Author    string    `json:"author" yaml:"author"`
	Rating    float64   `json:"rating" yaml:"rating"`
	Text      string    `json:"text" yaml:"text"`
	Likes     int       `json:"likes" yaml:"likes"`
	Liked     bool      `json:"liked" yaml:"liked"`
	Mine      bool      `json:"mine" yaml:"mine"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// reviewPage is the paged output envelope.
type reviewPage struct {
	Reviews    []reviewRow `json:"reviews" yaml:"reviews"`
	Page       int         `json:"page" yaml:"page"`
	TotalPages int         `json:"total_pages" yaml:"total_pages"`
	Total      int         `json:"total" yaml:"total"`
}

// NewReviewsCommand creates the reviews browsing command.
func NewReviewsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Browse reviews",
		Long: `Browse reviews for a menu item or a whole restaurant.

Reviews are paged three per screen. Author names resolve through a
per-invocation cache, so an author with many reviews costs one profile
lookup. Anonymous reviews show a stable pseudonym instead.

Examples:
  polybites reviews food 42
  polybites reviews restaurant 7 --sort recent
  polybites reviews food 42 --page 2
  polybites reviews food 42 --all`,
	}

	cmd.AddCommand(newReviewsSubcommand(deps, "food <food-id>", "List reviews for one menu item",
		client.KindFoodReviews,
		func(ctx context.Context, c *client.Client, id int) ([]client.Review, error) {
			return c.FoodReviews(ctx, id)
		}))
	cmd.AddCommand(newReviewsSubcommand(deps, "restaurant <restaurant-id>", "List whole-restaurant reviews",
		client.KindGeneralReviews,
		func(ctx context.Context, c *client.Client, id int) ([]client.Review, error) {
			return c.GeneralReviews(ctx, id)
		}))

	cmd.PersistentFlags().StringVar(&reviewsSort, "sort", "likes", "review order: likes, recent")
	cmd.PersistentFlags().IntVar(&reviewsPage, "page", 1, "page number")
	cmd.PersistentFlags().IntVar(&reviewsPageSize, "page-size", paging.DefaultPageSize, "reviews per page")
	cmd.PersistentFlags().BoolVar(&reviewsAll, "all", false, "show every page")
	registerOutputFlag(cmd, &reviewsOutput)

	return cmd
}

func newReviewsSubcommand(deps *Deps, use, short string, kind client.ReviewKind,
	fetch func(context.Context, *client.Client, int) ([]client.Review, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: id must be a number, got %q", pberrors.ErrValidation, args[0])
			}
			if err := deps.init(); err != nil {
				return err
			}
			deps.OutputFormat = reviewsOutput

			order, err := browse.ParseReviewOrder(reviewsSort)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			reviews, err := fetch(ctx, deps.Client, id)
			if err != nil {
				return err
			}
			return renderReviews(ctx, cmd, deps, kind, reviews, order)
		},
	}
}

// renderReviews resolves names, likes, and liked flags, sorts, pages, and
// prints one review list.
func renderReviews(ctx context.Context, cmd *cobra.Command, deps *Deps,
	kind client.ReviewKind, reviews []client.Review, order browse.ReviewOrder) error {

	viewer, err := deps.viewer()
	if err != nil {
		return err
	}
	viewerID := ""
	if viewer != nil {
		viewerID = viewer.UserID
	}

	loader := stats.NewLoader(deps.Client, stats.Options{
		Logger:   deps.Logger,
		Metrics:  deps.Metrics,
		ViewerID: viewerID,
	})

	reviewIDs := make([]int, len(reviews))
	for i, r := range reviews {
		reviewIDs[i] = r.ID
	}
	likeCounts := loader.LikeCounts(ctx, kind, reviewIDs)
	likedFlags := loader.LikedByViewer(ctx, kind, reviewIDs)

	// One fresh name cache per invocation: every author fetched at most once.
	cache := names.NewCache(deps.Client, names.Options{Logger: deps.Logger, Metrics: deps.Metrics})
	if viewer != nil && viewer.Name != "" {
		cache.Seed(viewer.UserID, viewer.Name)
	}
	authorIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if !r.Anonymous {
			authorIDs = append(authorIDs, r.UserID)
		}
	}
	resolved := cache.ResolveBatch(ctx, authorIDs)

	sorted := browse.SortReviews(reviews, likeCounts, order)

	// The configured page size applies unless the flag overrides it.
	pageSize := reviewsPageSize
	if !cmd.Flags().Changed("page-size") && deps.Config != nil && deps.Config.PageSize > 0 {
		pageSize = deps.Config.PageSize
	}

	window := paging.NewWindow[client.Review](pageSize)
	window.SetItems(sorted)
	window.SetPage(reviewsPage)

	visible := window.Items()
	if reviewsAll {
		visible = sorted
	}

	rows := make([]reviewRow, len(visible))
	for i, r := range visible {
		author := resolved[r.UserID]
		if r.Anonymous {
			author = names.AnonymousName(r.ID)
		}
		rows[i] = reviewRow{
			ID:        r.ID,
			Author:    author,
			Rating:    r.Rating.Float64(),
			Text:      r.Text,
			Likes:     likeCounts[r.ID],
			Liked:     likedFlags[r.ID],
			Mine:      viewerID != "" && r.UserID == viewerID,
			CreatedAt: r.CreatedAt,
		}
	}

	page := reviewPage{
		Reviews:    rows,
		Page:       window.Page(),
		TotalPages: window.TotalPages(),
		Total:      window.Len(),
	}
	if reviewsAll {
		page.Page = 1
		if page.Total > 0 {
			page.TotalPages = 1
		}
	}

	out := cmd.OutOrStdout()
	switch deps.format() {
	case config.OutputFormatJSON:
		return outputJSON(out, page)
	case config.OutputFormatYAML:
		return outputYAML(out, page)
	default:
		if len(rows) == 0 {
			fmt.Fprintln(out, "No reviews yet.")
			return nil
		}
		for _, r := range rows {
			liked := ""
			if r.Liked {
				liked = " (liked)"
			}
			mine := ""
			if r.Mine {
				mine = " [yours]"
			}
			when := ""
			if !r.CreatedAt.IsZero() {
				when = r.CreatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(out, "#%d  %s%s  %.1f/5  %s\n", r.ID, r.Author, mine, r.Rating, when)
			fmt.Fprintf(out, "    %s\n", truncate(r.Text, 200))
			fmt.Fprintf(out, "    %d likes%s\n\n", r.Likes, liked)
		}
		fmt.Fprintf(out, "Page %d of %d (%d reviews, sort: %s)\n",
			page.Page, page.TotalPages, page.Total, order)
		return nil
	}
}
