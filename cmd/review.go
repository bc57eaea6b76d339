package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/stats"
)

// Review command flags.
var (
	reviewAddRating    float64
	reviewAddText      string
	reviewAddAnonymous bool
	reviewReportReason string
)

// NewReviewCommand creates the review mutation command.
func NewReviewCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Submit, delete, or report a review",
		Long: `Submit a new review, delete one of your own, or report one.

Submitting and deleting require a signed-in viewer; reporting does not.
The server is the source of truth: after a write the CLI refetches the
affected stats rather than guessing at the result.

Examples:
  polybites review add food 42 --rating 4.5 --text "Great crust"
  polybites review add restaurant 7 --rating 3 --text "Decent" --anonymous
  polybites review delete food 913 42
  polybites review report food 913 --reason "Spam or fake review"`,
	}

	addCmd := &cobra.Command{
		Use:   "add <food|restaurant> <id>",
		Short: "Submit a review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFromArg(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: id must be a number, got %q", pberrors.ErrValidation, args[1])
			}
			if err := validateReviewInput(reviewAddRating, reviewAddText); err != nil {
				return err
			}
			if err := deps.init(); err != nil {
				return err
			}
			viewer, err := deps.requireViewer()
			if err != nil {
				return err
			}

			review := client.NewReview{
				UserID:    viewer.UserID,
				Rating:    reviewAddRating,
				Text:      strings.TrimSpace(reviewAddText),
				Anonymous: reviewAddAnonymous,
			}
			if kind == client.KindFoodReviews {
				review.FoodID = id
			} else {
				review.RestaurantID = id
			}

			if err := deps.Client.SubmitReview(cmd.Context(), kind, review); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Review submitted.")
			printRefreshedStats(cmd.Context(), out, deps, kind, id)
			return nil
		},
	}
	addCmd.Flags().Float64Var(&reviewAddRating, "rating", 0, "rating from 1 to 5 (required)")
	addCmd.Flags().StringVar(&reviewAddText, "text", "", "review text (required)")
	addCmd.Flags().BoolVar(&reviewAddAnonymous, "anonymous", false, "post under a pseudonym")
	_ = addCmd.MarkFlagRequired("rating")
	_ = addCmd.MarkFlagRequired("text")

	deleteCmd := &cobra.Command{
		Use:   "delete <food|restaurant> <review-id> [entity-id]",
		Short: "Delete one of your reviews",
		Long: `Delete one of your reviews.

Pass the food or restaurant id as the third argument to print that
entity's refreshed stats after the delete.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFromArg(args[0])
			if err != nil {
				return err
			}
			reviewID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: review id must be a number, got %q", pberrors.ErrValidation, args[1])
			}
			entityID := 0
			if len(args) == 3 {
				entityID, err = strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("%w: entity id must be a number, got %q", pberrors.ErrValidation, args[2])
				}
			}
			if err := deps.init(); err != nil {
				return err
			}
			viewer, err := deps.requireViewer()
			if err != nil {
				return err
			}

			if err := deps.Client.DeleteReview(cmd.Context(), kind, reviewID, viewer.UserID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Review deleted.")
			if entityID != 0 {
				printRefreshedStats(cmd.Context(), out, deps, kind, entityID)
			}
			return nil
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report <food|restaurant> <review-id>",
		Short: "Report a review for moderation",
		Long: `Report a review for moderation. No sign-in required.

Common reasons: inappropriate content, spam or fake review, off-topic
content, harassment or bullying, false information.

Examples:
  polybites review report food 913 --reason "Spam or fake review"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFromArg(args[0])
			if err != nil {
				return err
			}
			reviewID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: review id must be a number, got %q", pberrors.ErrValidation, args[1])
			}
			if strings.TrimSpace(reviewReportReason) == "" {
				return fmt.Errorf("%w: --reason is required", pberrors.ErrValidation)
			}
			if err := deps.init(); err != nil {
				return err
			}

			if err := deps.Client.ReportReview(cmd.Context(), kind, reviewID, strings.TrimSpace(reviewReportReason)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Review reported.")
			return nil
		},
	}
	reportCmd.Flags().StringVar(&reviewReportReason, "reason", "", "why the review is being reported (required)")
	_ = reportCmd.MarkFlagRequired("reason")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(reportCmd)
	return cmd
}

// printRefreshedStats re-reads an entity's aggregates after a write. The
// loader cache is dropped first so the numbers come from the server, not from
// anything seen before the write.
func printRefreshedStats(ctx context.Context, out io.Writer, deps *Deps, kind client.ReviewKind, entityID int) {
	loader := stats.NewLoader(deps.Client, stats.Options{Logger: deps.Logger, Metrics: deps.Metrics})
	loader.InvalidateStats()

	var record stats.Record
	noun := "Food"
	if kind == client.KindFoodReviews {
		record = loader.FoodStats(ctx, entityID)
	} else {
		record = loader.GeneralStats(ctx, entityID)
		noun = "Restaurant"
	}
	fmt.Fprintf(out, "%s #%d now has %d reviews (rating %s).\n",
		noun, entityID, record.ReviewCount, formatRating(record.AverageRating, record.ReviewCount))
}

// validateReviewInput rejects out-of-range ratings and empty text before any
// network traffic.
func validateReviewInput(rating float64, text string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5, got %g", pberrors.ErrValidation, rating)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: review text is required", pberrors.ErrValidation)
	}
	return nil
}
