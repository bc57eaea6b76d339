package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/likes"
)

// NewLikeCommand creates the like toggle command.
func NewLikeCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	return &cobra.Command{
		Use:   "like <food|restaurant> <review-id>",
		Short: "Toggle your like on a review",
		Long: `Toggle your like on a review.

The server decides the resulting liked flag and count; the CLI just reports
them. Requires a signed-in viewer.

Examples:
  polybites like food 913
  polybites like restaurant 48`,
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
			if err := deps.init(); err != nil {
				return err
			}
			viewer, err := deps.requireViewer()
			if err != nil {
				return err
			}

			coordinator := likes.NewCoordinator(deps.Client, likes.Options{
				Logger:   deps.Logger,
				Metrics:  deps.Metrics,
				ViewerID: viewer.UserID,
			})

			state, err := coordinator.Toggle(cmd.Context(), kind, reviewID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if state.Liked {
				fmt.Fprintf(out, "Liked review #%d (%d likes).\n", reviewID, state.Count)
			} else {
				fmt.Fprintf(out, "Unliked review #%d (%d likes).\n", reviewID, state.Count)
			}
			return nil
		},
	}
}
