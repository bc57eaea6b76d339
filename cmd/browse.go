package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/pkg/browse"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

// NewBrowseCommand creates the interactive menu search command.
func NewBrowseCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	return &cobra.Command{
		Use:   "browse <restaurant-id>",
		Short: "Interactively search a restaurant's menu",
		Long: `Interactively search a restaurant's menu.

Type to search; input is debounced so a burst of edits issues one query.
An empty line shows the full menu again. Type 'q' to quit.

Examples:
  polybites browse 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: restaurant id must be a number, got %q", pberrors.ErrValidation, args[0])
			}
			if err := deps.init(); err != nil {
				return err
			}

			ctx := cmd.Context()
			foods, err := deps.Client.FoodsByRestaurant(ctx, restaurantID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			search := browse.NewMenuSearch(deps.Client, deps.Logger, deps.Metrics)
			debouncer := browse.NewDebouncer(browse.DefaultDebounce)
			defer debouncer.Stop()

			// Serializes result printing against the prompt.
			var mu sync.Mutex
			printResult := func(result browse.Result, query string) {
				mu.Lock()
				defer mu.Unlock()
				if result.Active {
					fmt.Fprintf(out, "\n%d matches for %q:\n", len(result.Foods), query)
				} else {
					fmt.Fprintf(out, "\nFull menu (%d items):\n", len(result.Foods))
				}
				for _, f := range result.Foods {
					fmt.Fprintf(out, "  #%-4d %s\n", f.ID, f.Name)
				}
				fmt.Fprint(out, "\nsearch> ")
			}

			fmt.Fprintf(out, "Browsing %d menu items. Type to search, 'q' to quit.\n", len(foods))
			printResult(browse.Result{Foods: foods}, "")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				query := scanner.Text()
				if query == "q" {
					break
				}
				debouncer.Trigger(func() {
					printResult(search.Search(ctx, restaurantID, foods, query), query)
				})
			}
			return scanner.Err()
		},
	}
}
