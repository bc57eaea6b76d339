package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/client"
	"github.com/polybites/polybites-cli/config"
	"github.com/polybites/polybites-cli/pkg/browse"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/prefs"
	"github.com/polybites/polybites-cli/pkg/stats"
)

// Menu command flags.
var (
	menuSort   string
	menuSearch string
	menuSave   bool
	menuOutput string
)

// menuRow is the output shape for one menu item.
type menuRow struct {
	ID            int     `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	FoodType      string  `json:"food_type,omitempty" yaml:"food_type,omitempty"`
	Value         float64 `json:"value" yaml:"value"`
	AverageRating float64 `json:"average_rating" yaml:"average_rating"`
	ReviewCount   int     `json:"review_count" yaml:"review_count"`
}

// NewMenuCommand creates the menu listing command.
func NewMenuCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "List a restaurant's menu items",
		Long: `List the menu items of one restaurant with per-item review stats.

--search runs a server-backed search; when the server search fails the menu
is filtered locally instead, so a flaky backend degrades rather than breaks.
Stats load in one batch per restaurant. Passing --sort saves the key as
this view's default, restored on the next run.

Sort keys: none, rating_desc, rating_asc, value_desc, reviews, alphabetical.

Examples:
  polybites menu 12
  polybites menu 12 --sort rating_desc
  polybites menu 12 --search pasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: restaurant id must be a number, got %q", pberrors.ErrValidation, args[0])
			}
			if err := deps.init(); err != nil {
				return err
			}
			deps.OutputFormat = menuOutput

			store, err := deps.OpenPrefs()
			if err != nil {
				return fmt.Errorf("opening preferences: %w", err)
			}

			raw := menuSort
			if raw == "" {
				raw = store.SortKey(prefs.ViewMenu)
			}
			key, err := browse.ParseSortKey(raw, browse.MenuSortKeys)
			if err != nil {
				return err
			}
			// Every explicit selection becomes the new default for this view.
			if cmd.Flags().Changed("sort") || menuSave {
				if err := store.SetSortKey(prefs.ViewMenu, string(key)); err != nil {
					return fmt.Errorf("saving sort preference: %w", err)
				}
			}

			ctx := cmd.Context()
			foods, err := deps.Client.FoodsByRestaurant(ctx, restaurantID)
			if err != nil {
				return err
			}

			search := browse.NewMenuSearch(deps.Client, deps.Logger, deps.Metrics)
			result := search.Search(ctx, restaurantID, foods, menuSearch)
			foods = result.Foods

			foodIDs := make([]int, len(foods))
			for i, f := range foods {
				foodIDs[i] = f.ID
			}
			loader := stats.NewLoader(deps.Client, stats.Options{Logger: deps.Logger, Metrics: deps.Metrics})
			records := loader.MenuStats(ctx, restaurantID, foodIDs)

			entities := make([]browse.Entity, len(foods))
			byID := make(map[int]client.Food, len(foods))
			for i, f := range foods {
				record := records[f.ID]
				entities[i] = browse.FoodEntity(f, record.ReviewCount, record.AverageRating)
				byID[f.ID] = f
			}
			entities = browse.Sort(entities, key)

			rows := make([]menuRow, len(entities))
			for i, e := range entities {
				rows[i] = menuRow{
					ID:            e.ID,
					Name:          e.Name,
					FoodType:      byID[e.ID].FoodType,
					Value:         e.AverageValue,
					AverageRating: e.AverageRating,
					ReviewCount:   e.ReviewCount,
				}
			}

			out := cmd.OutOrStdout()
			switch deps.format() {
			case config.OutputFormatJSON:
				return outputJSON(out, rows)
			case config.OutputFormatYAML:
				return outputYAML(out, rows)
			default:
				if len(rows) == 0 {
					if result.Active {
						fmt.Fprintf(out, "No menu items match %q.\n", menuSearch)
					} else {
						fmt.Fprintln(out, "No menu items found.")
					}
					return nil
				}
				fmt.Fprintf(out, "%-5s %-32s %-14s %-8s %-8s %s\n",
					"ID", "NAME", "TYPE", "VALUE", "RATING", "REVIEWS")
				for _, r := range rows {
					fmt.Fprintf(out, "%-5d %-32s %-14s %-8.0f %-8s %d\n",
						r.ID, truncate(r.Name, 32), truncate(r.FoodType, 14), r.Value,
						formatRating(r.AverageRating, r.ReviewCount), r.ReviewCount)
				}
				fmt.Fprintf(out, "\n%d menu items (sort: %s)\n", len(rows), key)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&menuSort, "sort", "", "sort key, saved as the view default (default: saved preference)")
	cmd.Flags().StringVar(&menuSearch, "search", "", "search menu items by name")
	cmd.Flags().BoolVar(&menuSave, "save-sort", false, "persist the sort key as the default")
	_ = cmd.Flags().MarkHidden("save-sort")
	registerOutputFlag(cmd, &menuOutput)

	return cmd
}
