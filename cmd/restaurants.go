package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/config"
	"github.com/polybites/polybites-cli/pkg/browse"
	"github.com/polybites/polybites-cli/pkg/prefs"
)

// Restaurants command flags.
var (
	restaurantsSort   string
	restaurantsSearch string
	restaurantsSave   bool
	restaurantsOutput string
)

// restaurantRow is the output shape for one restaurant list entry.
type restaurantRow struct {
	ID            int     `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Location      string  `json:"location,omitempty" yaml:"location,omitempty"`
	AverageRating float64 `json:"average_rating" yaml:"average_rating"`
	AverageValue  float64 `json:"average_value" yaml:"average_value"`
	ReviewCount   int     `json:"review_count" yaml:"review_count"`
	MenuItemCount int     `json:"menu_item_count" yaml:"menu_item_count"`
}

// NewRestaurantsCommand creates the restaurants list command.
func NewRestaurantsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants",
		Long: `List all restaurants with their aggregate ratings.

Passing --sort saves the key as this view's default, restored on the next
run; without --sort the saved key applies, or server order ("none") when
nothing is saved yet. Filtering runs before sorting.

Sort keys: none, rating_desc, rating_asc, value_desc, reviews, menu_items,
location, alphabetical.

Examples:
  polybites restaurants
  polybites restaurants --sort rating_desc
  polybites restaurants --search taco --sort reviews`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.init(); err != nil {
				return err
			}
			deps.OutputFormat = restaurantsOutput

			store, err := deps.OpenPrefs()
			if err != nil {
				return fmt.Errorf("opening preferences: %w", err)
			}

			raw := restaurantsSort
			if raw == "" {
				raw = store.SortKey(prefs.ViewRestaurants)
			}
			key, err := browse.ParseSortKey(raw, browse.RestaurantSortKeys)
			if err != nil {
				return err
			}
			// Every explicit selection becomes the new default for this view.
			if cmd.Flags().Changed("sort") || restaurantsSave {
				if err := store.SetSortKey(prefs.ViewRestaurants, string(key)); err != nil {
					return fmt.Errorf("saving sort preference: %w", err)
				}
			}

			restaurants, err := deps.Client.ListRestaurants(cmd.Context())
			if err != nil {
				return err
			}

			entities := make([]browse.Entity, len(restaurants))
			for i, r := range restaurants {
				entities[i] = browse.RestaurantEntity(r)
			}
			entities = browse.Sort(browse.FilterByName(entities, restaurantsSearch), key)

			rows := make([]restaurantRow, len(entities))
			for i, e := range entities {
				rows[i] = restaurantRow{
					ID:            e.ID,
					Name:          e.Name,
					Location:      e.Location,
					AverageRating: e.AverageRating,
					AverageValue:  e.AverageValue,
					ReviewCount:   e.ReviewCount,
					MenuItemCount: e.MenuItemCount,
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
					fmt.Fprintln(out, "No restaurants found.")
					return nil
				}
				fmt.Fprintf(out, "%-5s %-30s %-20s %-8s %-8s %-8s %s\n",
					"ID", "NAME", "LOCATION", "RATING", "VALUE", "REVIEWS", "ITEMS")
				for _, r := range rows {
					fmt.Fprintf(out, "%-5d %-30s %-20s %-8s %-8.0f %-8d %d\n",
						r.ID, truncate(r.Name, 30), truncate(r.Location, 20),
						formatRating(r.AverageRating, r.ReviewCount),
						r.AverageValue, r.ReviewCount, r.MenuItemCount)
				}
				fmt.Fprintf(out, "\n%d restaurants (sort: %s)\n", len(rows), key)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&restaurantsSort, "sort", "", "sort key, saved as the view default (default: saved preference)")
	cmd.Flags().StringVar(&restaurantsSearch, "search", "", "filter by name substring")
	cmd.Flags().BoolVar(&restaurantsSave, "save-sort", false, "persist the sort key as the default")
	_ = cmd.Flags().MarkHidden("save-sort")
	registerOutputFlag(cmd, &restaurantsOutput)

	return cmd
}
