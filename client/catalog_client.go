package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListRestaurants fetches the full restaurant catalog, in the order the
// server provides it. The engine treats that order as the "none" sort order.
func (c *Client) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	var restaurants []Restaurant
	if err := c.get(ctx, "api/restaurants", &restaurants); err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return restaurants, nil
}

// FoodsByRestaurant fetches the menu items of one restaurant.
func (c *Client) FoodsByRestaurant(ctx context.Context, restaurantID int) ([]Food, error) {
	var foods []Food
	endpoint := fmt.Sprintf("api/foods/restaurant/%d", restaurantID)
	if err := c.get(ctx, endpoint, &foods); err != nil {
		return nil, fmt.Errorf("listing foods for restaurant %d: %w", restaurantID, err)
	}
	return foods, nil
}

// SearchFoods runs the server-backed menu search for one restaurant. Callers
// fall back to client-side substring filtering when this fails.
func (c *Client) SearchFoods(ctx context.Context, restaurantID int, query string) ([]Food, error) {
	var foods []Food
	endpoint := fmt.Sprintf("api/foods/restaurant/%d/search?q=%s", restaurantID, url.QueryEscape(query))
	if err := c.get(ctx, endpoint, &foods); err != nil {
		return nil, fmt.Errorf("searching foods for restaurant %d: %w", restaurantID, err)
	}
	return foods, nil
}
