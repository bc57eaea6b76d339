package client

import (
	"context"
	"fmt"
)

// FoodReviews fetches all reviews for one menu item.
func (c *Client) FoodReviews(ctx context.Context, foodID int) ([]Review, error) {
	var reviews []Review
	endpoint := fmt.Sprintf("api/food-reviews/food/%d", foodID)
	if err := c.get(ctx, endpoint, &reviews); err != nil {
		return nil, fmt.Errorf("listing reviews for food %d: %w", foodID, err)
	}
	return reviews, nil
}

// GeneralReviews fetches all whole-restaurant reviews for one restaurant.
func (c *Client) GeneralReviews(ctx context.Context, restaurantID int) ([]Review, error) {
	var reviews []Review
	endpoint := fmt.Sprintf("api/general-reviews/restaurant/%d", restaurantID)
	if err := c.get(ctx, endpoint, &reviews); err != nil {
		return nil, fmt.Errorf("listing reviews for restaurant %d: %w", restaurantID, err)
	}
	return reviews, nil
}

// FoodStats fetches the aggregate stats for one menu item's reviews.
func (c *Client) FoodStats(ctx context.Context, foodID int) (Stats, error) {
	var stats Stats
	endpoint := fmt.Sprintf("api/food-reviews/food/%d/stats", foodID)
	if err := c.get(ctx, endpoint, &stats); err != nil {
		return Stats{}, fmt.Errorf("fetching stats for food %d: %w", foodID, err)
	}
	return stats, nil
}

// GeneralStats fetches the aggregate stats for one restaurant's
// whole-restaurant reviews.
func (c *Client) GeneralStats(ctx context.Context, restaurantID int) (Stats, error) {
	var stats Stats
	endpoint := fmt.Sprintf("api/general-reviews/restaurant/%d/stats", restaurantID)
	if err := c.get(ctx, endpoint, &stats); err != nil {
		return Stats{}, fmt.Errorf("fetching stats for restaurant %d: %w", restaurantID, err)
	}
	return stats, nil
}

// FoodStatsByRestaurant fetches per-food aggregate stats for every menu item
// of one restaurant in a single round trip, keyed by food id.
func (c *Client) FoodStatsByRestaurant(ctx context.Context, restaurantID int) (map[int]Stats, error) {
	stats := make(map[int]Stats)
	endpoint := fmt.Sprintf("api/food-reviews/restaurant/%d/stats", restaurantID)
	if err := c.get(ctx, endpoint, &stats); err != nil {
		return nil, fmt.Errorf("fetching food stats for restaurant %d: %w", restaurantID, err)
	}
	return stats, nil
}

// LikeCountFor fetches the like count of one review.
func (c *Client) LikeCountFor(ctx context.Context, kind ReviewKind, reviewID int) (int, error) {
	var count LikeCount
	endpoint := fmt.Sprintf("api/%s/%d/likes", kind, reviewID)
	if err := c.get(ctx, endpoint, &count); err != nil {
		return 0, fmt.Errorf("fetching like count for review %d: %w", reviewID, err)
	}
	return count.Likes.Int(), nil
}

// HasLiked reports whether a user has liked a review.
func (c *Client) HasLiked(ctx context.Context, kind ReviewKind, reviewID int, userID string) (bool, error) {
	var status LikeStatus
	endpoint := fmt.Sprintf("api/%s/%d/like/%s", kind, reviewID, userID)
	if err := c.get(ctx, endpoint, &status); err != nil {
		return false, fmt.Errorf("fetching like status for review %d: %w", reviewID, err)
	}
	return status.Exists, nil
}

// ToggleLike flips a user's like on a review. The response carries the
// authoritative liked flag and like count; the caller must not derive the
// count locally.
func (c *Client) ToggleLike(ctx context.Context, kind ReviewKind, reviewID int, userID string) (ToggleResult, error) {
	body := struct {
		ReviewID int    `json:"review_id"`
		UserID   string `json:"user_id"`
	}{ReviewID: reviewID, UserID: userID}

	var result ToggleResult
	endpoint := fmt.Sprintf("api/%s/%d/toggle-like", kind, reviewID)
	if err := c.post(ctx, endpoint, body, &result); err != nil {
		return ToggleResult{}, fmt.Errorf("toggling like on review %d: %w", reviewID, err)
	}
	return result, nil
}

// SubmitReview creates a new review of the given kind.
func (c *Client) SubmitReview(ctx context.Context, kind ReviewKind, review NewReview) error {
	endpoint := fmt.Sprintf("api/%s", kind)
	if err := c.post(ctx, endpoint, review, nil); err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}
	return nil
}

// ReportReview flags a review for moderation. Reports are accepted from
// signed-out users too, so no user id travels with the payload.
func (c *Client) ReportReview(ctx context.Context, kind ReviewKind, reviewID int, reason string) error {
	body := struct {
		FoodReviewID    int    `json:"food_review_id,omitempty"`
		GeneralReviewID int    `json:"general_review_id,omitempty"`
		Reason          string `json:"reason"`
	}{Reason: reason}
	if kind == KindFoodReviews {
		body.FoodReviewID = reviewID
	} else {
		body.GeneralReviewID = reviewID
	}

	endpoint := fmt.Sprintf("api/%s/report", kind)
	if err := c.post(ctx, endpoint, body, nil); err != nil {
		return fmt.Errorf("reporting review %d: %w", reviewID, err)
	}
	return nil
}

// DeleteReview removes a review owned by the given user.
func (c *Client) DeleteReview(ctx context.Context, kind ReviewKind, reviewID int, userID string) error {
	body := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}

	endpoint := fmt.Sprintf("api/%s/%d", kind, reviewID)
	if err := c.del(ctx, endpoint, body, nil); err != nil {
		return fmt.Errorf("deleting review %d: %w", reviewID, err)
	}
	return nil
}
