package client

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// LooseFloat is a float64 that tolerates the backend's loose typing: numeric
// strings, null, and absent fields all decode to their numeric value or 0.
// Aggregate columns arrive as strings from some endpoints, and sort keys are
// documented to treat missing or unparseable values as 0 rather than errors.
type LooseFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	*f = 0

	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Unparseable values count as zero, not as a decode failure.
		return nil
	}
	*f = LooseFloat(v)
	return nil
}

// Float64 returns the plain float64 value.
func (f LooseFloat) Float64() float64 {
	return float64(f)
}

// LooseInt is an int that tolerates numeric strings, floats, null, and
// absent fields, decoding anything unparseable to 0.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *LooseInt) UnmarshalJSON(data []byte) error {
	var f LooseFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = LooseInt(f)
	return nil
}

// Int returns the plain int value.
func (i LooseInt) Int() int {
	return int(i)
}

// Restaurant is one entry of the restaurant catalog, including the
// server-computed aggregate columns the list view sorts on.
type Restaurant struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Location      string     `json:"Location"`
	Description   string     `json:"description,omitempty"`
	AverageRating LooseFloat `json:"average_rating"`
	AverageValue  LooseFloat `json:"average_value"`
	ReviewCount   LooseInt   `json:"review_count"`
	MenuItemCount LooseInt   `json:"menu_item_count"`
}

// Food is one menu item of a restaurant.
type Food struct {
	ID           int        `json:"id"`
	RestaurantID int        `json:"restaurant_id"`
	Name         string     `json:"name"`
	FoodType     string     `json:"food_type,omitempty"`
	Description  string     `json:"description,omitempty"`
	Value        LooseFloat `json:"value"`
}

// ReviewKind selects between the two review collections the backend serves.
type ReviewKind string

const (
	// KindFoodReviews addresses per-menu-item reviews.
	KindFoodReviews ReviewKind = "food-reviews"
	// KindGeneralReviews addresses whole-restaurant reviews.
	KindGeneralReviews ReviewKind = "general-reviews"
)

// Review is a single user review. The engine never mutates reviews; like
// counts are tracked separately and attached at render time.
type Review struct {
	ID           int        `json:"id"`
	UserID       string     `json:"user_id"`
	Rating       LooseFloat `json:"rating"`
	Text         string     `json:"review"`
	Anonymous    bool       `json:"anonymous"`
	CreatedAt    time.Time  `json:"created_at"`
	FoodID       int        `json:"food_id,omitempty"`
	RestaurantID int        `json:"restaurant_id,omitempty"`
}

// UnmarshalJSON tolerates a missing or malformed created_at timestamp; the
// recency sort treats those as the epoch rather than failing the decode.
func (r *Review) UnmarshalJSON(data []byte) error {
	type alias Review
	aux := struct {
		*alias
		CreatedAt string `json:"created_at"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.CreatedAt = time.Time{}
	if aux.CreatedAt != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, aux.CreatedAt); err == nil {
				r.CreatedAt = t
				break
			}
		}
	}
	return nil
}

// Stats is the server-computed aggregate for an entity or review collection.
type Stats struct {
	ReviewCount   LooseInt   `json:"review_count"`
	AverageRating LooseFloat `json:"average_rating"`
}

// LikeCount is the number of likes on a single review.
type LikeCount struct {
	Likes LooseInt `json:"likes"`
}

// LikeStatus reports whether a given user has liked a given review.
type LikeStatus struct {
	Exists bool `json:"exists"`
}

// ToggleResult is the authoritative server state after a like toggle.
type ToggleResult struct {
	Liked bool     `json:"liked"`
	Likes LooseInt `json:"likes"`
}

// Profile is the public display profile of a review author.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewReview is the payload for submitting a review. Exactly one of FoodID or
// RestaurantID is set, depending on the review kind.
type NewReview struct {
	UserID       string  `json:"user_id"`
	FoodID       int     `json:"food_id,omitempty"`
	RestaurantID int     `json:"restaurant_id,omitempty"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"review"`
	Anonymous    bool    `json:"anonymous"`
}

// Message is the payload for the contact form.
type Message struct {
	ProfileID string `json:"profile_id,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}
