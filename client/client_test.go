package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, DefaultOptions())
}

func TestClient_ListRestaurants(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/restaurants", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Hearth","Location":"Campus Market","average_rating":"4.5","review_count":"12"},
			{"id":2,"name":"Noodle Bar","average_rating":null}
		]`))
	}))

	restaurants, err := c.ListRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	assert.Equal(t, "Hearth", restaurants[0].Name)
	assert.Equal(t, "Campus Market", restaurants[0].Location)
	assert.InDelta(t, 4.5, restaurants[0].AverageRating.Float64(), 1e-9)
	assert.Equal(t, 12, restaurants[0].ReviewCount.Int())

	// Missing and null aggregates decode to zero.
	assert.Zero(t, restaurants[1].AverageRating.Float64())
	assert.Zero(t, restaurants[1].ReviewCount.Int())
}

func TestClient_StatusErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		checker func(error) bool
	}{
		{"not_found", http.StatusNotFound, pberrors.IsNotFound},
		{"unauthorized", http.StatusUnauthorized, pberrors.IsSignInRequired},
		{"server_error", http.StatusInternalServerError, pberrors.IsFetchFailed},
		{"bad_request", http.StatusBadRequest, pberrors.IsFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := c.FoodStats(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, tt.checker(err), "error %v should match %s", err, tt.name)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // Guarantee the port refuses connections.

	c := New(srv.URL, DefaultOptions())
	_, err := c.ListRestaurants(context.Background())
	require.Error(t, err)
	assert.True(t, pberrors.IsNetworkFailure(err))
}

func TestClient_ServerErrorMessageIncluded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"review already exists"}`))
	}))

	err := c.SubmitReview(context.Background(), KindFoodReviews, NewReview{UserID: "u1", FoodID: 3, Rating: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review already exists")
}

func TestClient_ToggleLike(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/food-reviews/9/toggle-like", r.URL.Path)

		var body struct {
			ReviewID int    `json:"review_id"`
			UserID   string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 9, body.ReviewID)
		assert.Equal(t, "user-1", body.UserID)

		_, _ = w.Write([]byte(`{"liked":true,"likes":5}`))
	}))

	result, err := c.ToggleLike(context.Background(), KindFoodReviews, 9, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 5, result.Likes.Int())
}

func TestClient_FoodStatsByRestaurant(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/food-reviews/restaurant/4/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"10":{"review_count":3,"average_rating":"4.0"},"11":{"review_count":0,"average_rating":0}}`))
	}))

	stats, err := c.FoodStatsByRestaurant(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 3, stats[10].ReviewCount.Int())
	assert.InDelta(t, 4.0, stats[10].AverageRating.Float64(), 1e-9)
}

func TestClient_SearchFoods_EscapesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/foods/restaurant/2/search", r.URL.Path)
		assert.Equal(t, "mac & cheese", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"id":7,"restaurant_id":2,"name":"Mac & Cheese","value":"105"}]`))
	}))

	foods, err := c.SearchFoods(context.Background(), 2, "mac & cheese")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Mac & Cheese", foods[0].Name)
	assert.InDelta(t, 105, foods[0].Value.Float64(), 1e-9)
}

func TestClient_HasLiked(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/general-reviews/3/like/user-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"exists":true}`))
	}))

	liked, err := c.HasLiked(context.Background(), KindGeneralReviews, 3, "user-9")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestClient_ReportReview(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/food-reviews/report", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.ReportReview(context.Background(), KindFoodReviews, 913, "Spam or fake review")
	require.NoError(t, err)
	assert.Equal(t, float64(913), got["food_review_id"])
	assert.Equal(t, "Spam or fake review", got["reason"])
	// The food report carries only the food review id.
	assert.NotContains(t, got, "general_review_id")
}

func TestClient_ReportReview_GeneralKind(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/general-reviews/report", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.ReportReview(context.Background(), KindGeneralReviews, 48, "Off-topic content")
	require.NoError(t, err)
	assert.Equal(t, float64(48), got["general_review_id"])
	assert.NotContains(t, got, "food_review_id")
}

func TestReview_CreatedAtTolerant(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		zero bool
	}{
		{"rfc3339", `{"id":1,"user_id":"u","created_at":"2024-05-01T10:00:00Z"}`, false},
		{"postgres", `{"id":1,"user_id":"u","created_at":"2024-05-01 10:00:00"}`, false},
		{"missing", `{"id":1,"user_id":"u"}`, true},
		{"garbage", `{"id":1,"user_id":"u","created_at":"yesterday"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var review Review
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &review))
			assert.Equal(t, tt.zero, review.CreatedAt.IsZero())
		})
	}
}
