package browse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

// ReviewOrder names one ordering of a review list.
type ReviewOrder string

const (
	// OrderLikes sorts most-liked first.
	OrderLikes ReviewOrder = "likes"
	// OrderRecent sorts newest first.
	OrderRecent ReviewOrder = "recent"
)

// ParseReviewOrder validates a user-supplied review ordering.
func ParseReviewOrder(raw string) (ReviewOrder, error) {
	switch order := ReviewOrder(strings.ToLower(strings.TrimSpace(raw))); order {
	case "", OrderLikes:
		return OrderLikes, nil
	case OrderRecent:
		return OrderRecent, nil
	default:
		return "", fmt.Errorf("%w: unknown review order %q", pberrors.ErrValidation, raw)
	}
}

// SortReviews returns the reviews in the given order, working on a copy.
// likeCounts supplies the count per review id; missing ids count as zero.
// Ties break toward the higher review id, so newer reviews surface first
// either way.
func SortReviews(reviews []client.Review, likeCounts map[int]int, order ReviewOrder) []client.Review {
	out := make([]client.Review, len(reviews))
	copy(out, reviews)

	switch order {
	case OrderRecent:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			li, lj := likeCounts[out[i].ID], likeCounts[out[j].ID]
			if li != lj {
				return li > lj
			}
			return out[i].ID > out[j].ID
		})
	}
	return out
}
