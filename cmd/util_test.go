package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

func TestKindFromArg(t *testing.T) {
	kind, err := kindFromArg("food")
	require.NoError(t, err)
	assert.Equal(t, client.KindFoodReviews, kind)

	kind, err = kindFromArg(" Restaurant ")
	require.NoError(t, err)
	assert.Equal(t, client.KindGeneralReviews, kind)

	_, err = kindFromArg("drinks")
	require.Error(t, err)
	assert.True(t, pberrors.IsValidation(err))
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "-", formatRating(0, 0))
	assert.Equal(t, "4.3/5", formatRating(4.25, 12))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestValidateReviewInput(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		text   string
		ok     bool
	}{
		{"valid", 4.5, "tasty", true},
		{"min_rating", 1, "ok", true},
		{"max_rating", 5, "great", true},
		{"rating_too_low", 0.5, "meh", false},
		{"rating_too_high", 5.5, "wow", false},
		{"empty_text", 3, "", false},
		{"whitespace_text", 3, "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReviewInput(tt.rating, tt.text)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, pberrors.IsValidation(err))
			}
		})
	}
}
