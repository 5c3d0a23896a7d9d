package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Title", "title"},
		{"MovieID", "movie_id"},
		{"TMDBRating", "tmdb_rating"},
		{"IsSaved", "is_saved"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, CamelToSnake(tc.in))
		})
	}
}
