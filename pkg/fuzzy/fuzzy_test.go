package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("kindle", "kindle"))
	assert.Equal(t, 0, LevenshteinDistance("Kindle", "kindle"))
	assert.Equal(t, 2, LevenshteinDistance("kindle", "kindel"))
	assert.Equal(t, 3, LevenshteinDistance("abc", ""))
	assert.Equal(t, 3, LevenshteinDistance("", "abc"))
}

func TestFuzzyMatch(t *testing.T) {
	t.Run("substring always matches", func(t *testing.T) {
		assert.True(t, FuzzyMatch("battery", "the battery life is great", 1))
	})

	t.Run("typo within threshold matches", func(t *testing.T) {
		assert.True(t, FuzzyMatch("batery", "battery life", 2))
	})

	t.Run("prefix of a word matches", func(t *testing.T) {
		assert.True(t, FuzzyMatch("batt", "battery life", 0))
	})

	t.Run("unrelated text does not match", func(t *testing.T) {
		assert.False(t, FuzzyMatch("battery", "sound quality only", 2))
	})
}

func TestMatchReview(t *testing.T) {
	t.Run("matches by author name", func(t *testing.T) {
		assert.True(t, MatchReview("alice", "no overlap here whatsoever", "Alice"))
	})

	t.Run("matches by review text", func(t *testing.T) {
		assert.True(t, MatchReview("penny", "worth every penny", "Bob"))
	})

	t.Run("tolerates typos in longer queries", func(t *testing.T) {
		assert.True(t, MatchReview("headfones", "great headphones for travel", "Bob"))
	})

	t.Run("rejects unrelated queries", func(t *testing.T) {
		assert.False(t, MatchReview("toaster", "great headphones for travel", "Bob"))
	})
}
