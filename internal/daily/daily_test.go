package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2024, 3, 7, 5, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-06", DateKey(ts))
}

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)

	a := WordIndex(day, "salt", 30)
	assert.Equal(t, a, WordIndex(later, "salt", 30))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 30)
	assert.Zero(t, WordIndex(day, "salt", 0))
}

func TestWordIndexVariesBySalt(t *testing.T) {
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for _, salt := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		seen[WordIndex(day, salt, 1000)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestRoot(t *testing.T) {
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	roots := []string{"listen", "silkworm", "painters"}

	key, word := Root(day, "salt", roots)
	assert.Equal(t, "2024-03-07", key)
	assert.Contains(t, roots, word)

	_, word = Root(day, "salt", nil)
	assert.Empty(t, word)
}
