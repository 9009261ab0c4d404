// internal/daily/daily.go
//
// Deterministic "word of the day" selection for the daily challenge.
// Every player gets the same root word on the same UTC date; the salt keeps
// the sequence unpredictable from the word list alone.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Root returns the date key and the day's root word from roots.
// An empty roots list yields an empty word.
func Root(date time.Time, salt string, roots []string) (key, word string) {
	key = DateKey(date)
	if len(roots) == 0 {
		return key, ""
	}
	return key, roots[WordIndex(date, salt, len(roots))]
}
