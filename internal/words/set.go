package words

import (
	"context"
	"strings"
	"sync"
)

// Set is an in-memory dictionary keyed by language code.
// It satisfies scramble.Dictionary and is safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	langs map[string]map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{langs: make(map[string]map[string]struct{})}
}

// Add inserts words (lowercased) under language.
func (s *Set) Add(language string, words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.langs[language]
	if !ok {
		m = make(map[string]struct{}, len(words))
		s.langs[language] = m
	}
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
}

// IsRecognizedWord reports whether word is in the list for language.
// Unknown languages recognize nothing; the error is always nil.
func (s *Set) IsRecognizedWord(_ context.Context, word, language string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.langs[language][word]
	return ok, nil
}

// Len returns the total number of entries across languages.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.langs {
		n += len(m)
	}
	return n
}

// Words returns the entries for language in no particular order.
func (s *Set) Words(language string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.langs[language]))
	for w := range s.langs[language] {
		out = append(out, w)
	}
	return out
}
