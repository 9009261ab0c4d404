// internal/scramble/engine.go
//
// Rules engine for a single word scramble round.
// Responsibilities:
//   - Normalize raw player input (lowercase + trim).
//   - Validate a candidate against the round in a fixed order:
//     too short → same as root → already used → not possible → not real.
//   - Score accepted words by length (ScoreFor).
//
// Notes:
//   - The engine holds no round state; callers pass a Session snapshot and
//     fold the returned Verdict back with Session.Apply.
//   - The dictionary lookup runs last and only when every local check passed.
//   - Dictionary errors are logged and reported as ReasonNotARealWord.
package scramble

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	// MinWordLength is the shortest accepted candidate, in letters.
	MinWordLength = 3

	// DefaultLanguage is used when an Engine is built without one.
	DefaultLanguage = "en"
)

// Dictionary confirms that a word is correctly spelled in a language.
// Implementations may be an in-memory set, a database, or a remote service.
type Dictionary interface {
	IsRecognizedWord(ctx context.Context, word, language string) (bool, error)
}

// DictionaryFunc adapts a plain function to the Dictionary interface.
type DictionaryFunc func(ctx context.Context, word, language string) (bool, error)

// IsRecognizedWord calls f.
func (f DictionaryFunc) IsRecognizedWord(ctx context.Context, word, language string) (bool, error) {
	return f(ctx, word, language)
}

// Engine evaluates candidates against a dictionary in a fixed language.
// It has no mutable state and is safe for concurrent use.
type Engine struct {
	dict     Dictionary
	language string
}

// NewEngine builds an Engine. An empty language selects DefaultLanguage.
func NewEngine(dict Dictionary, language string) *Engine {
	if language == "" {
		language = DefaultLanguage
	}
	return &Engine{dict: dict, language: language}
}

// Language returns the locale code passed to the dictionary.
func (e *Engine) Language() string { return e.language }

// Normalize lowercases raw input and trims surrounding whitespace.
// Callers treat an empty result as "nothing submitted".
func Normalize(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// Evaluate decides whether candidate is acceptable for s.
// The session is never modified; the same inputs always yield the same Verdict
// (given a deterministic dictionary).
func (e *Engine) Evaluate(ctx context.Context, s Session, candidate string) Verdict {
	word := Normalize(candidate)

	if utf8.RuneCountInString(word) < MinWordLength {
		return Rejected(ReasonTooShort)
	}
	if word == s.RootWord {
		return Rejected(ReasonSameAsRoot)
	}
	if s.Contains(word) {
		return Rejected(ReasonAlreadyUsed)
	}
	if !IsPossible(s.RootWord, word) {
		return Rejected(ReasonNotSubsequenceOfRoot)
	}
	if !e.isReal(ctx, word) {
		return Rejected(ReasonNotARealWord)
	}
	return Accepted(ScoreFor(utf8.RuneCountInString(word)))
}

// isReal asks the dictionary about word, treating a nil dictionary or a
// failed lookup as "not a word".
func (e *Engine) isReal(ctx context.Context, word string) bool {
	if e.dict == nil {
		return false
	}
	ok, err := e.dict.IsRecognizedWord(ctx, word, e.language)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Str("language", e.language).Msg("dictionary lookup failed")
		return false
	}
	return ok
}

// IsPossible reports whether every letter of word can be drawn from root,
// using each occurrence in root at most once. Letter order is irrelevant.
func IsPossible(root, word string) bool {
	// Letter frequency of the root, consumed as word is scanned.
	pool := make(map[rune]int, len(root))
	for _, r := range root {
		pool[r]++
	}
	for _, r := range word {
		if pool[r] == 0 {
			return false
		}
		pool[r]--
	}
	return true
}
