// internal/words/words.go
//
// Provides word list management for the scramble engine.
//
// Responsibilities:
//   - Load the root word list and the dictionary from files or fall back to
//     the embedded defaults in the assets package.
//   - Hold the default in-memory dictionary (a Set) for the configured language.
//   - Supply utility functions like RandomRoot, Roots, Default and Stats.
//
// Word Lists:
//   - "start":      candidate root words, one per line (at most 8 letters).
//   - "dictionary": every word the in-memory oracle recognizes.
//
// Initialization behavior (Init):
//   1. A non-empty path replaces the matching embedded list.
//   2. Lines are lowercased and trimmed; blanks, "#" comments and
//      non-alphabetic entries are dropped.
//   3. An empty list after loading is an error (ErrEmptyList).
//
// Constraints:
//   • Initialization is run once (sync.Once).
//   • The returned lists are shared; callers must not modify them.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/wordscramble/assets"
)

// MaxRootLength is the longest root word accepted from a start list.
const MaxRootLength = 8

// FallbackRoot is used when no root list has been loaded.
const FallbackRoot = "silkworm"

// ErrEmptyList is returned when a word list contains no usable entries.
var ErrEmptyList = errors.New("words: list is empty")

var (
	initOnce   sync.Once
	roots      []string // candidate root words
	dictionary *Set     // default in-memory oracle
	initialErr error
)

// Init loads word lists exactly once for the given language.
// Later calls return the first call's result regardless of arguments.
func Init(startPath, dictPath, language string) error {
	initOnce.Do(func() {
		roots, dictionary, initialErr = Load(startPath, dictPath, language)
	})
	return initialErr
}

// Load reads the root list and dictionary without touching package state.
// Empty paths select the embedded lists.
func Load(startPath, dictPath, language string) ([]string, *Set, error) {
	var (
		rootList, dictList []string
		err                error
	)
	if startPath != "" {
		rootList, err = readWordFile(startPath)
	} else {
		rootList, err = assets.StartList()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load start list: %w", err)
	}
	rootList = filter(rootList, func(w string) bool { return utf8.RuneCountInString(w) <= MaxRootLength })
	if len(rootList) == 0 {
		return nil, nil, fmt.Errorf("start list: %w", ErrEmptyList)
	}

	if dictPath != "" {
		dictList, err = readWordFile(dictPath)
	} else {
		dictList, err = assets.DictionaryList()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load dictionary: %w", err)
	}
	dictList = filter(dictList, isAlpha)
	if len(dictList) == 0 {
		return nil, nil, fmt.Errorf("dictionary: %w", ErrEmptyList)
	}

	set := NewSet()
	set.Add(language, dictList...)
	return rootList, set, nil
}

// ReadFile loads a word list from disk with the same normalization as Init.
func ReadFile(path string) ([]string, error) {
	return readWordFile(path)
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// filter keeps the alphabetic words of list that satisfy keep.
func filter(list []string, keep func(string) bool) []string {
	out := list[:0:0]
	for _, w := range list {
		if isAlpha(w) && keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// isAlpha reports whether s is a non-empty run of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// RandomRoot returns a cryptographically random root word.
// If roots are not loaded yet or empty, falls back to FallbackRoot.
func RandomRoot() string {
	return Pick(roots)
}

// Pick returns a random element of list, or FallbackRoot when list is empty.
func Pick(list []string) string {
	if len(list) == 0 {
		return FallbackRoot
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return list[0]
	}
	return list[nBig.Int64()]
}

// Roots returns the loaded root word list.
func Roots() []string { return roots }

// Default returns the dictionary loaded by Init (nil before Init).
func Default() *Set { return dictionary }

// Stats returns counts of loaded words: (roots, dictionary entries).
func Stats() (rootCount int, dictCount int) {
	if dictionary != nil {
		dictCount = dictionary.Len()
	}
	return len(roots), dictCount
}
