// internal/scramble/types.go
//
// Core type definitions for the word scramble rules engine.
// Defines:
//   - Reason:  why a candidate word was rejected.
//   - Verdict: accept/reject outcome of one evaluation.
//   - Session: immutable snapshot of a round (root word, used words, score).

package scramble

import "fmt"

// Reason identifies which validation rule rejected a candidate.
type Reason string

const (
	ReasonTooShort             Reason = "too_short"
	ReasonSameAsRoot           Reason = "same_as_root"
	ReasonAlreadyUsed          Reason = "already_used"
	ReasonNotSubsequenceOfRoot Reason = "not_possible"
	ReasonNotARealWord         Reason = "not_real"
)

// Title is the short headline shown to the player for a rejection.
func (r Reason) Title() string {
	switch r {
	case ReasonTooShort:
		return "Word must be at least 3 letters"
	case ReasonSameAsRoot:
		return "You can't use the root word itself"
	case ReasonAlreadyUsed:
		return "Word used already"
	case ReasonNotSubsequenceOfRoot:
		return "Word not possible"
	case ReasonNotARealWord:
		return "Word not recognized"
	}
	return ""
}

// Message is the longer explanation shown under Title.
// root is only interpolated for ReasonNotSubsequenceOfRoot.
func (r Reason) Message(root string) string {
	switch r {
	case ReasonTooShort:
		return "Sorry, that word is too short!"
	case ReasonSameAsRoot:
		return "Sorry, that word is the same as the root word!"
	case ReasonAlreadyUsed:
		return "Be more original!"
	case ReasonNotSubsequenceOfRoot:
		return fmt.Sprintf("You can't spell that word from '%s'!", root)
	case ReasonNotARealWord:
		return "You can't just make them up, you know!"
	}
	return ""
}

// Verdict is the outcome of evaluating one candidate.
// Exactly one of the two shapes is meaningful:
//   - Accepted == true:  ScoreDelta holds the points earned.
//   - Accepted == false: Reason holds the failed rule.
type Verdict struct {
	Accepted   bool   `json:"accepted"`
	ScoreDelta int    `json:"scoreDelta"`
	Reason     Reason `json:"reason,omitempty"`
}

// Accepted builds an accepting verdict worth delta points.
func Accepted(delta int) Verdict { return Verdict{Accepted: true, ScoreDelta: delta} }

// Rejected builds a rejecting verdict for reason r.
func Rejected(r Reason) Verdict { return Verdict{Reason: r} }

// Session is the state of one round.
// It is a value: Apply and Reset return new sessions and never touch the receiver.
type Session struct {
	RootWord  string   `json:"rootWord"`  // lowercase, fixed for the round
	UsedWords []string `json:"usedWords"` // accepted words, most recent first
	Score     int      `json:"score"`     // sum of all accepted deltas
}

// NewSession starts a fresh round on root.
func NewSession(root string) Session {
	return Session{RootWord: root, UsedWords: []string{}}
}

// Reset discards the round's progress and starts over on root.
func (s Session) Reset(root string) Session { return NewSession(root) }

// Apply folds a verdict for word into the session.
// Accepted words are prepended to UsedWords and their delta added to Score;
// rejections return the session unchanged.
func (s Session) Apply(word string, v Verdict) Session {
	if !v.Accepted {
		return s
	}
	used := make([]string, 0, len(s.UsedWords)+1)
	used = append(used, word)
	used = append(used, s.UsedWords...)
	return Session{
		RootWord:  s.RootWord,
		UsedWords: used,
		Score:     s.Score + v.ScoreDelta,
	}
}

// Contains reports whether word was already accepted this round.
func (s Session) Contains(word string) bool {
	for _, w := range s.UsedWords {
		if w == word {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s Session) Clone() Session {
	used := make([]string, len(s.UsedWords))
	copy(used, s.UsedWords)
	s.UsedWords = used
	return s
}
