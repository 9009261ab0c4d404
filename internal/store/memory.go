// internal/store/memory.go
//
// In-memory implementation of the round Store interface.
// Rounds are deliberately ephemeral: scores are never persisted, so a
// process restart discards every round in progress.
//
// Characteristics:
//   - Stores Round values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Rounds are copied on Save and Get, so callers never share UsedWords.
//   - ErrNotFound is returned for missing round IDs.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordscramble/internal/scramble"
)

var (
	// ErrNotFound is returned when no round has the requested ID.
	ErrNotFound = errors.New("store: round not found")

	// ErrForbidden is returned when a round belongs to someone else.
	ErrForbidden = errors.New("store: round belongs to another player")
)

// Round is one player's game on a single root word.
type Round struct {
	ID        string           `json:"roundId"`
	OwnerID   string           `json:"-"` // user ID or anonymous cookie value
	Session   scramble.Session `json:"session"`
	Daily     bool             `json:"daily"`          // root chosen by the daily challenge
	Date      string           `json:"date,omitempty"` // YYYY-MM-DD for daily rounds
	StartedAt time.Time        `json:"startedAt"`
}

// NewRound builds a round with a fresh ID on root for owner.
func NewRound(owner, root string) *Round {
	return &Round{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Session:   scramble.NewSession(root),
		StartedAt: time.Now().UTC(),
	}
}

// Authorize returns ErrForbidden unless owner matches the round's owner.
func (r *Round) Authorize(owner string) error {
	if r.OwnerID != "" && r.OwnerID != owner {
		return ErrForbidden
	}
	return nil
}

// clone returns a deep copy of r.
func (r *Round) clone() *Round {
	c := *r
	c.Session = r.Session.Clone()
	return &c
}

// Store defines the persistence interface for rounds.
type Store interface {
	// Save persists or updates a round.
	Save(ctx context.Context, r *Round) error

	// Get retrieves a round by ID.
	// Returns ErrNotFound if the round does not exist.
	Get(ctx context.Context, id string) (*Round, error)

	// Delete removes a round; deleting a missing round is not an error.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards rounds map
	rounds map[string]*Round // keyed by Round.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*Round)}
}

// Save adds or updates the round in the map.
func (m *memory) Save(ctx context.Context, r *Round) error {
	if r == nil || r.ID == "" {
		return errors.New("store: round has no ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r.clone()
	return nil
}

// Get looks up a round by ID and returns a private copy.
func (m *memory) Get(ctx context.Context, id string) (*Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r.clone(), nil
	}
	return nil, ErrNotFound
}

// Delete drops a round from the map.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}
