// internal/httpserver/routes_round.go
//
// HTTP routes for playing a round.
// Exposes four endpoints under /round:
//   - POST /round/new      → start a round (random root, or today's root with daily=true)
//   - POST /round/submit   → submit a candidate word
//   - POST /round/restart  → discard progress and start over on a new random root
//   - GET  /round/{id}     → current round snapshot
//
// Rounds are held in the in-memory store and belong to the player who
// started them (user ID when logged in, anonymous cookie otherwise).

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/scramble"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

// mountRounds registers all /round routes.
func (s *Server) mountRounds(r chi.Router) {
	r.Route("/round", func(r chi.Router) {
		r.Post("/new", s.handleNewRound)
		r.Post("/submit", s.handleSubmit)
		r.Post("/restart", s.handleRestart)
		r.Get("/{id}", s.handleGetRound)
	})
}

// roundRes is the snapshot returned by every round endpoint.
type roundRes struct {
	RoundID   string   `json:"roundId"`
	RootWord  string   `json:"rootWord"`
	Daily     bool     `json:"daily"`
	Date      string   `json:"date,omitempty"`
	Score     int      `json:"score"`
	UsedWords []string `json:"usedWords"`
}

func snapshot(rd *store.Round) roundRes {
	used := rd.Session.UsedWords
	if used == nil {
		used = []string{}
	}
	return roundRes{
		RoundID:   rd.ID,
		RootWord:  rd.Session.RootWord,
		Daily:     rd.Daily,
		Date:      rd.Date,
		Score:     rd.Session.Score,
		UsedWords: used,
	}
}

// -----------------------------------------------------------------------------
// /round/new

// newRoundReq is the optional request payload for /round/new.
type newRoundReq struct {
	Daily bool `json:"daily"`
}

// handleNewRound creates a round for the caller.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	// Body is optional; an empty body means a random round.
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	rd := store.NewRound(s.ownerID(w, r), words.Pick(s.roots))
	if req.Daily {
		date, root := daily.Root(time.Now(), s.cfg.DailySalt, s.roots)
		if root != "" {
			rd.Session = scramble.NewSession(root)
			rd.Daily, rd.Date = true, date
		}
	}

	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("round", rd.ID).Str("root", rd.Session.RootWord).Bool("daily", rd.Daily).Msg("round started")
	writeJSON(w, http.StatusOK, snapshot(rd))
}

// -----------------------------------------------------------------------------
// /round/submit

// submitReq is the request payload for /round/submit.
type submitReq struct {
	RoundID string `json:"roundId" validate:"required"`
	Word    string `json:"word" validate:"max=64"`
}

// submitRes extends the round snapshot with the verdict for this word.
type submitRes struct {
	roundRes
	Verdict    string          `json:"verdict"` // accepted | rejected | none
	Word       string          `json:"word,omitempty"`
	Reason     scramble.Reason `json:"reason,omitempty"`
	Title      string          `json:"title,omitempty"`
	Message    string          `json:"message,omitempty"`
	ScoreDelta int             `json:"scoreDelta"`
}

// handleSubmit evaluates one candidate and applies the verdict to the round.
//   - An empty word (after normalization) is a no-op: verdict "none".
//   - Rejections leave the round untouched and carry a title/message for display.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	rd, unlock, ok := s.lockOwnedRound(w, r, req.RoundID)
	if !ok {
		return
	}
	defer unlock()

	word := scramble.Normalize(req.Word)
	if word == "" {
		writeJSON(w, http.StatusOK, submitRes{roundRes: snapshot(rd), Verdict: "none"})
		return
	}

	v := s.engine.Evaluate(r.Context(), rd.Session, word)
	if err := r.Context().Err(); err != nil {
		// The timeout middleware answers 504; the verdict is not trustworthy.
		hlog.FromRequest(r).Warn().Err(err).Str("round", rd.ID).Msg("submit abandoned")
		return
	}
	if !v.Accepted {
		writeJSON(w, http.StatusOK, submitRes{
			roundRes: snapshot(rd),
			Verdict:  "rejected",
			Word:     word,
			Reason:   v.Reason,
			Title:    v.Reason.Title(),
			Message:  v.Reason.Message(rd.Session.RootWord),
		})
		return
	}

	rd.Session = rd.Session.Apply(word, v)
	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("round", rd.ID).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, submitRes{
		roundRes:   snapshot(rd),
		Verdict:    "accepted",
		Word:       word,
		ScoreDelta: v.ScoreDelta,
	})
}

// -----------------------------------------------------------------------------
// /round/restart

// restartReq is the request payload for /round/restart.
type restartReq struct {
	RoundID string `json:"roundId" validate:"required"`
}

// handleRestart picks a new random root and clears words and score.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	rd, unlock, ok := s.lockOwnedRound(w, r, req.RoundID)
	if !ok {
		return
	}
	defer unlock()

	rd.Session = rd.Session.Reset(words.Pick(s.roots))
	rd.Daily, rd.Date = false, ""
	rd.StartedAt = time.Now().UTC()

	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("round", rd.ID).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, snapshot(rd))
}

// -----------------------------------------------------------------------------
// /round/{id}

// handleGetRound returns the current snapshot.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadOwnedRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot(rd))
}

// loadOwnedRound fetches a round and checks the caller owns it,
// writing 404/403/500 itself when it cannot.
func (s *Server) loadOwnedRound(w http.ResponseWriter, r *http.Request, id string) (*store.Round, bool) {
	rd, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("round", id).Msg("load round")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	if err := rd.Authorize(s.ownerID(w, r)); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return rd, true
}

// lockOwnedRound checks ownership first, then takes the round's lock and
// reloads it so the caller works on the latest state. Unknown or foreign
// round IDs never reach the lock table.
func (s *Server) lockOwnedRound(w http.ResponseWriter, r *http.Request, id string) (*store.Round, func(), bool) {
	if _, ok := s.loadOwnedRound(w, r, id); !ok {
		return nil, nil, false
	}
	unlock := s.locks.lock(id)
	rd, ok := s.loadOwnedRound(w, r, id)
	if !ok {
		unlock()
		return nil, nil, false
	}
	return rd, unlock, true
}
