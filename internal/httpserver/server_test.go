package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/auth"
	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/scramble"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

// client replays cookies between requests like a browser would.
type client struct {
	t       *testing.T
	srv     *Server
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the dependencies before the server is built.
func newTestServerWith(t *testing.T, tweak func(*Deps)) *client {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, assets.MigrationFS()))

	dict := words.NewSet()
	dict.Add("en", "silk", "worm", "milk", "silo")

	d := Deps{
		Store:  store.NewMemoryStore(),
		Engine: scramble.NewEngine(dict, "en"),
		Auth:   auth.NewService(db, "test-secret", 1),
		Roots:  []string{"silkworm"},
		Config: config.Config{ClientOrigin: "http://localhost:5173", DailySalt: "salt", CookieName: "scramble_token"},
	}
	if tweak != nil {
		tweak(&d)
	}
	srv := New(d)
	return &client{t: t, srv: srv, h: srv.Router(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	for _, ck := range rr.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	out := map[string]any{}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr, out
}

func (c *client) newRound(daily bool) string {
	c.t.Helper()
	rr, body := c.do(http.MethodPost, "/round/new", map[string]bool{"daily": daily})
	require.Equal(c.t, http.StatusOK, rr.Code)
	id, _ := body["roundId"].(string)
	require.NotEmpty(c.t, id)
	return id
}

func TestHealthAndScores(t *testing.T) {
	c := newTestServer(t)

	rr, body := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["ok"])

	_, body = c.do(http.MethodGet, "/scores", nil)
	table := body["table"].(map[string]any)
	assert.Equal(t, float64(300), table["3"])
	assert.Equal(t, float64(2000), table["8"])
	assert.Equal(t, float64(0), table["9"])
	assert.Equal(t, float64(0), table["2"])

	_, body = c.do(http.MethodGet, "/scores?length=7", nil)
	assert.Equal(t, float64(1000), body["points"])

	rr, _ = c.do(http.MethodGet, "/scores?length=seven", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", body["error"])
}

func TestRoundFlow(t *testing.T) {
	c := newTestServer(t)
	id := c.newRound(false)

	_, body := c.do(http.MethodGet, "/round/"+id, nil)
	assert.Equal(t, "silkworm", body["rootWord"])
	assert.Equal(t, float64(0), body["score"])
	assert.Empty(t, body["usedWords"])

	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": " SILK "})
	assert.Equal(t, "accepted", body["verdict"])
	assert.Equal(t, float64(400), body["scoreDelta"])
	assert.Equal(t, float64(400), body["score"])
	assert.Equal(t, []any{"silk"}, body["usedWords"])

	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "silk"})
	assert.Equal(t, "rejected", body["verdict"])
	assert.Equal(t, string(scramble.ReasonAlreadyUsed), body["reason"])
	assert.Equal(t, "Word used already", body["title"])
	assert.Equal(t, float64(400), body["score"])

	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "worm"})
	assert.Equal(t, "accepted", body["verdict"])
	assert.Equal(t, []any{"worm", "silk"}, body["usedWords"])
	assert.Equal(t, float64(800), body["score"])

	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "zebra"})
	assert.Equal(t, string(scramble.ReasonNotSubsequenceOfRoot), body["reason"])
	assert.Equal(t, "You can't spell that word from 'silkworm'!", body["message"])

	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "   "})
	assert.Equal(t, "none", body["verdict"])
	assert.Equal(t, float64(800), body["score"])

	_, body = c.do(http.MethodPost, "/round/restart", map[string]string{"roundId": id})
	assert.Equal(t, "silkworm", body["rootWord"])
	assert.Equal(t, float64(0), body["score"])
	assert.Empty(t, body["usedWords"])
}

func TestSubmitValidation(t *testing.T) {
	c := newTestServer(t)

	rr, body := c.do(http.MethodPost, "/round/submit", map[string]string{"word": "silk"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_request", body["error"])
	assert.Equal(t, []any{"roundId"}, body["fields"])

	rr, _ = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": "missing", "word": "silk"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/round/submit", bytes.NewBufferString("{"))
	rr = httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoundOwnership(t *testing.T) {
	alice := newTestServer(t)
	id := alice.newRound(false)

	// Same server, different browser (no anonymous cookie).
	mallory := &client{t: t, h: alice.h, cookies: map[string]*http.Cookie{}}
	rr, _ := mallory.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "silk"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = mallory.do(http.MethodGet, "/round/"+id, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDailyRound(t *testing.T) {
	c := newTestServer(t)
	rr, body := c.do(http.MethodPost, "/round/new", map[string]bool{"daily": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["daily"])
	assert.NotEmpty(t, body["date"])
	assert.Equal(t, "silkworm", body["rootWord"])

	rr, body = c.do(http.MethodPost, "/round/new", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, body["daily"])
}

func TestAuthFlow(t *testing.T) {
	c := newTestServer(t)
	creds := map[string]string{"username": "player_one", "password": "correct horse"}

	rr, _ := c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, body := c.do(http.MethodPost, "/auth/signup", creds)
	require.Equal(t, http.StatusOK, rr.Code)
	userID := body["id"].(string)

	rr, _ = c.do(http.MethodPost, "/auth/signup", creds)
	assert.Equal(t, http.StatusConflict, rr.Code)

	_, body = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, userID, body["id"])
	assert.Equal(t, "player_one", body["username"])

	// Rounds started while logged in belong to the account.
	id := c.newRound(false)
	_, body = c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "milk"})
	assert.Equal(t, "accepted", body["verdict"])

	rr, _ = c.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = c.do(http.MethodPost, "/auth/login", map[string]string{"username": "player_one", "password": "nope nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = c.do(http.MethodPost, "/auth/login", creds)
	require.Equal(t, http.StatusOK, rr.Code)
	_, body = c.do(http.MethodGet, "/round/"+id, nil)
	assert.Equal(t, float64(400), body["score"])
}

// submitRaw sends a submit with the client's current cookies without
// touching them, so it is safe to call from several goroutines.
func (c *client) submitRaw(id, word string) (int, string) {
	body := fmt.Sprintf(`{"roundId":%q,"word":%q}`, id, word)
	req := httptest.NewRequest(http.MethodPost, "/round/submit", strings.NewReader(body))
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	out := map[string]any{}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	verdict, _ := out["verdict"].(string)
	return rr.Code, verdict
}

func TestConcurrentSubmits(t *testing.T) {
	c := newTestServer(t)
	id := c.newRound(false)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []string
	)
	for i := 0; i < 5; i++ {
		for _, w := range []string{"silk", "worm", "milk", "silo"} {
			wg.Add(1)
			go func(w string) {
				defer wg.Done()
				code, verdict := c.submitRaw(id, w)
				assert.Equal(t, http.StatusOK, code)
				if verdict == "accepted" {
					mu.Lock()
					accepted = append(accepted, w)
					mu.Unlock()
				}
			}(w)
		}
	}
	wg.Wait()

	// Each word is accepted exactly once however the submits interleave.
	assert.ElementsMatch(t, []string{"silk", "worm", "milk", "silo"}, accepted)
	_, body := c.do(http.MethodGet, "/round/"+id, nil)
	assert.Equal(t, float64(1600), body["score"])
	assert.Len(t, body["usedWords"], 4)
	assert.Zero(t, c.srv.locks.len())
}

func TestUnknownRoundsLeaveNoLocks(t *testing.T) {
	c := newTestServer(t)
	c.newRound(false)

	for i := 0; i < 100; i++ {
		code, _ := c.submitRaw(fmt.Sprintf("missing-%d", i), "silk")
		assert.Equal(t, http.StatusNotFound, code)
	}
	rr, _ := c.do(http.MethodPost, "/round/restart", map[string]string{"roundId": "missing-restart"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Zero(t, c.srv.locks.len())

	// A round owned by someone else is refused before any lock is taken.
	id := c.newRound(false)
	other := &client{t: t, srv: c.srv, h: c.h, cookies: map[string]*http.Cookie{}}
	code, _ := other.submitRaw(id, "silk")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Zero(t, c.srv.locks.len())
}

func TestNewRoundRejectsMalformedBody(t *testing.T) {
	c := newTestServer(t)

	for _, raw := range []string{`{"daily":"yes"}`, `{`} {
		req := httptest.NewRequest(http.MethodPost, "/round/new", strings.NewReader(raw))
		rr := httptest.NewRecorder()
		c.h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, raw)
		assert.Contains(t, rr.Body.String(), "bad_json", raw)
	}

	// No body at all still starts a random round.
	rr, body := c.do(http.MethodPost, "/round/new", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, body["roundId"])
}

func TestSubmitPastDeadline(t *testing.T) {
	c := newTestServerWith(t, func(d *Deps) {
		d.Config.RequestTimeout = 50 * time.Millisecond
		d.Engine = scramble.NewEngine(scramble.DictionaryFunc(func(ctx context.Context, _, _ string) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		}), "en")
	})
	id := c.newRound(false)

	rr, body := c.do(http.MethodPost, "/round/submit", map[string]string{"roundId": id, "word": "silk"})
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Nil(t, body["verdict"])

	_, body = c.do(http.MethodGet, "/round/"+id, nil)
	assert.Equal(t, float64(0), body["score"])
	assert.Empty(t, body["usedWords"])
	assert.Zero(t, c.srv.locks.len())
}
