// internal/httpserver/server.go
//
// HTTP server wiring for the word scramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/scores", "/debug/words".
//   - Round endpoints (optional auth): mounted under /round.
//   - Auth endpoints: /auth/* (only when an account service is configured).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     guests are identified by an anonymous cookie instead.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/auth"
	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/scramble"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Store  store.Store
	Engine *scramble.Engine
	Auth   *auth.Service // nil disables /auth routes
	Roots  []string      // root word candidates
	Config config.Config
}

// Server bundles router, round store, rules engine and account service.
type Server struct {
	r        *chi.Mux
	store    store.Store
	engine   *scramble.Engine
	auth     *auth.Service
	roots    []string
	cfg      config.Config
	validate *validator.Validate
	locks    *roundLocks
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    d.Store,
		engine:   d.Engine,
		auth:     d.Auth,
		roots:    d.Roots,
		cfg:      d.Config,
		validate: newValidator(),
		locks:    newRoundLocks(),
	}
	if s.cfg.CookieName == "" {
		s.cfg.CookieName = "scramble_token"
	}
	if s.cfg.RequestTimeout <= 0 {
		s.cfg.RequestTimeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.RealIP)                        // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                     // recover from panics
	s.r.Use(chimw.Timeout(s.cfg.RequestTimeout)) // 504 when the deadline passes
	s.r.Use(jsonContentType)                     // default JSON responses
	s.r.Use(s.corsHandler())                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordscramble","endpoints":["/health","/scores","POST /round/new","POST /round/submit","POST /round/restart","GET /round/{id}","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_, dc := words.Stats()
		writeJSON(w, http.StatusOK, map[string]any{
			"roots":      len(s.roots),
			"dictionary": dc,
			"language":   s.engine.Language(),
		})
	})
	s.r.Get("/scores", s.handleScores)

	// Rounds: optional auth, guests can play
	s.mountRounds(s.r.With(s.withOptionalAuth()))

	// Accounts
	if s.auth != nil {
		s.mountAuthRoutes()
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes one line per request through the request-scoped logger.
func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsHandler enables credentialed CORS for the configured client origin.
func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler
}

// ------------------------------- scores ------------------------------------

// maxPreviewLength bounds the table returned by /scores.
const maxPreviewLength = 9

// handleScores previews points by word length.
// With ?length=N it returns a single entry; otherwise lengths 1..9.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("length"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_length")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"length": n, "points": scramble.ScoreFor(n)})
		return
	}
	table := make(map[string]int, maxPreviewLength)
	for n := 1; n <= maxPreviewLength; n++ {
		table[strconv.Itoa(n)] = scramble.ScoreFor(n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"table": table})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// newValidator reports field names by their JSON tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		fields := []string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request", "fields": fields})
		return false
	}
	return true
}

// decodeOptional decodes a JSON body when one was sent.
// An empty body leaves dst untouched; anything else must decode.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// roundLocks hands out one mutex per round ID while someone holds or waits
// for it. Entries are dropped when the last holder unlocks, so the map only
// ever contains rounds with requests in flight.
type roundLocks struct {
	mu sync.Mutex
	m  map[string]*roundLock
}

type roundLock struct {
	mu   sync.Mutex
	refs int
}

func newRoundLocks() *roundLocks {
	return &roundLocks{m: make(map[string]*roundLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *roundLocks) lock(id string) func() {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &roundLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		if e.refs--; e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// len reports how many rounds currently have a lock entry.
func (l *roundLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
