// internal/httpserver/routes_auth.go
//
// Account endpoints, auth middleware and cookie handling.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me (requires auth)
//
// Tokens are accepted from "Authorization: Bearer" or the auth cookie.
// Guests get a long-lived anonymous cookie so their rounds stay theirs.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordscramble/internal/auth"
)

const anonCookieName = "scramble_anon"

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// credentialsReq is the payload for signup and login.
type credentialsReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// mountAuthRoutes registers authentication routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	u, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueToken signs a JWT for u and stores it in the auth cookie.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u *auth.User) bool {
	tok, exp, err := s.auth.SignToken(u.ID, u.Username)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)
	return true
}

// --------------------------- auth middleware -------------------------------

// userFromRequest resolves a valid token to an existing user, or nil.
func (s *Server) userFromRequest(r *http.Request) *authUser {
	if s.auth == nil {
		return nil
	}
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	id, username, err := s.auth.ParseToken(tok)
	if err != nil {
		return nil
	}
	// Ensure user still exists
	if _, err := s.auth.FindByID(r.Context(), id); err != nil {
		return nil
	}
	return &authUser{ID: id, Username: username}
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := s.userFromRequest(r); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := s.userFromRequest(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// currentUser returns the user placed in context by auth middleware, or nil.
func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// ownerID identifies the caller: user ID when logged in, anonymous ID otherwise.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) string {
	if u := currentUser(r); u != nil {
		return u.ID
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(anonCookieName, id, time.Now().Add(180*24*time.Hour)))
	// Later lookups in this request must see the same ID.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// ------------------------------ cookies ------------------------------------

// cookie builds an HttpOnly cookie with environment-appropriate security attributes.
func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	}
}

// setAuthCookie writes the auth token cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.cookie(s.cfg.CookieName, token, exp))
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	c := s.cookie(s.cfg.CookieName, "", time.Time{})
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
