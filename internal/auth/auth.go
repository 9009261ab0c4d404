// internal/auth/auth.go
//
// Player accounts: signup/login with bcrypt password hashes and HS256 JWTs.
// Accounts exist only to own rounds; no scores or history are stored.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service manages accounts stored in SQLite and issues tokens.
type Service struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
}

// NewService builds a Service. expiresDays <= 0 falls back to 14 days.
func NewService(db *sql.DB, secret string, expiresDays int) *Service {
	if expiresDays <= 0 {
		expiresDays = 14
	}
	return &Service{
		db:     db,
		secret: []byte(secret),
		ttl:    time.Duration(expiresDays) * 24 * time.Hour,
	}
}

// Signup validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Service) Signup(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.FindByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindByUsername loads a user (case-insensitive) or returns sql.ErrNoRows.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindByID loads a user or returns sql.ErrNoRows.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a User.
func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// SignToken creates an HS256 JWT with id/username claims.
func (s *Service) SignToken(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// ParseToken verifies tok and returns its id/username claims.
func (s *Service) ParseToken(tok string) (id, username string, err error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", "", ErrInvalidToken
	}
	id, _ = claims["id"].(string)
	username, _ = claims["username"].(string)
	if id == "" || username == "" {
		return "", "", ErrInvalidToken
	}
	return id, username, nil
}

// normalizeUsername trims whitespace.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}
