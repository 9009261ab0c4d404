// internal/config/config.go
//
// Runtime configuration read from environment variables (and .env in
// development, loaded by main through godotenv before FromEnv runs).

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Dictionary backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds every tunable of the server and CLI.
type Config struct {
	Port      string // PORT
	LogLevel  string // LOG_LEVEL (zerolog level name)
	LogFormat string // LOG_FORMAT: "json" or "console"

	DBPath string // DB_PATH; empty disables accounts and the sqlite dictionary

	JWTSecret      string // JWT_SECRET
	JWTExpiresDays int    // JWT_EXPIRES_DAYS
	CookieName     string // COOKIE_NAME
	ClientOrigin   string // CLIENT_ORIGIN (CORS)
	Production     bool   // NODE_ENV == "production"

	RequestTimeout time.Duration // REQUEST_TIMEOUT_SECONDS

	DailySalt string // DAILY_SALT

	StartFile      string // WORDS_START_FILE
	DictionaryFile string // WORDS_DICTIONARY_FILE
	Language       string // DICTIONARY_LANGUAGE
	Backend        string // DICTIONARY_BACKEND: memory | sqlite
}

// FromEnv builds a Config, applying defaults for unset variables.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DBPath:         getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "scramble_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		StartFile:      os.Getenv("WORDS_START_FILE"),
		DictionaryFile: os.Getenv("WORDS_DICTIONARY_FILE"),
		Language:       getEnv("DICTIONARY_LANGUAGE", "en"),
		Backend:        strings.ToLower(getEnv("DICTIONARY_BACKEND", BackendMemory)),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses k as an int, returning def when unset or malformed.
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
