package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS",
		"COOKIE_NAME", "CLIENT_ORIGIN", "NODE_ENV", "DAILY_SALT", "WORDS_START_FILE",
		"WORDS_DICTIONARY_FILE", "DICTIONARY_LANGUAGE", "DICTIONARY_BACKEND", "REQUEST_TIMEOUT_SECONDS",
	} {
		t.Setenv(k, "")
	}

	c := FromEnv()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, BackendMemory, c.Backend)
	assert.False(t, c.Production)
	assert.Empty(t, c.StartFile)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("DICTIONARY_BACKEND", "SQLite")
	t.Setenv("DICTIONARY_LANGUAGE", "fr")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")

	c := FromEnv()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 3, c.JWTExpiresDays)
	assert.True(t, c.Production)
	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "fr", c.Language)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
}

func TestFromEnvBadInt(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	assert.Equal(t, 14, FromEnv().JWTExpiresDays)
}
