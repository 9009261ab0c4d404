// internal/store/dictionary.go
//
// SQLite-backed dictionary oracle.
// The dictionary table is created by assets/sql/002_dictionary.sql and
// filled by the "dict import" command (or Import in tests).

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// importBatch is the number of rows inserted per transaction.
const importBatch = 5000

// SQLDictionary answers IsRecognizedWord from the dictionary table.
type SQLDictionary struct {
	db *sql.DB
}

// NewSQLDictionary wraps an open, migrated database.
func NewSQLDictionary(db *sql.DB) *SQLDictionary { return &SQLDictionary{db: db} }

// IsRecognizedWord reports whether (language, word) exists.
// Query errors are returned as-is; the scramble engine treats them as "not a word".
func (d *SQLDictionary) IsRecognizedWord(ctx context.Context, word, language string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx,
		`SELECT 1 FROM dictionary WHERE language=? AND word=?`,
		language, strings.ToLower(word),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %q: %w", word, err)
	}
	return true, nil
}

// Import inserts words under language, ignoring duplicates.
// Returns the number of new rows.
func (d *SQLDictionary) Import(ctx context.Context, language string, words []string) (int, error) {
	total := 0
	for start := 0; start < len(words); start += importBatch {
		end := start + importBatch
		if end > len(words) {
			end = len(words)
		}
		n, err := d.importChunk(ctx, language, words[start:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// importChunk runs one batch inside a dedicated transaction.
func (d *SQLDictionary) importChunk(ctx context.Context, language string, words []string) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dictionary (language, word) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, w := range words {
		res, err := stmt.ExecContext(ctx, language, strings.ToLower(w))
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", w, err)
		}
		if c, _ := res.RowsAffected(); c > 0 {
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// Count returns the number of words stored for language.
func (d *SQLDictionary) Count(ctx context.Context, language string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM dictionary WHERE language=?`, language,
	).Scan(&n)
	return n, err
}
