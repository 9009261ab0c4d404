package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed start.txt dictionary.txt
var FS embed.FS

// Migrations holds the SQLite schema, applied in lexical order.
//
//go:embed sql/*.sql
var Migrations embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// StartList returns the embedded root word candidates.
func StartList() ([]string, error) {
	return readLines("start.txt")
}

// DictionaryList returns the embedded English word list.
func DictionaryList() ([]string, error) {
	return readLines("dictionary.txt")
}

// MigrationFS returns the migration files rooted at "sql".
func MigrationFS() fs.FS {
	sub, err := fs.Sub(Migrations, "sql")
	if err != nil {
		// Only possible if the embed pattern above is changed.
		panic(err)
	}
	return sub
}
