package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

func dictCmd(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "dict",
		Usage: "Manage the SQLite dictionary",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Load a word list (one word per line) into the dictionary",
				UsageText: "wordscramble dict import --file words.txt --language en",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Word list file", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runImport(ctx, cmd.String("db"), cmd.String("file"), cmd.String("language"))
				},
			},
			{
				Name:  "count",
				Usage: "Print the number of words stored for the language",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					n, err := countWords(ctx, cmd.String("db"), cmd.String("language"))
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.Root().Writer, n)
					return nil
				},
			},
		},
	}
}

// runImport reads path and inserts its words under language.
func runImport(ctx context.Context, dbPath, path, language string) error {
	if dbPath == "" {
		return errors.New("dict import requires --db or DB_PATH")
	}
	list, err := words.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	db, err := openAndMigrate(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.NewSQLDictionary(db).Import(ctx, language, list)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.Info().Str("file", path).Str("language", language).Int("read", len(list)).Int("added", n).Msg("dictionary import done")
	return nil
}

// countWords reports how many words the sqlite dictionary holds for language.
func countWords(ctx context.Context, dbPath, language string) (int, error) {
	if dbPath == "" {
		return 0, errors.New("dict count requires --db or DB_PATH")
	}
	db, err := openAndMigrate(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return store.NewSQLDictionary(db).Count(ctx, language)
}
