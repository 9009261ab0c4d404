package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/auth"
	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/httpserver"
	"github.com/robalobadob/wordscramble/internal/scramble"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	setupLogging(cfg.LogLevel, cfg.LogFormat == "console")

	if err := newApp(cfg).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// setupLogging applies the level and, for terminals, a human-readable writer.
func setupLogging(level string, console bool) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newApp(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:           "wordscramble",
		Usage:          "Word scramble game server and terminal client",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite database file (empty disables accounts)",
				Value: cfg.DBPath,
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Dictionary language code",
				Value: cfg.Language,
			},
		},
		Commands: []*cli.Command{
			serveCmd(cfg),
			playCmd(cfg),
			dictCmd(cfg),
		},
	}
}

func serveCmd(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "Listen port", Value: cfg.Port},
			&cli.StringFlag{Name: "dictionary", Usage: "Dictionary backend [memory, sqlite]", Value: cfg.Backend},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg.Port = cmd.String("port")
			cfg.Backend = cmd.String("dictionary")
			cfg.DBPath = cmd.String("db")
			cfg.Language = cmd.String("language")
			return runServe(ctx, cfg)
		},
	}
}

// runServe loads word lists, wires the dictionary backend and blocks serving HTTP.
func runServe(ctx context.Context, cfg config.Config) error {
	if err := words.Init(cfg.StartFile, cfg.DictionaryFile, cfg.Language); err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}

	var (
		db      *sql.DB
		authSvc *auth.Service
	)
	if cfg.DBPath != "" {
		var err error
		db, err = openAndMigrate(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		authSvc = auth.NewService(db, cfg.JWTSecret, cfg.JWTExpiresDays)
	} else {
		log.Warn().Msg("DB_PATH is empty: accounts disabled")
	}

	dict, err := buildDictionary(ctx, cfg, db)
	if err != nil {
		return err
	}

	srv := httpserver.New(httpserver.Deps{
		Store:  store.NewMemoryStore(),
		Engine: scramble.NewEngine(dict, cfg.Language),
		Auth:   authSvc,
		Roots:  words.Roots(),
		Config: cfg,
	})
	rc, dc := words.Stats()
	log.Info().
		Str("port", cfg.Port).
		Str("dictionary", cfg.Backend).
		Str("language", cfg.Language).
		Int("roots", rc).
		Int("words", dc).
		Msg("starting wordscramble server")
	return srv.Start(":" + cfg.Port)
}

// openAndMigrate opens the SQLite file and applies embedded migrations.
func openAndMigrate(path string) (*sql.DB, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(db, assets.MigrationFS()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// buildDictionary selects the oracle for cfg.Backend.
// The sqlite backend is seeded from the loaded word list when it has no
// entries for the language yet.
func buildDictionary(ctx context.Context, cfg config.Config, db *sql.DB) (scramble.Dictionary, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return words.Default(), nil
	case config.BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("dictionary backend %q requires DB_PATH", cfg.Backend)
		}
		d := store.NewSQLDictionary(db)
		n, err := d.Count(ctx, cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("count dictionary: %w", err)
		}
		if n == 0 && words.Default() != nil {
			added, err := d.Import(ctx, cfg.Language, words.Default().Words(cfg.Language))
			if err != nil {
				return nil, fmt.Errorf("seed dictionary: %w", err)
			}
			log.Info().Int("words", added).Str("language", cfg.Language).Msg("seeded sqlite dictionary")
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown dictionary backend %q", cfg.Backend)
}
