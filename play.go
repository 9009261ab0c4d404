package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/scramble"
	"github.com/robalobadob/wordscramble/internal/words"
)

// Commands understood by the terminal client besides plain words.
const (
	playCmdNew  = ":new"
	playCmdQuit = ":quit"
)

func playCmd(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a round in the terminal",
		UsageText: `wordscramble play                 # random root word
   wordscramble play --daily         # today's root word
   wordscramble play --root listen   # fixed root word`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "Use this root word instead of a random one"},
			&cli.BoolFlag{Name: "daily", Usage: "Use the daily challenge root word"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging("warn", true)
			lang := cmd.String("language")
			if err := words.Init(cfg.StartFile, cfg.DictionaryFile, lang); err != nil {
				return fmt.Errorf("failed to load word lists: %w", err)
			}

			roots := words.Roots()
			root := scramble.Normalize(cmd.String("root"))
			if root == "" && cmd.Bool("daily") {
				_, root = daily.Root(time.Now(), cfg.DailySalt, roots)
			}

			g := &game{
				engine: scramble.NewEngine(words.Default(), lang),
				roots:  roots,
				in:     cmd.Root().Reader,
				out:    cmd.Root().Writer,
			}
			return g.run(ctx, root)
		},
	}
}

// game is the terminal host: it owns the session and renders verdicts.
type game struct {
	engine *scramble.Engine
	roots  []string
	in     io.Reader
	out    io.Writer
}

// run plays until :quit or end of input. An empty root picks a random one.
func (g *game) run(ctx context.Context, root string) error {
	if root == "" {
		root = words.Pick(g.roots)
	}
	s := scramble.NewSession(root)
	g.banner(s)

	sc := bufio.NewScanner(g.in)
	for {
		fmt.Fprint(g.out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case playCmdQuit:
			g.summary(s)
			return nil
		case playCmdNew:
			g.summary(s)
			s = s.Reset(words.Pick(g.roots))
			g.banner(s)
			continue
		}

		word := scramble.Normalize(line)
		v := g.engine.Evaluate(ctx, s, word)
		if !v.Accepted {
			fmt.Fprintf(g.out, "%s: %s\n", v.Reason.Title(), v.Reason.Message(s.RootWord))
			continue
		}
		s = s.Apply(word, v)
		fmt.Fprintf(g.out, "+%d %s (score %d)\n", v.ScoreDelta, word, s.Score)
		fmt.Fprintf(g.out, "  used: %s\n", strings.Join(s.UsedWords, ", "))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	g.summary(s)
	return nil
}

func (g *game) banner(s scramble.Session) {
	fmt.Fprintf(g.out, "Root word: %s\n", s.RootWord)
	fmt.Fprintf(g.out, "Type words made from its letters; %s for a new word, %s to stop.\n", playCmdNew, playCmdQuit)
}

// summary prints the score and the round's words, most recent first.
func (g *game) summary(s scramble.Session) {
	fmt.Fprintf(g.out, "Your current score is: %d\n", s.Score)
	for _, w := range s.UsedWords {
		n := len([]rune(w))
		fmt.Fprintf(g.out, "  (%d) %-10s +%d\n", n, w, scramble.ScoreFor(n))
	}
}
