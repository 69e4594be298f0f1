package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/economy"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/metrics"
	"github.com/bezalel6/computer-chess/pkg/report"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

type replayOptions struct {
	player  string
	color   string
	gameID  string
	outDir  string
	ai      string
	persist bool
	html    bool
}

func newReplayCmd(a *app) *cobra.Command {
	o := replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <game.pgn>",
		Short: "Run a finished game through the challenge loop",
		Long: `Replays a PGN game from one side's point of view: challenges are
generated before each of that side's moves and resolved by the move
actually played. The game report is written as JSON and Markdown and
appended to the history file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			return a.replay(cmd.Context(), f, o, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&o.player, "player", "player", "player name")
	flags.StringVar(&o.color, "color", "white", "side the player had: white or black")
	flags.StringVar(&o.gameID, "game", "", "game identifier (default: random)")
	flags.StringVar(&o.outDir, "out", "", "report directory (default: server.report_dir)")
	flags.StringVar(&o.ai, "ai", "", "opponent AI level: Beginner, Intermediate, Advanced or Master")
	flags.BoolVar(&o.persist, "persist", false, "store records and XP in the database")
	flags.BoolVar(&o.html, "html", false, "also write an HTML report")
	return cmd
}

func parseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	}
	return board.White, fmt.Errorf("unknown color %q", s)
}

func (a *app) replay(ctx context.Context, r io.Reader, o replayOptions, out io.Writer) error {
	color, err := parseColor(o.color)
	if err != nil {
		return err
	}
	ai, err := economy.ParseAIDifficulty(o.ai)
	if err != nil {
		return err
	}
	steps, final, err := board.ReplayPGN(r)
	if err != nil {
		return err
	}
	if o.gameID == "" {
		o.gameID = uuid.NewString()
	}
	if o.outDir == "" {
		o.outDir = a.cfg.Server.ReportDir
	}

	ev, stopEngine, err := startEvaluator(a.cfg.Engine, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = stopEngine() }()

	b, err := a.catalogue()
	if err != nil {
		return err
	}
	rec := metrics.NoopRecorder{}
	opts := a.sessionOptions(b, rec)
	if o.persist {
		st, err := store.Open(a.cfg.Database.File, store.WithLogger(a.logger))
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts = append(opts, session.WithStore(st))
	}
	sess := session.New(o.gameID, o.player, a.aggregator(ev, rec), opts...)

	for i, step := range steps {
		if step.Before.Turn() != color {
			continue
		}
		if _, err := sess.GenerateChallenges(ctx, step.Before); err != nil {
			return err
		}
		if _, err := sess.ApplyMove(ctx, step.Move, i == len(steps)-1); err != nil {
			return err
		}
	}

	outcome := economy.Outcome{
		Moves: final.MoveNumber(),
		AI:    ai,
	}
	if final.Terminal() == board.Checkmate && final.Turn() != color {
		outcome.Win = true
		outcome.Checkmate = true
	}
	game, err := sess.Finish(ctx, outcome)
	if err != nil {
		return err
	}

	jsonPath, err := report.SaveGameReport(report.NewJSONReporter(true), game, o.outDir, "json")
	if err != nil {
		return err
	}
	if _, err := report.SaveGameReport(report.NewMarkdownReporter(), game, o.outDir, "md"); err != nil {
		return err
	}
	if o.html {
		if _, err := report.SaveGameReport(report.NewHTMLReporter(), game, o.outDir, "html"); err != nil {
			return err
		}
	}
	if err := report.AppendToHistory(filepath.Join(o.outDir, "history.jsonl"), game, jsonPath); err != nil {
		return err
	}
	a.logger.Info("game replayed",
		logging.GameField(o.gameID),
		logging.IntField("plies", len(steps)),
		logging.StringField("report", jsonPath),
	)

	s := game.Settlement
	fmt.Fprintf(out, "game %s (%s as %s)\n", game.GameID, game.Player, strings.ToLower(o.color))
	fmt.Fprintf(out, "points: %d\n", s.Summary.Points)
	fmt.Fprintf(out, "challenges: %d/%d completed\n", s.Summary.Completed, s.Summary.Presented)
	fmt.Fprintf(out, "xp: +%d (total %d)\n", s.XPEarned, s.TotalXP)
	fmt.Fprintf(out, "rank: %s\n", s.Rank)
	fmt.Fprintf(out, "report: %s\n", jsonPath)
	return nil
}
