package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/metrics"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		all     bool
		asJSON  bool
		showSet bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <fen>",
		Short: "Generate the challenges of one position",
		Long: `Evaluates every legal move of the position and prints the
challenges the selector would present. With --all every qualifying
detector is listed instead of a random selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := board.FromFEN(args[0])
			if err != nil {
				return err
			}

			ev, stopEngine, err := startEvaluator(a.cfg.Engine, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = stopEngine() }()

			set, err := a.aggregator(ev, metrics.NoopRecorder{}).Aggregate(cmd.Context(), pos)
			if err != nil {
				return err
			}
			b, err := a.catalogue()
			if err != nil {
				return err
			}

			in := detector.NewInput(pos, set)
			var cs []*challenge.Challenge
			if all {
				cs = detector.Run(in, a.detectors(b))
			} else {
				cs = a.selector(b).Select(in)
			}
			for _, c := range cs {
				b.Apply(c)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if cs == nil {
					cs = []*challenge.Challenge{}
				}
				return enc.Encode(cs)
			}
			if showSet {
				writeEvaluations(out, set.Sorted())
			}
			writeChallenges(out, cs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every qualifying detector")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print challenges as JSON")
	cmd.Flags().BoolVar(&showSet, "evals", false, "print the move evaluations first")
	return cmd
}

func writeChallenges(w io.Writer, cs []*challenge.Challenge) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "no challenges")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tDIFFICULTY\tREWARD\tWINDOW\tMOVES")
	for _, c := range cs {
		moves := make([]string, 0, len(c.CorrectMoves))
		for _, m := range c.CorrectMoves {
			moves = append(moves, m.Move)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			c.Type, c.Difficulty, c.Reward, c.Window, strings.Join(moves, " "))
	}
	_ = tw.Flush()
}

func writeEvaluations(w io.Writer, evals []evaluation.MoveEvaluation) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MOVE\tCP")
	for _, e := range evals {
		fmt.Fprintf(tw, "%s\t%d\n", e.Move, e.Centipawns)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
