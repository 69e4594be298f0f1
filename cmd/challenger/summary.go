package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "summary [report-dir]",
		Short: "Aggregate saved game reports into a master summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Server.ReportDir
			if len(args) == 1 {
				dir = args[0]
			}
			games, err := loadGameReports(dir)
			if err != nil {
				return err
			}

			summary := report.BuildMasterSummary(games)
			if err := report.SaveMasterSummary(summary, dir); err != nil {
				return err
			}
			if html {
				data, err := report.NewHTMLReporter().GenerateMasterSummary(games)
				if err != nil {
					return fmt.Errorf("failed to render summary: %w", err)
				}
				if err := os.WriteFile(filepath.Join(dir, "latest_summary.html"), data, 0644); err != nil {
					return fmt.Errorf("failed to write summary: %w", err)
				}
			}
			a.logger.Info("summary written",
				logging.StringField("dir", dir),
				logging.IntField("games", summary.TotalGames),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "games: %d (%d won)\n", summary.TotalGames, summary.Wins)
			fmt.Fprintf(out, "challenges: %d/%d completed (%.1f%%)\n",
				summary.TotalCompleted, summary.TotalPresented, summary.CompletionRate*100)
			fmt.Fprintf(out, "points: %d\n", summary.TotalPoints)
			fmt.Fprintf(out, "xp: %d\n", summary.TotalXP)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "also write latest_summary.html")
	return cmd
}

// loadGameReports reads every game_*.json report in dir, oldest
// first.
func loadGameReports(dir string) ([]*report.GameReport, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "game_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	games := make([]*report.GameReport, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read report %s: %w", path, err)
		}
		var game report.GameReport
		if err := json.Unmarshal(data, &game); err != nil {
			return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
		}
		games = append(games, &game)
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].EndedAt.Before(games[j].EndedAt)
	})
	return games, nil
}
