package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownReporter generates Markdown reports.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single game.
func (r *MarkdownReporter) GenerateReport(
	game *GameReport,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, game); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	game *GameReport,
) error {
	var sb strings.Builder
	s := game.Settlement

	fmt.Fprintf(&sb, "# Game Report: %s\n\n", game.GameID)
	fmt.Fprintf(&sb, "**Player:** %s\n\n", game.Player)
	fmt.Fprintf(&sb, "**Ended:** %s\n\n", game.EndedAt.Format(time.RFC3339))

	sb.WriteString("## Result\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Outcome | %s |\n", outcomeLabel(game))
	fmt.Fprintf(&sb, "| Points | %d |\n", s.Summary.Points)
	fmt.Fprintf(&sb, "| Challenges | %d/%d |\n", s.Summary.Completed, s.Summary.Presented)
	fmt.Fprintf(&sb, "| Completion Rate | %.0f%% |\n", s.Summary.CompletionRate*100)
	fmt.Fprintf(&sb, "| Longest Streak | %d |\n", s.Summary.LongestStreak)
	fmt.Fprintf(&sb, "| Best Combo | %d |\n", s.Summary.BestCombo)
	fmt.Fprintf(&sb, "| XP Earned | %d |\n", s.XPEarned)
	fmt.Fprintf(&sb, "| Rank | %s |\n", rankLabel(game))

	if stats := game.ByType(); len(stats) > 0 {
		sb.WriteString("\n## Challenges\n\n")
		sb.WriteString("| Type | Completed | Points |\n")
		sb.WriteString("|------|-----------|--------|\n")
		for _, t := range stats {
			fmt.Fprintf(&sb, "| %s | %d/%d | %d |\n", t.Type, t.Completed, t.Presented, t.Points)
		}
	}

	if len(game.Turns) > 0 {
		sb.WriteString("\n## Moves\n\n")
		sb.WriteString("| # | Move | Completed | Points | Streak |\n")
		sb.WriteString("|---|------|-----------|--------|--------|\n")
		for _, t := range game.Turns {
			fmt.Fprintf(&sb, "| %d | %s | %d | %d | %d |\n",
				t.MoveNumber, t.Move, t.Completed, t.Points, t.Streak)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// GenerateMasterSummary creates a Markdown summary of several
// games.
func (r *MarkdownReporter) GenerateMasterSummary(
	games []*GameReport,
) ([]byte, error) {
	return []byte(generateSummaryMarkdown(BuildMasterSummary(games))), nil
}

func outcomeLabel(game *GameReport) string {
	switch {
	case game.Outcome.Win && game.Outcome.Checkmate:
		return "Win by checkmate"
	case game.Outcome.Win:
		return "Win"
	}
	return "Loss or draw"
}

func rankLabel(game *GameReport) string {
	if game.Settlement.RankUp {
		return string(game.Settlement.Rank) + " (promoted)"
	}
	return string(game.Settlement.Rank)
}
