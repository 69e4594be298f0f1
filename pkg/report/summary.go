package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MasterSummary aggregates several finished games.
type MasterSummary struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Games       []GameSummary `json:"games"`

	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`

	TotalPresented int `json:"total_presented"`
	TotalCompleted int `json:"total_completed"`
	TotalPoints    int `json:"total_points"`
	TotalXP        int `json:"total_xp"`

	// CompletionRate is completed over presented across all games.
	CompletionRate float64 `json:"completion_rate"`
}

// GameSummary is one line of a master summary.
type GameSummary struct {
	GameID    string        `json:"game_id"`
	Player    string        `json:"player"`
	Win       bool          `json:"win"`
	Points    int           `json:"points"`
	Completed int           `json:"completed"`
	Presented int           `json:"presented"`
	XPEarned  int           `json:"xp_earned"`
	Rank      string        `json:"rank"`
	Duration  time.Duration `json:"duration"`
}

// BuildMasterSummary creates a master summary from game reports.
func BuildMasterSummary(games []*GameReport) *MasterSummary {
	summary := &MasterSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Games:       make([]GameSummary, 0, len(games)),
	}

	for _, g := range games {
		s := g.Settlement
		summary.Games = append(summary.Games, GameSummary{
			GameID:    g.GameID,
			Player:    g.Player,
			Win:       g.Outcome.Win,
			Points:    s.Summary.Points,
			Completed: s.Summary.Completed,
			Presented: s.Summary.Presented,
			XPEarned:  s.XPEarned,
			Rank:      string(s.Rank),
			Duration:  g.Duration(),
		})
		summary.TotalGames++
		if g.Outcome.Win {
			summary.Wins++
		}
		summary.TotalPresented += s.Summary.Presented
		summary.TotalCompleted += s.Summary.Completed
		summary.TotalPoints += s.Summary.Points
		summary.TotalXP += s.XPEarned
	}

	if summary.TotalPresented > 0 {
		summary.CompletionRate =
			float64(summary.TotalCompleted) /
				float64(summary.TotalPresented)
	}
	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory, and points the
// latest_summary links at them.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.md", ts),
	)
	if err := os.WriteFile(
		mdPath, []byte(generateSummaryMarkdown(summary)), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// SaveGameReport writes one game's report with r into outputDir,
// named after the game and player. It returns the written path.
func SaveGameReport(
	r Reporter,
	game *GameReport,
	outputDir, ext string,
) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}
	data, err := r.GenerateReport(game)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	path := filepath.Join(
		outputDir,
		fmt.Sprintf("game_%s_%s.%s", safeName(game.GameID), safeName(game.Player), ext),
	)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# Chess Challenges - Master Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Games\n\n")
	sb.WriteString("| Game | Player | Result | Challenges | Points | XP | Rank |\n")
	sb.WriteString("|------|--------|--------|------------|--------|----|------|\n")
	for _, g := range summary.Games {
		result := "LOSS/DRAW"
		if g.Win {
			result = "WIN"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %d/%d | %d | %d | %s |\n",
			g.GameID, g.Player, result,
			g.Completed, g.Presented, g.Points, g.XPEarned, g.Rank)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Games | %d |\n", summary.TotalGames)
	fmt.Fprintf(&sb, "| Wins | %d |\n", summary.Wins)
	fmt.Fprintf(&sb, "| Challenges Completed | %d/%d |\n",
		summary.TotalCompleted, summary.TotalPresented)
	fmt.Fprintf(&sb, "| Completion Rate | %.0f%% |\n", summary.CompletionRate*100)
	fmt.Fprintf(&sb, "| Points | %d |\n", summary.TotalPoints)
	fmt.Fprintf(&sb, "| XP | %d |\n", summary.TotalXP)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by computer-chess*\n")

	return sb.String()
}
