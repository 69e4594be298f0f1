package report

import (
	"fmt"
	"os"
	"time"
)

// HistoricalEntry is one finished game in the history log.
type HistoricalEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	GameID     string    `json:"game_id"`
	Player     string    `json:"player"`
	Win        bool      `json:"win"`
	Duration   string    `json:"duration"`
	Points     int       `json:"points"`
	Completed  int       `json:"completed"`
	Presented  int       `json:"presented"`
	XPEarned   int       `json:"xp_earned"`
	Rank       string    `json:"rank"`
	ReportPath string    `json:"report_path,omitempty"`
}

// AppendToHistory adds an entry for game to the log stored at
// historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	game *GameReport,
	reportPath string,
) error {
	s := game.Settlement
	entry := HistoricalEntry{
		Timestamp:  game.EndedAt,
		GameID:     game.GameID,
		Player:     game.Player,
		Win:        game.Outcome.Win,
		Duration:   game.Duration().String(),
		Points:     s.Summary.Points,
		Completed:  s.Summary.Completed,
		Presented:  s.Summary.Presented,
		XPEarned:   s.XPEarned,
		Rank:       string(s.Rank),
		ReportPath: reportPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
