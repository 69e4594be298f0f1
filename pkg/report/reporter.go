// Package report renders finished games as JSON, Markdown or HTML
// reports and keeps a JSON-lines history of them.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/economy"
)

// Swappable for tests.
var (
	jsonMarshal       = json.Marshal
	jsonMarshalIndent = json.MarshalIndent
)

// TurnEntry is one move the player made.
type TurnEntry struct {
	MoveNumber int    `json:"move_number"`
	Move       string `json:"move"`

	// Presented lists the challenge types live when the move was
	// played.
	Presented []challenge.Type `json:"presented"`

	Completed int `json:"completed"`
	Points    int `json:"points"`
	Streak    int `json:"streak"`
}

// GameReport is everything known about one player's finished game.
type GameReport struct {
	GameID    string    `json:"game_id"`
	Player    string    `json:"player"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Outcome    economy.Outcome    `json:"outcome"`
	Settlement economy.Settlement `json:"settlement"`

	Turns   []TurnEntry        `json:"turns"`
	Records []challenge.Record `json:"records"`
}

// Duration is the wall time of the game.
func (g *GameReport) Duration() time.Duration {
	return g.EndedAt.Sub(g.StartedAt)
}

// ByType counts completed and presented challenges per type, in
// catalogue order; types never presented are left out.
func (g *GameReport) ByType() []TypeStats {
	counts := make(map[challenge.Type]*TypeStats)
	for _, r := range g.Records {
		s, ok := counts[r.Type]
		if !ok {
			s = &TypeStats{Type: r.Type}
			counts[r.Type] = s
		}
		s.Presented++
		if r.Completed() {
			s.Completed++
			s.Points += r.Reward
		}
	}
	var out []TypeStats
	for _, t := range append(append([]challenge.Type(nil), challenge.Catalogue...), challenge.LegacyCatalogue...) {
		if s, ok := counts[t]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// TypeStats aggregates the records of one challenge type.
type TypeStats struct {
	Type      challenge.Type `json:"type"`
	Presented int            `json:"presented"`
	Completed int            `json:"completed"`
	Points    int            `json:"points"`
}

// Reporter defines the interface for generating game reports.
type Reporter interface {
	// GenerateReport creates a report for a single game.
	GenerateReport(game *GameReport) ([]byte, error)

	// GenerateMasterSummary creates a summary of several games.
	GenerateMasterSummary(games []*GameReport) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, game *GameReport) error
}
