package economy

import (
	"fmt"
	"math"
	"strings"
)

// End-game bonus values.
const (
	winBonus        = 50
	checkmateBonus  = 25
	perfectBonus    = 200
	flawlessBonus   = 150
	completion90    = 100
	completion80    = 50
	speedBonus      = 30
	speedMoves      = 25
	dominationBonus = 75
	dominationLead  = 150
)

// AIDifficulty is the strength setting of a computer opponent.
type AIDifficulty string

const (
	Beginner     AIDifficulty = "beginner"
	Intermediate AIDifficulty = "intermediate"
	Advanced     AIDifficulty = "advanced"
	MasterAI     AIDifficulty = "master"
)

// ParseAIDifficulty reads a case-insensitive difficulty name. An
// empty name means a human opponent.
func ParseAIDifficulty(s string) (AIDifficulty, error) {
	d := AIDifficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case "", Beginner, Intermediate, Advanced, MasterAI:
		return d, nil
	}
	return "", fmt.Errorf("unknown AI difficulty %q", s)
}

// Multiplier scales the XP earned against the opponent. Human
// opponents score 1.
func (d AIDifficulty) Multiplier() float64 {
	switch d {
	case Beginner:
		return 0.5
	case Intermediate:
		return 0.75
	case MasterAI:
		return 1.25
	}
	return 1.0
}

// Outcome is how the game ended for the player.
type Outcome struct {
	Win       bool `json:"win"`
	Checkmate bool `json:"checkmate"`

	// Moves is the number of moves played in the game.
	Moves int `json:"moves"`

	// PointLead is the player's points minus the opponent's.
	PointLead int `json:"point_lead"`

	PlayerRank   Rank `json:"player_rank"`
	OpponentRank Rank `json:"opponent_rank"`

	// AI is set when the opponent was the computer.
	AI AIDifficulty `json:"ai,omitempty"`
}

// Bonuses is the end-game XP breakdown.
type Bonuses struct {
	Win        int     `json:"win"`
	Checkmate  int     `json:"checkmate"`
	Completion int     `json:"completion"`
	Perfect    int     `json:"perfect"`
	Speed      int     `json:"speed"`
	Domination int     `json:"domination"`
	Multiplier float64 `json:"opponent_multiplier"`
}

// Flat returns the sum of the flat bonuses.
func (b Bonuses) Flat() int {
	return b.Win + b.Checkmate + b.Completion + b.Perfect + b.Speed + b.Domination
}

// EndGame computes the bonuses for an outcome and the game's
// completion rate.
func (l Ladder) EndGame(o Outcome, completionRate float64) Bonuses {
	b := Bonuses{Multiplier: 1.0}
	if o.Win {
		b.Win = winBonus
	}
	if o.Checkmate {
		b.Checkmate = checkmateBonus
	}

	switch {
	case completionRate >= 1.0:
		b.Perfect = perfectBonus
		if o.Win {
			b.Perfect += flawlessBonus
		}
	case completionRate >= 0.9:
		b.Completion = completion90
	case completionRate >= 0.8:
		b.Completion = completion80
	}

	if o.Win && o.Moves < speedMoves {
		b.Speed = speedBonus
	}
	if o.Win && o.PointLead >= dominationLead {
		b.Domination = dominationBonus
	}

	player, opponent := l.Index(o.PlayerRank), l.Index(o.OpponentRank)
	if player >= 0 && opponent >= 0 {
		switch diff := opponent - player; {
		case diff >= 3:
			b.Multiplier = 1.50
		case diff >= 2:
			b.Multiplier = 1.30
		case diff >= 1:
			b.Multiplier = 1.15
		}
	}
	return b
}

// XP returns round((points + flat bonuses) * multiplier).
func XP(points int, b Bonuses) int {
	return int(math.Round(float64(points+b.Flat()) * b.Multiplier))
}

// Settlement is the result of closing a game for one player.
type Settlement struct {
	Summary  Summary `json:"summary"`
	Bonuses  Bonuses `json:"bonuses"`
	XPEarned int     `json:"xp_earned"`
	TotalXP  int     `json:"total_xp"`
	Rank     Rank    `json:"rank"`
	RankUp   bool    `json:"rank_up"`
}

// Settle converts the game state into XP on top of priorXP and
// looks up the resulting rank. The AI multiplier applies after the
// opponent multiplier and is rounded again.
func (l Ladder) Settle(s *State, o Outcome, priorXP int) Settlement {
	summary := s.Summary()
	b := l.EndGame(o, summary.CompletionRate)
	xp := XP(summary.Points, b)
	if o.AI != "" {
		xp = int(math.Round(float64(xp) * o.AI.Multiplier()))
	}
	total := priorXP + xp
	rank := l.RankFor(total)
	return Settlement{
		Summary:  summary,
		Bonuses:  b,
		XPEarned: xp,
		TotalXP:  total,
		Rank:     rank,
		RankUp:   l.indexFor(total) > l.indexFor(priorXP),
	}
}
