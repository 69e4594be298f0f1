// Package economy turns resolved challenges into points. It tracks
// the per-game streak and combo state, awards badges, and converts
// game points into XP on the rank ladder when the game ends.
package economy

import (
	"math"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// StreakMultiplier returns the fraction of base points added as a
// streak bonus for a streak of n.
func StreakMultiplier(n int) float64 {
	switch {
	case n >= 15:
		return 0.75
	case n >= 10:
		return 0.50
	case n >= 5:
		return 0.25
	case n >= 3:
		return 0.10
	}
	return 0
}

// ComboBonus returns the flat bonus for completing size challenges
// in a single turn.
func ComboBonus(size int) int {
	switch {
	case size >= 5:
		return 200
	case size >= 4:
		return 100
	case size >= 3:
		return 50
	case size >= 2:
		return 20
	}
	return 0
}

// Turn is the scoring breakdown of one played move.
type Turn struct {
	// Completed is the number of challenges completed this turn,
	// which is also the combo size.
	Completed int `json:"completed"`

	Base        int     `json:"base_points"`
	StreakBonus float64 `json:"streak_bonus"`
	ComboBonus  int     `json:"combo_bonus"`

	// Points is round(Base + StreakBonus + ComboBonus).
	Points int `json:"points"`

	// Streak is the streak after the turn.
	Streak int `json:"streak"`

	StreakBadge Badge `json:"streak_badge,omitempty"`
	ComboBadge  Badge `json:"combo_badge,omitempty"`
}

// State is a player's economy for one game. The zero value is a
// fresh game.
type State struct {
	Streak int `json:"streak"`
	Points int `json:"points"`

	// Presented and Completed count challenges over the game.
	Presented int `json:"presented"`
	Completed int `json:"completed"`

	LongestStreak int `json:"longest_streak"`
	BestCombo     int `json:"best_combo"`
}

// Present counts n newly presented challenges.
func (s *State) Present(n int) {
	if n > 0 {
		s.Presented += n
	}
}

// ApplyTurn scores the challenges completed by one move. With none
// completed the streak resets and points are unchanged.
func (s *State) ApplyTurn(completed []*challenge.Challenge) Turn {
	if len(completed) == 0 {
		s.Streak = 0
		return Turn{}
	}

	t := Turn{Completed: len(completed)}
	for _, c := range completed {
		t.Base += c.Reward
	}
	t.Streak = s.Streak + t.Completed
	t.StreakBonus = float64(t.Base) * StreakMultiplier(t.Streak)
	t.ComboBonus = ComboBonus(t.Completed)
	t.Points = int(math.Round(float64(t.Base) + t.StreakBonus + float64(t.ComboBonus)))
	t.StreakBadge = StreakBadge(t.Streak)
	t.ComboBadge = ComboBadge(t.Completed)

	s.Streak = t.Streak
	s.Points += t.Points
	s.Completed += t.Completed
	s.LongestStreak = max(s.LongestStreak, t.Streak)
	s.BestCombo = max(s.BestCombo, t.Completed)
	return t
}

// CompletionRate returns Completed/Presented, or 0 when nothing was
// presented.
func (s *State) CompletionRate() float64 {
	if s.Presented == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Presented)
}

// Summary is the per-player game summary handed to persistence.
type Summary struct {
	Points         int     `json:"points"`
	Presented      int     `json:"challenges_presented"`
	Completed      int     `json:"challenges_completed"`
	LongestStreak  int     `json:"longest_streak"`
	BestCombo      int     `json:"best_combo"`
	CompletionRate float64 `json:"completion_rate"`
}

// Summary snapshots the game totals.
func (s *State) Summary() Summary {
	return Summary{
		Points:         s.Points,
		Presented:      s.Presented,
		Completed:      s.Completed,
		LongestStreak:  s.LongestStreak,
		BestCombo:      s.BestCombo,
		CompletionRate: s.CompletionRate(),
	}
}
