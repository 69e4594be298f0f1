package challenge

import "math"

// Difficulty is the tier a challenge is rated at.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
	Expert Difficulty = "Expert"
)

// Centipawn gap boundaries, exclusive.
const (
	easyGap   = 150
	mediumGap = 50
	hardGap   = 20
)

// Position complexity and phase adjustments.
const (
	busyPosition   = 35
	narrowPosition = 10
	openingMoves   = 10
)

// Multiplier returns the reward multiplier for the tier.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 0.5
	case Medium:
		return 1.0
	case Hard:
		return 1.8
	case Expert:
		return 3.5
	}
	return 1.0
}

// Level orders tiers from Easy (0) to Expert (3).
func (d Difficulty) Level() int {
	switch d {
	case Easy:
		return 0
	case Medium:
		return 1
	case Hard:
		return 2
	case Expert:
		return 3
	}
	return -1
}

// CalculateDifficulty rates a challenge from the centipawn gap
// between the qualifying move and its nearest competitor. Busy
// positions (more than 35 legal moves) never rate Easy, narrow ones
// (fewer than 10) turn Hard into Expert, and Expert is capped at
// Hard before move 10.
func CalculateDifficulty(gap, legalMoves, moveNumber int) Difficulty {
	if gap < 0 {
		gap = -gap
	}

	var d Difficulty
	switch {
	case gap > easyGap:
		d = Easy
	case gap > mediumGap:
		d = Medium
	case gap > hardGap:
		d = Hard
	default:
		d = Expert
	}

	if legalMoves > busyPosition && d == Easy {
		d = Medium
	}
	if legalMoves < narrowPosition && d == Hard {
		d = Expert
	}
	if moveNumber < openingMoves && d == Expert {
		d = Hard
	}
	return d
}

// Reward returns round(base(t) * multiplier(d)).
func Reward(t Type, d Difficulty) int {
	return int(math.Round(float64(BaseReward(t)) * d.Multiplier()))
}
