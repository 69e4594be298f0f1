package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		gap        int
		legalMoves int
		moveNumber int
		want       Difficulty
	}{
		{"large gap", 151, 20, 20, Easy},
		{"boundary 150 is medium", 150, 20, 20, Medium},
		{"medium", 51, 20, 20, Medium},
		{"boundary 50 is hard", 50, 20, 20, Hard},
		{"hard", 21, 20, 20, Hard},
		{"boundary 20 is expert", 20, 20, 20, Expert},
		{"zero gap", 0, 20, 20, Expert},
		{"negative gap uses magnitude", -200, 20, 20, Easy},
		{"busy position demotes easy", 300, 36, 20, Medium},
		{"busy threshold is exclusive", 300, 35, 20, Easy},
		{"busy leaves medium", 100, 40, 20, Medium},
		{"narrow position sharpens hard", 30, 9, 20, Expert},
		{"narrow threshold is exclusive", 30, 10, 20, Hard},
		{"narrow leaves medium", 100, 3, 20, Medium},
		{"opening caps expert", 5, 20, 9, Hard},
		{"opening threshold is exclusive", 5, 20, 10, Expert},
		{"narrow then opening", 30, 5, 3, Hard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDifficulty(tt.gap, tt.legalMoves, tt.moveNumber))
		})
	}
}

func TestCalculateDifficulty_MonotonicInGap(t *testing.T) {
	for _, legal := range []int{1, 5, 9, 10, 20, 35, 36, 60} {
		for _, moveNo := range []int{1, 9, 10, 40} {
			prev := CalculateDifficulty(0, legal, moveNo)
			for gap := 1; gap <= 400; gap++ {
				d := CalculateDifficulty(gap, legal, moveNo)
				assert.LessOrEqual(t, d.Level(), prev.Level(),
					"gap %d legal %d move %d", gap, legal, moveNo)
				prev = d
			}
		}
	}
}

func TestDifficulty_Multiplier(t *testing.T) {
	assert.Equal(t, 0.5, Easy.Multiplier())
	assert.Equal(t, 1.0, Medium.Multiplier())
	assert.Equal(t, 1.8, Hard.Multiplier())
	assert.Equal(t, 3.5, Expert.Multiplier())
	assert.Equal(t, 1.0, Difficulty("?").Multiplier())
	assert.Equal(t, -1, Difficulty("?").Level())
}

func TestReward(t *testing.T) {
	tests := []struct {
		ty   Type
		d    Difficulty
		want int
	}{
		{EvaluationMaster, Hard, 16},
		{TacticalShot, Expert, 35},
		{KnightNinja, Easy, 4},
		{CenterControl, Easy, 4},
		{BestMove, Easy, 5},
		{QuietBrilliancy, Expert, 49},
		{DefensiveGenius, Hard, 22},
		{PawnStorm, Medium, 6},
	}
	for _, tt := range tests {
		t.Run(string(tt.ty)+"/"+string(tt.d), func(t *testing.T) {
			assert.Equal(t, tt.want, Reward(tt.ty, tt.d))
		})
	}
}
