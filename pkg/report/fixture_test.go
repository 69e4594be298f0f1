package report

import (
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/economy"
)

var fixtureStart = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func sampleGame(id string, win bool) *GameReport {
	rec := func(ty challenge.Type, status challenge.Status, reward, move int, uci string) challenge.Record {
		return challenge.Record{
			ChallengeID: challenge.ID(id + "-" + ty.Slug()),
			GameID:      id,
			Player:      "alice",
			Type:        ty,
			Difficulty:  challenge.Medium,
			Reward:      reward,
			Window:      challenge.WindowTurn,
			Status:      status,
			Move:        uci,
			MoveNumber:  move,
			ResolvedAt:  fixtureStart.Add(time.Duration(move) * time.Minute),
		}
	}
	return &GameReport{
		GameID:    id,
		Player:    "alice",
		StartedAt: fixtureStart,
		EndedAt:   fixtureStart.Add(20 * time.Minute),
		Outcome:   economy.Outcome{Win: win, Checkmate: win, Moves: 20},
		Settlement: economy.Settlement{
			Summary: economy.Summary{
				Points:         30,
				Presented:      4,
				Completed:      2,
				LongestStreak:  2,
				BestCombo:      1,
				CompletionRate: 0.5,
			},
			Bonuses:  economy.Bonuses{Win: 50, Checkmate: 25, Speed: 30, Multiplier: 1},
			XPEarned: 135,
			TotalXP:  1135,
			Rank:     economy.Amateur,
			RankUp:   true,
		},
		Turns: []TurnEntry{
			{MoveNumber: 1, Move: "e2e4", Presented: []challenge.Type{challenge.CenterControl}, Completed: 1, Points: 12, Streak: 1},
			{MoveNumber: 2, Move: "g1f3", Presented: []challenge.Type{challenge.KnightNinja}, Completed: 1, Points: 18, Streak: 2},
		},
		Records: []challenge.Record{
			rec(challenge.CenterControl, challenge.StatusSuccess, 12, 1, "e2e4"),
			rec(challenge.KnightNinja, challenge.StatusSuccess, 9, 2, "g1f3"),
			rec(challenge.TacticalShot, challenge.StatusFail, 5, 3, "<b>x</b>"),
			rec(challenge.CenterControl, challenge.StatusFail, 12, 4, ""),
		},
	}
}
