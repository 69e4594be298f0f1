package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chess.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var ended = time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)

func result(gameID, player string, win bool, points, xp, streak, combo int) GameResult {
	return GameResult{
		GameID:         gameID,
		Player:         player,
		Win:            win,
		Points:         points,
		Presented:      10,
		Completed:      6,
		LongestStreak:  streak,
		BestCombo:      combo,
		CompletionRate: 0.6,
		XPEarned:       xp,
		Rank:           "Novice",
		EndedAt:        ended,
	}
}

func rankAt(xp int) string {
	if xp >= 1000 {
		return "Amateur"
	}
	return "Novice"
}

func save(t *testing.T, s *Store, res GameResult) GameResult {
	t.Helper()
	saved, err := s.SaveGameResult(context.Background(), res, rankAt)
	require.NoError(t, err)
	return saved
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTest(t)
	assert.Len(t, s.queries, 4)
	assert.Len(t, s.commands, 4)
}

func TestOpen_Reopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chess.db")
	ctx := context.Background()

	s, err := Open(file)
	require.NoError(t, err)
	save(t, s, result("g1", "alice", true, 40, 40, 2, 1))
	require.NoError(t, s.Close())

	s, err = Open(file)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	xp, err := s.PlayerXP(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 40, xp)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "chess.db"))
	assert.Error(t, err)
}

func TestRecordCompletion_RoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	recs := []challenge.Record{
		{
			ChallengeID: "knight-ninja-1",
			GameID:      "g1",
			Player:      "alice",
			Type:        challenge.KnightNinja,
			Difficulty:  challenge.Easy,
			Reward:      4,
			Window:      challenge.WindowTurn,
			Status:      challenge.StatusSuccess,
			Move:        "g1f3",
			MoveNumber:  3,
			ResolvedAt:  ended,
			Streak:      2,
			Combo:       1,
		},
		{
			ChallengeID: "tactical-shot-1",
			GameID:      "g1",
			Player:      "alice",
			Type:        challenge.TacticalShot,
			Difficulty:  challenge.Hard,
			Reward:      18,
			Window:      challenge.WindowGame,
			Status:      challenge.StatusFail,
			MoveNumber:  30,
			ResolvedAt:  ended.Add(time.Minute),
		},
	}
	for _, r := range recs {
		require.NoError(t, s.RecordCompletion(ctx, r))
	}
	require.NoError(t, s.RecordCompletion(ctx, challenge.Record{
		ChallengeID: "other", GameID: "g1", Player: "bob",
		Type: challenge.PawnStorm, Difficulty: challenge.Medium,
		Window: challenge.WindowTurn, Status: challenge.StatusFail,
		ResolvedAt: ended,
	}))

	got, err := s.Completions(ctx, "g1", "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range recs {
		assert.True(t, recs[i].ResolvedAt.Equal(got[i].ResolvedAt))
		got[i].ResolvedAt = recs[i].ResolvedAt
		assert.Equal(t, recs[i], got[i])
	}
}

func TestCompletions_Empty(t *testing.T) {
	got, err := openTest(t).Completions(context.Background(), "nope", "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlayer_NotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.Player(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	xp, err := s.PlayerXP(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Zero(t, xp)
}

func TestSaveGameResult_AccumulatesTotals(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first := save(t, s, result("g1", "alice", true, 120, 900, 5, 3))
	assert.Equal(t, 900, first.TotalXP)
	assert.Equal(t, "Novice", first.Rank)

	second := result("g2", "alice", false, 80, 200, 2, 4)
	second.EndedAt = ended.Add(time.Hour)
	second = save(t, s, second)
	assert.Equal(t, 1100, second.TotalXP)
	assert.Equal(t, "Amateur", second.Rank)

	p, err := s.Player(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, 1100, p.XP)
	assert.Equal(t, "Amateur", p.Rank)
	assert.Equal(t, 2, p.Games)
	assert.Equal(t, 1, p.Wins)
	assert.Equal(t, 200, p.TotalPoints)
	assert.Equal(t, 12, p.ChallengesCompleted)
	assert.Equal(t, 5, p.LongestStreak)
	assert.Equal(t, 4, p.BestCombo)

	games, err := s.Games(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "g2", games[0].GameID)
	assert.False(t, games[0].Win)
	assert.Equal(t, "g1", games[1].GameID)
	assert.True(t, games[1].Win)
	assert.InDelta(t, 0.6, games[1].CompletionRate, 1e-9)
	assert.Equal(t, 1100, games[0].TotalXP)
	assert.Equal(t, "Amateur", games[0].Rank)
}

func TestSaveGameResult_IgnoresStaleTotal(t *testing.T) {
	s := openTest(t)
	save(t, s, result("g1", "alice", true, 10, 300, 1, 1))

	// Settled against a stale read of 0 XP.
	stale := result("g2", "alice", true, 10, 200, 1, 1)
	stale.TotalXP = 200
	saved := save(t, s, stale)
	assert.Equal(t, 500, saved.TotalXP)

	xp, err := s.PlayerXP(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 500, xp)
}

func TestSaveGameResult_ConcurrentGamesAddXP(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	const games = 8
	totals := make([]int, games)
	var g errgroup.Group
	for i := range games {
		g.Go(func() error {
			saved, err := s.SaveGameResult(ctx, result(fmt.Sprintf("g%d", i), "alice", true, 10, 150, 1, 1), rankAt)
			totals[i] = saved.TotalXP
			return err
		})
	}
	require.NoError(t, g.Wait())

	p, err := s.Player(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, games, p.Games)
	assert.Equal(t, games*150, p.XP)
	assert.Equal(t, "Amateur", p.Rank)

	// Each game saw the total left by the one before it.
	sort.Ints(totals)
	for i, total := range totals {
		assert.Equal(t, (i+1)*150, total)
	}
}

func TestSaveGameResult_NilRankKeepsRank(t *testing.T) {
	s := openTest(t)
	res := result("g1", "alice", true, 10, 2000, 1, 1)
	saved, err := s.SaveGameResult(context.Background(), res, nil)
	require.NoError(t, err)
	assert.Equal(t, "Novice", saved.Rank)
	assert.Equal(t, 2000, saved.TotalXP)
}

func TestSaveGameResult_DuplicateRollsBack(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	save(t, s, result("g1", "alice", true, 100, 100, 1, 1))
	_, err := s.SaveGameResult(ctx, result("g1", "alice", true, 100, 200, 1, 1), rankAt)
	assert.Error(t, err)

	p, err := s.Player(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Games)
	assert.Equal(t, 100, p.XP)
}

func TestLeaderboard(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	save(t, s, result("g1", "alice", true, 10, 500, 1, 1))
	save(t, s, result("g1", "bob", false, 10, 1500, 1, 1))
	save(t, s, result("g2", "carol", true, 10, 900, 1, 1))

	board, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Name)
	assert.Equal(t, "carol", board[1].Name)
}
