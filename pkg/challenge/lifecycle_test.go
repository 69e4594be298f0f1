package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turnChallenge(ty Type, moves ...string) *Challenge {
	opts := make([]MoveOption, 0, len(moves))
	for _, m := range moves {
		opts = append(opts, MoveOption{Move: m})
	}
	return New(ty, Medium, opts)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		window   TimeWindow
		status   Status
		move     string
		gameOver bool
		want     Status
	}{
		{"turn hit", WindowTurn, StatusPossible, "e2e4", false, StatusSuccess},
		{"turn miss", WindowTurn, StatusPossible, "d2d4", false, StatusFail},
		{"game hit", WindowGame, StatusPossible, "e2e4", false, StatusSuccess},
		{"game miss stays", WindowGame, StatusPossible, "d2d4", false, StatusPossible},
		{"game miss at end", WindowGame, StatusPossible, "d2d4", true, StatusFail},
		{"game hit at end", WindowGame, StatusPossible, "e2e4", true, StatusSuccess},
		{"success is terminal", WindowTurn, StatusSuccess, "d2d4", true, StatusSuccess},
		{"fail is terminal", WindowGame, StatusFail, "e2e4", false, StatusFail},
		// The ten-move window has no rule of its own and behaves
		// like the game window.
		{"ten moves miss stays", WindowTenMoves, StatusPossible, "d2d4", false, StatusPossible},
		{"ten moves miss at end", WindowTenMoves, StatusPossible, "d2d4", true, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := turnChallenge(CenterControl, "e2e4")
			c.Window = tt.window
			c.Status = tt.status
			assert.Equal(t, tt.want, Transition(c, tt.move, tt.gameOver))
		})
	}
}

func TestTracker_Apply(t *testing.T) {
	hit := turnChallenge(CenterControl, "e2e4")
	miss := turnChallenge(KnightNinja, "g1f3")
	game := turnChallenge(KingSafety, "e1g1")
	game.Window = WindowGame

	var resolved []*Challenge
	tracker := NewTracker(func(c *Challenge) { resolved = append(resolved, c) })

	batch := &Batch{Challenges: []*Challenge{hit, miss, game}}
	res := tracker.Apply(batch, "e2e4", false)

	assert.Equal(t, []*Challenge{hit}, res.Completed)
	assert.Equal(t, []*Challenge{miss}, res.Failed)
	assert.Equal(t, StatusSuccess, hit.Status)
	assert.Equal(t, StatusFail, miss.Status)
	assert.Equal(t, StatusPossible, game.Status)
	assert.ElementsMatch(t, []*Challenge{hit, miss}, resolved)

	// Terminal challenges never fire twice.
	resolved = nil
	res = tracker.Apply(batch, "e1g1", false)
	assert.Equal(t, []*Challenge{game}, res.Completed)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []*Challenge{game}, resolved)
}

func TestTracker_NoTurnChallengeSurvivesAMiss(t *testing.T) {
	batch := &Batch{Challenges: []*Challenge{
		turnChallenge(TacticalShot, "d1h5"),
		turnChallenge(BestCapture, "e4d5"),
		turnChallenge(EvaluationMaster, "e2e4", "d2d4"),
		turnChallenge(PawnStorm, "g2g4"),
	}}
	res := NewTracker().Apply(batch, "a2a3", false)

	assert.Empty(t, res.Completed)
	assert.Len(t, res.Failed, 4)
	assert.Empty(t, batch.Pending())
}

func TestTracker_GameOverFailsPersistent(t *testing.T) {
	game := turnChallenge(QuietBrilliancy, "c3d5")
	game.Window = WindowGame
	batch := &Batch{Challenges: []*Challenge{game}}

	res := NewTracker().Apply(batch, "h2h3", true)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, StatusFail, game.Status)
}

func TestTracker_OnResolveAndExpire(t *testing.T) {
	game := turnChallenge(SpaceInvader, "f5f6")
	game.Window = WindowGame
	done := turnChallenge(RookLift, "a1a3")
	done.Status = StatusSuccess

	tracker := NewTracker()
	var calls int
	tracker.OnResolve(func(*Challenge) { calls++ })

	res := tracker.Expire(&Batch{Challenges: []*Challenge{game, done}})
	assert.Equal(t, []*Challenge{game}, res.Failed)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StatusSuccess, done.Status)
}

func TestTracker_NilBatch(t *testing.T) {
	tracker := NewTracker()
	assert.Empty(t, tracker.Apply(nil, "e2e4", false).Completed)
	assert.Empty(t, tracker.Expire(nil).Failed)
}

func TestNewBatch_CarriesPersistentOnly(t *testing.T) {
	turn := turnChallenge(TacticalShot, "d1h5")
	game := turnChallenge(KingSafety, "e1g1")
	game.Window = WindowGame
	ten := turnChallenge(PawnStorm, "h2h4")
	ten.Window = WindowTenMoves
	wonGame := turnChallenge(BishopBrilliance, "f1b5")
	wonGame.Window = WindowGame
	wonGame.Status = StatusSuccess

	prev := &Batch{Challenges: []*Challenge{turn, game, ten, wonGame}}
	fresh := []*Challenge{turnChallenge(CenterControl, "e2e4")}

	next := NewBatch(fresh, prev)
	assert.Equal(t, []*Challenge{game, ten, fresh[0]}, next.Challenges)
	assert.Equal(t, 3, next.Len())

	first := NewBatch(fresh, nil)
	assert.Equal(t, fresh, first.Challenges)
}

func TestBatch_FindAndSnapshot(t *testing.T) {
	c := turnChallenge(CenterControl, "e2e4")
	b := &Batch{Challenges: []*Challenge{c}}

	found, ok := b.Find(c.ID)
	require.True(t, ok)
	assert.Same(t, c, found)
	_, ok = b.Find("missing")
	assert.False(t, ok)

	snap := b.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Status = StatusFail
	assert.Equal(t, StatusPossible, c.Status)

	var nilBatch *Batch
	assert.Equal(t, 0, nilBatch.Len())
	assert.Empty(t, nilBatch.Snapshot())
	assert.NotNil(t, nilBatch.Snapshot())
}
