package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
)

// Centipawn thresholds for the tactical patterns.
const (
	tacticalShotGap     = 300
	defensiveSwing      = 200
	evaluationTolerance = 10
	quietBrilliancyGap  = 30
	spaceInvaderGap     = 25
	mobilityRestrictBy  = 2
)

// tacticalShot fires on a forced mate, or when the best move beats
// the runner-up by at least 300cp.
func tacticalShot(in *Input) *challenge.Challenge {
	best, second, _ := topTwo(in.Evaluations.Sorted())
	if best.IsMate() {
		return challenge.New(
			challenge.TacticalShot,
			challenge.Expert,
			[]challenge.MoveOption{best.Option()},
			challenge.WithDescription("Find the checkmate"),
		)
	}
	gap := best.Centipawns - second.Centipawns
	if gap < tacticalShotGap {
		return nil
	}
	return challenge.New(
		challenge.TacticalShot,
		in.Difficulty(gap),
		[]challenge.MoveOption{best.Option()},
	)
}

// defensiveGenius fires in critical positions, where the spread
// between the best and worst move is at least 200cp.
func defensiveGenius(in *Input) *challenge.Challenge {
	best, second, _ := topTwo(in.Evaluations.Sorted())
	worst, _ := in.Evaluations.Worst()
	if best.Centipawns-worst.Centipawns < defensiveSwing {
		return nil
	}
	return challenge.New(
		challenge.DefensiveGenius,
		in.Difficulty(best.Centipawns-second.Centipawns),
		[]challenge.MoveOption{best.Option()},
	)
}

// evaluationMaster fires when at least two moves are within 10cp
// of the best; all of them are correct. It is always Hard.
func evaluationMaster(in *Input) *challenge.Challenge {
	best, _ := in.Evaluations.Best()
	good := in.Evaluations.Filter(func(e evaluation.MoveEvaluation) bool {
		return abs(best.Centipawns-e.Centipawns) <= evaluationTolerance
	})
	if len(good) < 2 {
		return nil
	}
	options := make([]challenge.MoveOption, 0, len(good))
	for _, e := range good {
		options = append(options, e.Option())
	}
	return challenge.New(
		challenge.EvaluationMaster,
		challenge.Hard,
		options,
		challenge.WithCheck(challenge.RelativeToBest),
	)
}

// quietBrilliancy fires when the best move that neither captures
// nor checks beats the next such move by at least 30cp.
func quietBrilliancy(in *Input) *challenge.Challenge {
	best, second, ok := topTwo(in.subset(board.Move.Quiet))
	if !ok {
		return nil
	}
	gap := best.Centipawns - second.Centipawns
	if gap < quietBrilliancyGap {
		return nil
	}
	return challenge.New(
		challenge.QuietBrilliancy,
		in.Difficulty(gap),
		[]challenge.MoveOption{best.Option()},
	)
}

// spaceInvader fires when the best move beats the runner-up by at
// least 25cp and leaves the opponent more than two moves fewer than
// the side to move has now.
func spaceInvader(in *Input) *challenge.Challenge {
	best, second, _ := topTwo(in.Evaluations.Sorted())
	gap := best.Centipawns - second.Centipawns
	if gap < spaceInvaderGap {
		return nil
	}
	next, err := in.Position.Apply(best.Move)
	if err != nil {
		return nil
	}
	if len(next.LegalMoves()) >= in.legalCount-mobilityRestrictBy {
		return nil
	}
	return challenge.New(
		challenge.SpaceInvader,
		in.Difficulty(gap),
		[]challenge.MoveOption{best.Option()},
	)
}
