package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
)

// edgeBand is the centipawn band around the worst move whose moves
// all count as "worst".
const edgeBand = 400

func bestMove(in *Input) *challenge.Challenge {
	best, second, _ := topTwo(in.Evaluations.Sorted())
	return challenge.New(
		challenge.BestMove,
		in.Difficulty(best.Centipawns-second.Centipawns),
		[]challenge.MoveOption{best.Option()},
	)
}

// worstMove accepts every move on the same side of zero as the
// worst move and within 400cp of it.
func worstMove(in *Input) *challenge.Challenge {
	sorted := in.Evaluations.Sorted()
	worst := sorted[len(sorted)-1]
	secondWorst := worst
	if len(sorted) > 1 {
		secondWorst = sorted[len(sorted)-2]
	}

	band := in.Evaluations.Filter(func(e evaluation.MoveEvaluation) bool {
		return e.Centipawns*worst.Centipawns >= 0 &&
			abs(e.Centipawns-worst.Centipawns) <= edgeBand
	})
	options := make([]challenge.MoveOption, 0, len(band))
	for _, e := range band {
		options = append(options, e.Option())
	}
	return challenge.New(
		challenge.WorstMove,
		in.Difficulty(worst.Centipawns-secondWorst.Centipawns),
		options,
		challenge.WithCheck(challenge.RelativeToBest),
	)
}

func bestKnightMove(in *Input) *challenge.Challenge {
	return in.bestOfSubset(challenge.BestKnightMove, func(m board.Move) bool {
		return in.Pieces.Has(board.Knight, m.From)
	})
}
