package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
)

// subset returns the ranked evaluations whose legal move satisfies
// keep.
func (in *Input) subset(keep func(board.Move) bool) []evaluation.MoveEvaluation {
	return in.Evaluations.Filter(func(e evaluation.MoveEvaluation) bool {
		m, ok := in.moves[e.Move]
		return ok && keep(m)
	})
}

// topTwo returns the first entry of a ranked list and its runner-up.
// With a single entry the runner-up is the entry itself.
func topTwo(ranked []evaluation.MoveEvaluation) (best, second evaluation.MoveEvaluation, ok bool) {
	if len(ranked) == 0 {
		return best, second, false
	}
	best = ranked[0]
	second = best
	if len(ranked) > 1 {
		second = ranked[1]
	}
	return best, second, true
}

// bestOther returns the highest ranked evaluation other than move.
func (in *Input) bestOther(move string) (evaluation.MoveEvaluation, bool) {
	for _, e := range in.Evaluations.Sorted() {
		if e.Move != move {
			return e, true
		}
	}
	return evaluation.MoveEvaluation{}, false
}

// bestOfSubset builds a challenge for the best move of a filtered
// subset, rated by its gap over the subset's runner-up. Any
// non-empty subset qualifies.
func (in *Input) bestOfSubset(
	t challenge.Type,
	keep func(board.Move) bool,
) *challenge.Challenge {
	best, second, ok := topTwo(in.subset(keep))
	if !ok {
		return nil
	}
	return challenge.New(
		t,
		in.Difficulty(best.Centipawns-second.Centipawns),
		[]challenge.MoveOption{best.Option()},
	)
}

// standout builds a challenge for the best move of a filtered
// subset when it beats every other legal move by at least
// threshold centipawns.
func (in *Input) standout(
	t challenge.Type,
	keep func(board.Move) bool,
	threshold int,
) *challenge.Challenge {
	ranked := in.subset(keep)
	if len(ranked) == 0 {
		return nil
	}
	candidate := ranked[0]
	rival, ok := in.bestOther(candidate.Move)
	if !ok {
		return nil
	}
	gap := candidate.Centipawns - rival.Centipawns
	if gap < threshold {
		return nil
	}
	return challenge.New(
		t,
		in.Difficulty(gap),
		[]challenge.MoveOption{candidate.Option()},
	)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
