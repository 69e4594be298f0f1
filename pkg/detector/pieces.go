package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// Minimum margin over every other legal move.
const (
	knightGap = 25
	bishopGap = 30
	rookGap   = 40
	queenGap  = 30
	pawnGap   = 20
	kingGap   = 25
)

// pieceSpecialty fires when the best move of a piece kind beats
// every other legal move by at least gap. Only pieces in the index
// are considered, so a side without that kind never qualifies.
func pieceSpecialty(
	t challenge.Type,
	kind board.PieceKind,
	gap int,
) func(*Input) *challenge.Challenge {
	return func(in *Input) *challenge.Challenge {
		if len(in.Pieces.Squares(kind)) == 0 {
			return nil
		}
		return in.standout(t, func(m board.Move) bool {
			return in.Pieces.Has(kind, m.From)
		}, gap)
	}
}

func pawnStorm(in *Input) *challenge.Challenge {
	return in.standout(challenge.PawnStorm, func(m board.Move) bool {
		return m.Piece == board.Pawn
	}, pawnGap)
}

// kingSafety offers the best castling move whenever one is legal.
// Otherwise a king move qualifies like any piece specialty.
func kingSafety(in *Input) *challenge.Challenge {
	castles := in.subset(func(m board.Move) bool { return m.Castle })
	if len(castles) > 0 {
		best := castles[0]
		gap := 0
		if rival, ok := in.bestOther(best.Move); ok {
			gap = best.Centipawns - rival.Centipawns
		}
		return challenge.New(
			challenge.KingSafety,
			in.Difficulty(gap),
			[]challenge.MoveOption{best.Option()},
			challenge.WithDescription("Castle to secure your king"),
		)
	}
	return in.standout(challenge.KingSafety, func(m board.Move) bool {
		return m.Piece == board.King
	}, kingGap)
}
