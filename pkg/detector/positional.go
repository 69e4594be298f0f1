package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
)

var centerSquares = map[board.Square]bool{
	board.NewSquare(3, 3): true, // d4
	board.NewSquare(4, 3): true, // e4
	board.NewSquare(3, 4): true, // d5
	board.NewSquare(4, 4): true, // e5
}

func bestCapture(in *Input) *challenge.Challenge {
	return in.bestOfSubset(challenge.BestCapture, func(m board.Move) bool {
		return m.Capture
	})
}

// outpostMaster looks for knight or bishop moves onto the 5th or
// 6th rank, counted from the mover's side.
func outpostMaster(in *Input) *challenge.Challenge {
	white := in.Position.Turn() == board.White
	return in.bestOfSubset(challenge.OutpostMaster, func(m board.Move) bool {
		if m.Piece != board.Knight && m.Piece != board.Bishop {
			return false
		}
		rank := m.To.Rank()
		if !white {
			rank = 7 - rank
		}
		return rank == 4 || rank == 5
	})
}

func centerControl(in *Input) *challenge.Challenge {
	return in.bestOfSubset(challenge.CenterControl, func(m board.Move) bool {
		return centerSquares[m.To]
	})
}

// weakSquareExploiter looks for moves to squares no enemy pawn can
// capture on.
func weakSquareExploiter(in *Input) *challenge.Challenge {
	return in.bestOfSubset(challenge.WeakSquareExploiter, func(m board.Move) bool {
		return !pawnGuarded(in.Position, m.To, in.Position.Turn().Other())
	})
}

// pawnGuarded reports whether a pawn of color by attacks sq.
func pawnGuarded(pos board.Position, sq board.Square, by board.Color) bool {
	// A white pawn attacks diagonally upward, so it guards sq from
	// one rank below; a black pawn from one rank above.
	from := sq.Rank() - 1
	if by == board.Black {
		from = sq.Rank() + 1
	}
	for _, df := range []int{-1, 1} {
		at := board.NewSquare(sq.File()+df, from)
		if at == board.NoSquare {
			continue
		}
		if p, ok := pos.PieceAt(at); ok && p.Kind == board.Pawn && p.Color == by {
			return true
		}
	}
	return false
}
