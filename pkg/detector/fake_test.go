package detector

import (
	"fmt"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
)

// fakePosition is a hand-built position: the tests decide which
// moves are legal and what they look like.
type fakePosition struct {
	turn   board.Color
	number int
	pieces map[board.Square]board.Piece
	moves  []board.Move
	// replies is the opponent's legal-move count after a move.
	replies map[string]int
}

func newFake(turn board.Color, number int) *fakePosition {
	return &fakePosition{
		turn:    turn,
		number:  number,
		pieces:  map[board.Square]board.Piece{},
		replies: map[string]int{},
	}
}

// put places a piece on a square.
func (f *fakePosition) put(name string, kind board.PieceKind, color board.Color) *fakePosition {
	f.pieces[sq(name)] = board.Piece{Kind: kind, Color: color}
	return f
}

// add registers a legal move for the side to move, placing the
// moving piece on its origin square.
func (f *fakePosition) add(m board.Move) *fakePosition {
	f.moves = append(f.moves, m)
	if _, ok := f.pieces[m.From]; !ok {
		f.pieces[m.From] = board.Piece{Kind: m.Piece, Color: f.turn}
	}
	return f
}

// fillerScore is the evaluation given to filler moves.
const fillerScore = -50

// filler pads the position with n placeholder moves so it reaches a
// realistic legal-move count. Fillers score fillerScore, give check
// so they are never quiet, and belong to no piece kind.
func (f *fakePosition) filler(n int) *fakePosition {
	for i := 0; i < n; i++ {
		f.moves = append(f.moves, board.Move{
			UCI:   fmt.Sprintf("z%d", i),
			From:  board.NoSquare,
			To:    board.NoSquare,
			Piece: board.NoKind,
			Check: true,
		})
	}
	return f
}

func (f *fakePosition) FEN() string { return "fake" }

func (f *fakePosition) Turn() board.Color { return f.turn }

func (f *fakePosition) PieceAt(s board.Square) (board.Piece, bool) {
	p, ok := f.pieces[s]
	return p, ok
}

func (f *fakePosition) LegalMoves() []board.Move { return f.moves }

func (f *fakePosition) Apply(move string) (board.Position, error) {
	for _, m := range f.moves {
		if m.UCI != move {
			continue
		}
		next := newFake(f.turn.Other(), f.number)
		n, ok := f.replies[move]
		if !ok {
			n = len(f.moves)
		}
		next.filler(n)
		return next, nil
	}
	return nil, board.ErrIllegalMove
}

func (f *fakePosition) MoveNumber() int { return f.number }

func (f *fakePosition) Terminal() board.Terminal { return board.NotTerminal }

func sq(name string) board.Square {
	s, err := board.ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return s
}

// mv builds a move from UCI text.
func mv(uci string, kind board.PieceKind) board.Move {
	return board.Move{
		UCI:   uci,
		From:  sq(uci[0:2]),
		To:    sq(uci[2:4]),
		Piece: kind,
	}
}

func capture(m board.Move) board.Move { m.Capture = true; return m }

func check(m board.Move) board.Move { m.Check = true; return m }

func castle(m board.Move) board.Move { m.Castle = true; return m }

// scored pairs a move with its evaluation.
type scored struct {
	move string
	cp   int
}

func input(pos *fakePosition, scores ...scored) *Input {
	evals := make([]evaluation.MoveEvaluation, 0, len(pos.moves))
	byMove := map[string]int{}
	for _, s := range scores {
		byMove[s.move] = s.cp
	}
	for _, m := range pos.moves {
		cp, ok := byMove[m.UCI]
		if !ok && m.Piece == board.NoKind {
			cp = fillerScore
		}
		evals = append(evals, evaluation.MoveEvaluation{Move: m.UCI, Centipawns: cp})
	}
	return NewInput(pos, evaluation.NewSet(evals))
}
