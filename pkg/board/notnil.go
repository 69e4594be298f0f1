package board

import (
	"fmt"
	"io"

	"github.com/notnil/chess"
)

// fiftyMoveLimit is the halfmove clock at which a draw applies.
const fiftyMoveLimit = 100

// chessPosition adapts *chess.Position to Position.
type chessPosition struct {
	pos   *chess.Position
	moves []Move
}

// FromFEN parses a FEN string into a Position.
func FromFEN(fen string) (Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FEN %q: %w", fen, err)
	}
	return Wrap(chess.NewGame(opt).Position()), nil
}

// Start returns the standard initial position.
func Start() Position {
	return Wrap(chess.NewGame().Position())
}

// Wrap exposes a notnil/chess position as a Position.
func Wrap(pos *chess.Position) Position {
	return &chessPosition{pos: pos}
}

func (p *chessPosition) FEN() string {
	return p.pos.String()
}

func (p *chessPosition) Turn() Color {
	return fromChessColor(p.pos.Turn())
}

func (p *chessPosition) PieceAt(sq Square) (Piece, bool) {
	if sq < 0 || sq > 63 {
		return Piece{}, false
	}
	piece := p.pos.Board().Piece(chess.Square(sq))
	if piece == chess.NoPiece {
		return Piece{}, false
	}
	return Piece{
		Kind:  fromChessKind(piece.Type()),
		Color: fromChessColor(piece.Color()),
	}, true
}

func (p *chessPosition) LegalMoves() []Move {
	if p.moves != nil {
		return p.moves
	}
	valid := p.pos.ValidMoves()
	b := p.pos.Board()
	moves := make([]Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, Move{
			UCI:       m.String(),
			From:      Square(m.S1()),
			To:        Square(m.S2()),
			Piece:     fromChessKind(b.Piece(m.S1()).Type()),
			Promotion: fromChessKind(m.Promo()),
			Capture:   m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant),
			Check:     m.HasTag(chess.Check),
			Castle: m.HasTag(chess.KingSideCastle) ||
				m.HasTag(chess.QueenSideCastle),
		})
	}
	p.moves = moves
	return moves
}

func (p *chessPosition) Apply(move string) (Position, error) {
	m, err := p.find(move)
	if err != nil {
		return nil, err
	}
	return Wrap(p.pos.Update(m)), nil
}

func (p *chessPosition) MoveNumber() int {
	return MoveNumberFromFEN(p.pos.String())
}

func (p *chessPosition) Terminal() Terminal {
	switch p.pos.Status() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	if halfmoveClock(p.pos.String()) >= fiftyMoveLimit {
		return Draw
	}
	return NotTerminal
}

func (p *chessPosition) find(move string) (*chess.Move, error) {
	want := NormalizeMove(move)
	for _, m := range p.pos.ValidMoves() {
		if m.String() == want {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, move, p.pos.String())
}

// Step is one ply of a replayed game: the position before the move
// and the move played from it.
type Step struct {
	Before Position
	Move   string
}

// ReplayPGN parses a PGN game and returns one Step per ply, plus the
// final position.
func ReplayPGN(r io.Reader) ([]Step, Position, error) {
	pgn, err := chess.PGN(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse PGN: %w", err)
	}
	game := chess.NewGame(pgn)
	positions := game.Positions()
	moves := game.Moves()

	steps := make([]Step, 0, len(moves))
	for i, m := range moves {
		steps = append(steps, Step{
			Before: Wrap(positions[i]),
			Move:   m.String(),
		})
	}
	return steps, Wrap(positions[len(positions)-1]), nil
}

func fromChessColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func fromChessKind(t chess.PieceType) PieceKind {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoKind
}
