// Package board defines the read-only view of a chess position that
// challenge generation consumes, and adapts the notnil/chess rules
// engine to it.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIllegalMove is returned when a move is not legal in the
// position it is applied to.
var ErrIllegalMove = errors.New("illegal move")

// Color is the side a piece belongs to.
type Color int

const (
	// White moves first.
	White Color = iota
	// Black moves second.
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// String returns the FEN letter of the color.
func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceKind identifies a piece type independent of its color.
type PieceKind int

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the lowercase algebraic letter of the kind.
func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	}
	return ""
}

// Piece is a colored piece standing on a square.
type Piece struct {
	Kind  PieceKind
	Color Color
}

// Square indexes the board from a1 (0) to h8 (63), rank-major.
type Square int8

// NoSquare marks an absent square.
const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank. It
// returns NoSquare when either coordinate is off the board.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	sq := NewSquare(int(s[0]-'a'), int(s[1]-'1'))
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

// File returns the zero-based file (a=0).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the zero-based rank (rank 1 = 0).
func (s Square) Rank() int { return int(s) / 8 }

// String returns the algebraic name of the square.
func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Terminal describes how, if at all, the game ended in a position.
type Terminal int

const (
	// NotTerminal means play continues.
	NotTerminal Terminal = iota
	Checkmate
	Stalemate
	Draw
)

// String returns the lowercase name of the terminal state.
func (t Terminal) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	}
	return "none"
}

// Move describes one legal move together with the facts detectors
// need about it.
type Move struct {
	// UCI is the canonical <from><to>[promotion] notation.
	UCI string

	From Square
	To   Square

	// Piece is the kind of the moving piece.
	Piece PieceKind

	// Promotion is the promoted-to kind, or NoKind.
	Promotion PieceKind

	// Capture is set for every capture, en passant included.
	Capture bool

	// Check is set when the move gives check.
	Check bool

	// Castle is set when the king moves two files.
	Castle bool
}

// Quiet reports whether the move neither captures nor checks.
func (m Move) Quiet() bool {
	return !m.Capture && !m.Check
}

// Position is the rules authority's view of a board state. The
// implementation owns legality; callers never mutate a Position.
type Position interface {
	// FEN returns the Forsyth-Edwards notation of the position.
	FEN() string

	// Turn returns the side to move.
	Turn() Color

	// PieceAt returns the piece on sq, if any.
	PieceAt(sq Square) (Piece, bool)

	// LegalMoves returns every legal move for the side to move.
	LegalMoves() []Move

	// Apply plays a move given in UCI notation and returns the
	// resulting position. Illegal moves yield ErrIllegalMove.
	Apply(move string) (Position, error)

	// MoveNumber returns the full-move counter.
	MoveNumber() int

	// Terminal reports whether the game is over in this position.
	Terminal() Terminal
}

// NormalizeMove canonicalizes move text into lowercase
// <from><to>[promotion] notation. Separators such as "=" and "-"
// are dropped, so "e7e8=Q" becomes "e7e8q".
func NormalizeMove(move string) string {
	move = strings.ToLower(strings.TrimSpace(move))
	return strings.NewReplacer("=", "", "-", "", "x", "").Replace(move)
}

// MoveNumberFromFEN reads the full-move counter, the sixth FEN
// field. Missing or malformed counters default to 1.
func MoveNumberFromFEN(fen string) int {
	parts := strings.Fields(fen)
	if len(parts) < 6 {
		return 1
	}
	n, err := strconv.Atoi(parts[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// halfmoveClock reads the fifth FEN field, or 0.
func halfmoveClock(fen string) int {
	parts := strings.Fields(fen)
	if len(parts) < 5 {
		return 0
	}
	n, err := strconv.Atoi(parts[4])
	if err != nil {
		return 0
	}
	return n
}
