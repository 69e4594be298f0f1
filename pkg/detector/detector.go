// Package detector implements the challenge pattern catalogue. Each
// detector inspects a position, its ranked move evaluations and the
// side to move's piece index, and either builds a challenge or
// reports that its pattern does not apply.
package detector

import (
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
)

// Input is everything a detector may look at. It is built once per
// position and shared read-only by all detectors.
type Input struct {
	Position    board.Position
	Evaluations *evaluation.Set
	Pieces      *board.PieceIndex

	moves      map[string]board.Move
	legalCount int
	moveNumber int
}

// NewInput indexes pos and its evaluations for detection.
func NewInput(pos board.Position, evals *evaluation.Set) *Input {
	legal := pos.LegalMoves()
	moves := make(map[string]board.Move, len(legal))
	for _, m := range legal {
		moves[m.UCI] = m
	}
	return &Input{
		Position:    pos,
		Evaluations: evals,
		Pieces:      board.NewPieceIndex(pos),
		moves:       moves,
		legalCount:  len(legal),
		moveNumber:  pos.MoveNumber(),
	}
}

// LegalCount returns the number of legal moves in the position.
func (in *Input) LegalCount() int {
	return in.legalCount
}

// Move returns the legal move facts for uci.
func (in *Input) Move(uci string) (board.Move, bool) {
	m, ok := in.moves[uci]
	return m, ok
}

// Difficulty rates a centipawn gap in this position.
func (in *Input) Difficulty(gap int) challenge.Difficulty {
	return challenge.CalculateDifficulty(gap, in.legalCount, in.moveNumber)
}

// Detector recognises one challenge pattern.
type Detector interface {
	// Type returns the challenge type the detector builds.
	Type() challenge.Type

	// Detect returns a candidate challenge, or nil when the
	// pattern does not apply. It never fails.
	Detect(in *Input) *challenge.Challenge
}

type detectorFunc struct {
	t  challenge.Type
	fn func(*Input) *challenge.Challenge
}

func (d detectorFunc) Type() challenge.Type { return d.t }

func (d detectorFunc) Detect(in *Input) *challenge.Challenge {
	if in.Evaluations.Len() == 0 {
		return nil
	}
	return d.fn(in)
}

// New wraps fn as a Detector for t. fn is only called when the
// evaluation set is non-empty.
func New(t challenge.Type, fn func(*Input) *challenge.Challenge) Detector {
	return detectorFunc{t: t, fn: fn}
}

// Catalogue returns the fifteen current detectors in catalogue
// order.
func Catalogue() []Detector {
	return []Detector{
		New(challenge.TacticalShot, tacticalShot),
		New(challenge.BestCapture, bestCapture),
		New(challenge.DefensiveGenius, defensiveGenius),
		New(challenge.OutpostMaster, outpostMaster),
		New(challenge.CenterControl, centerControl),
		New(challenge.WeakSquareExploiter, weakSquareExploiter),
		New(challenge.EvaluationMaster, evaluationMaster),
		New(challenge.QuietBrilliancy, quietBrilliancy),
		New(challenge.KnightNinja, pieceSpecialty(challenge.KnightNinja, board.Knight, knightGap)),
		New(challenge.BishopBrilliance, pieceSpecialty(challenge.BishopBrilliance, board.Bishop, bishopGap)),
		New(challenge.RookLift, pieceSpecialty(challenge.RookLift, board.Rook, rookGap)),
		New(challenge.QueenPower, pieceSpecialty(challenge.QueenPower, board.Queen, queenGap)),
		New(challenge.PawnStorm, pawnStorm),
		New(challenge.KingSafety, kingSafety),
		New(challenge.SpaceInvader, spaceInvader),
	}
}

// Legacy returns the Best Move, Worst Move and Best Knight Move
// detectors.
func Legacy() []Detector {
	return []Detector{
		New(challenge.BestMove, bestMove),
		New(challenge.WorstMove, worstMove),
		New(challenge.BestKnightMove, bestKnightMove),
	}
}

// Run applies every detector to in and returns the candidates that
// qualified, in detector order.
func Run(in *Input, detectors []Detector) []*challenge.Challenge {
	var out []*challenge.Challenge
	for _, d := range detectors {
		if c := d.Detect(in); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ByType returns the detector for t from either catalogue.
func ByType(t challenge.Type) (Detector, bool) {
	for _, d := range append(Catalogue(), Legacy()...) {
		if d.Type() == t {
			return d, true
		}
	}
	return nil, false
}
