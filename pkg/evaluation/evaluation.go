// Package evaluation aggregates per-move engine scores for a
// position into a ranked evaluation set.
package evaluation

import (
	"context"
	"sort"
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// Mate scores are folded into the centipawn scale: mate in n for
// the mover maps to MateScore-n, being mated to -(MateScore-n).
const (
	MateScore = 32000
	// MateThreshold separates mate signals from material scores.
	MateThreshold = 10000
)

// Score is a raw evaluator result. Mate is non-zero when the
// evaluator reports a forced mate: positive for the mover, negative
// against.
type Score struct {
	Centipawns int
	Mate       int
}

// Centipawn returns the score on the centipawn scale.
func (s Score) Centipawn() int {
	switch {
	case s.Mate > 0:
		return MateScore - s.Mate
	case s.Mate < 0:
		return -MateScore - s.Mate
	}
	return s.Centipawns
}

// Evaluator scores the position reached by playing move from fen,
// from the mover's perspective. Implementations must honour ctx and
// should search for roughly budget.
type Evaluator interface {
	Evaluate(
		ctx context.Context,
		fen, move string,
		budget time.Duration,
	) (Score, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, fen, move string, budget time.Duration) (Score, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(
	ctx context.Context,
	fen, move string,
	budget time.Duration,
) (Score, error) {
	return f(ctx, fen, move, budget)
}

// MoveEvaluation is the score of one legal move.
type MoveEvaluation struct {
	Move       string `json:"move"`
	Centipawns int    `json:"cp"`
}

// IsMate reports whether the score signals a forced mate for the
// mover.
func (e MoveEvaluation) IsMate() bool {
	return e.Centipawns > MateThreshold
}

// Option converts the evaluation into a challenge move option.
func (e MoveEvaluation) Option() challenge.MoveOption {
	return challenge.MoveOption{Move: e.Move, Centipawns: e.Centipawns}
}

// Set holds one evaluation per legal move, keyed by move and ranked
// best first.
type Set struct {
	byMove map[string]MoveEvaluation
	sorted []MoveEvaluation
}

// NewSet builds a set from evals. The first evaluation of a move
// wins; later duplicates are dropped. Ranking is descending by
// centipawns with ties kept in input order.
func NewSet(evals []MoveEvaluation) *Set {
	s := &Set{
		byMove: make(map[string]MoveEvaluation, len(evals)),
		sorted: make([]MoveEvaluation, 0, len(evals)),
	}
	for _, e := range evals {
		if _, dup := s.byMove[e.Move]; dup {
			continue
		}
		s.byMove[e.Move] = e
		s.sorted = append(s.sorted, e)
	}
	sort.SliceStable(s.sorted, func(i, j int) bool {
		return s.sorted[i].Centipawns > s.sorted[j].Centipawns
	})
	return s
}

// Len returns the number of evaluated moves.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sorted)
}

// Sorted returns the ranked evaluations. Callers must not modify
// the returned slice.
func (s *Set) Sorted() []MoveEvaluation {
	if s == nil {
		return nil
	}
	return s.sorted
}

// Get returns the evaluation of move.
func (s *Set) Get(move string) (MoveEvaluation, bool) {
	if s == nil {
		return MoveEvaluation{}, false
	}
	e, ok := s.byMove[move]
	return e, ok
}

// Best returns the highest ranked evaluation.
func (s *Set) Best() (MoveEvaluation, bool) {
	if s.Len() == 0 {
		return MoveEvaluation{}, false
	}
	return s.sorted[0], true
}

// Worst returns the lowest ranked evaluation.
func (s *Set) Worst() (MoveEvaluation, bool) {
	if s.Len() == 0 {
		return MoveEvaluation{}, false
	}
	return s.sorted[len(s.sorted)-1], true
}

// Filter returns the ranked evaluations for which keep is true, in
// rank order.
func (s *Set) Filter(keep func(MoveEvaluation) bool) []MoveEvaluation {
	var out []MoveEvaluation
	for _, e := range s.Sorted() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
