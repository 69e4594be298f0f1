package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/metrics"
)

// Defaults for the aggregator.
const (
	DefaultBatchWidth  = 5
	DefaultThinkTime   = 100 * time.Millisecond
	DefaultCallTimeout = 2 * time.Second
)

// Aggregator obtains an evaluation for every legal move of a
// position, with a bounded number of evaluator calls in flight.
type Aggregator struct {
	evaluator   Evaluator
	width       int
	thinkTime   time.Duration
	callTimeout time.Duration
	logger      logging.Logger
	metrics     metrics.Recorder
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithBatchWidth sets the maximum number of concurrent evaluator
// calls.
func WithBatchWidth(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.width = n
		}
	}
}

// WithThinkTime sets the search budget passed to each call.
func WithThinkTime(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d > 0 {
			a.thinkTime = d
		}
	}
}

// WithCallTimeout bounds each evaluator call. A call that does not
// return in time scores 0.
func WithCallTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) AggregatorOption {
	return func(a *Aggregator) { a.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator creates an aggregator over ev.
func NewAggregator(ev Evaluator, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		evaluator:   ev,
		width:       DefaultBatchWidth,
		thinkTime:   DefaultThinkTime,
		callTimeout: DefaultCallTimeout,
		logger:      logging.NullLogger{},
		metrics:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate evaluates every legal move of pos. Individual failures
// and timeouts score 0 and never fail the whole set. A position
// without legal moves yields an empty set. The only error is ctx
// ending before all calls completed; the partial set is still
// returned with unfinished moves at 0.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	pos board.Position,
) (*Set, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return NewSet(nil), nil
	}

	fen := pos.FEN()
	results := make([]MoveEvaluation, len(moves))
	for i, m := range moves {
		results[i] = MoveEvaluation{Move: m.UCI}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.width)

	for i, m := range moves {
		if gCtx.Err() != nil {
			// Remaining moves keep the neutral score.
			break
		}
		g.Go(func() error {
			results[i] = a.evaluate(gCtx, fen, m.UCI)
			return nil
		})
	}
	_ = g.Wait()

	set := NewSet(results)
	if err := ctx.Err(); err != nil {
		return set, fmt.Errorf("aggregation interrupted: %w", err)
	}
	return set, nil
}

type callResult struct {
	score Score
	err   error
}

func (a *Aggregator) evaluate(
	ctx context.Context,
	fen, move string,
) MoveEvaluation {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		score, err := a.evaluator.Evaluate(callCtx, fen, move, a.thinkTime)
		done <- callResult{score: score, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}

	elapsed := time.Since(start)
	if res.err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(res.err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		a.metrics.EvaluatorCall(outcome, elapsed)
		a.logger.Warn("move evaluation failed, using neutral score",
			logging.MoveField(move),
			logging.StringField("outcome", outcome),
			logging.ErrorField(res.err),
		)
		return MoveEvaluation{Move: move}
	}

	a.metrics.EvaluatorCall(metrics.OutcomeOK, elapsed)
	a.logger.Debug("move evaluated",
		logging.MoveField(move),
		logging.IntField("cp", res.score.Centipawn()),
		logging.DurationField("took", elapsed),
	)
	return MoveEvaluation{Move: move, Centipawns: res.score.Centipawn()}
}
