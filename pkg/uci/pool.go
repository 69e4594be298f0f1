// Package uci scores moves with a pool of UCI chess engines such
// as Stockfish.
package uci

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/logging"
)

// ErrClosed is returned by Evaluate after Close.
var ErrClosed = errors.New("engine pool closed")

// engine is the part of *uci.Engine the pool drives.
type engine interface {
	Run(cmds ...uci.Cmd) error
	SearchResults() uci.SearchResults
	Close() error
}

// Pool hands each evaluation to an idle engine process. Engines
// start lazily; one whose search is abandoned is killed and its
// slot restarted on next use.
type Pool struct {
	start func() (engine, error)
	idle  chan engine
	// spare holds one token per slot with no running engine.
	spare   chan struct{}
	done    chan struct{}
	size    int
	hash    int
	threads int
	logger  logging.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithHash sets the engine hash table size in MB.
func WithHash(mb int) Option {
	return func(p *Pool) { p.hash = mb }
}

// WithThreads sets the search threads per engine.
func WithThreads(n int) Option {
	return func(p *Pool) { p.threads = n }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// NewPool creates a pool of up to size engines running the binary
// at path. One engine is started immediately so a bad path fails
// here rather than on first use.
func NewPool(path string, size int, opts ...Option) (*Pool, error) {
	return newPool(func() (engine, error) {
		eng, err := uci.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to start engine %s: %w", path, err)
		}
		return eng, nil
	}, size, opts...)
}

func newPool(start func() (engine, error), size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		idle:   make(chan engine, size),
		spare:  make(chan struct{}, size),
		done:   make(chan struct{}),
		size:   size,
		logger: logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start = func() (engine, error) {
		eng, err := start()
		if err != nil {
			return nil, err
		}
		if err := eng.Run(p.setup()...); err != nil {
			_ = eng.Close()
			return nil, fmt.Errorf("failed to initialise engine: %w", err)
		}
		return eng, nil
	}

	first, err := p.start()
	if err != nil {
		return nil, err
	}
	p.idle <- first
	for i := 1; i < size; i++ {
		p.spare <- struct{}{}
	}
	return p, nil
}

func (p *Pool) setup() []uci.Cmd {
	cmds := []uci.Cmd{uci.CmdUCI, uci.CmdIsReady}
	if p.hash > 0 {
		cmds = append(cmds, uci.CmdSetOption{Name: "Hash", Value: strconv.Itoa(p.hash)})
	}
	if p.threads > 0 {
		cmds = append(cmds, uci.CmdSetOption{Name: "Threads", Value: strconv.Itoa(p.threads)})
	}
	return append(cmds, uci.CmdUCINewGame, uci.CmdIsReady)
}

// Size returns the maximum number of engines.
func (p *Pool) Size() int { return p.size }

// Evaluate searches only move from fen for about budget and returns
// the score from the mover's perspective. When ctx ends first the
// engine is killed and ctx's error returned.
func (p *Pool) Evaluate(
	ctx context.Context,
	fen, move string,
	budget time.Duration,
) (evaluation.Score, error) {
	pos, m, err := resolve(fen, move)
	if err != nil {
		return evaluation.Score{}, err
	}

	eng, err := p.acquire(ctx)
	if err != nil {
		return evaluation.Score{}, err
	}

	type result struct {
		score evaluation.Score
		err   error
	}
	done := make(chan result, 1)
	go func() {
		err := eng.Run(
			uci.CmdPosition{Position: pos},
			uci.CmdGo{MoveTime: budget, SearchMoves: []*chess.Move{m}},
		)
		if err != nil {
			done <- result{err: err}
			return
		}
		s := eng.SearchResults().Info.Score
		done <- result{score: evaluation.Score{Centipawns: s.CP, Mate: s.Mate}}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			p.discard(eng)
			return evaluation.Score{}, fmt.Errorf("engine search for %s failed: %w", move, r.err)
		}
		p.release(eng)
		return r.score, nil
	case <-ctx.Done():
		p.discard(eng)
		return evaluation.Score{}, ctx.Err()
	}
}

// acquire prefers an idle engine, then starts one in a spare slot,
// and only then waits for whichever frees up first.
func (p *Pool) acquire(ctx context.Context) (engine, error) {
	select {
	case <-p.done:
		return nil, ErrClosed
	default:
	}

	select {
	case eng := <-p.idle:
		return eng, nil
	default:
	}
	select {
	case <-p.spare:
		return p.startSpare()
	default:
	}

	select {
	case eng := <-p.idle:
		return eng, nil
	case <-p.spare:
		return p.startSpare()
	case <-p.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// startSpare starts an engine for a spare slot taken by the caller.
// On failure the slot goes back to the spares.
func (p *Pool) startSpare() (engine, error) {
	eng, err := p.start()
	if err != nil {
		p.returnSpare()
		return nil, err
	}
	p.logger.Debug("engine started")
	return eng, nil
}

func (p *Pool) returnSpare() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.spare <- struct{}{}
	}
}

func (p *Pool) release(eng engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = eng.Close()
		return
	}
	p.idle <- eng
}

// discard kills eng and frees its slot.
func (p *Pool) discard(eng engine) {
	if err := eng.Close(); err != nil {
		p.logger.Debug("engine close failed", logging.ErrorField(err))
	}
	p.returnSpare()
}

// Close stops every idle engine and wakes callers waiting for one.
// Engines busy in Evaluate stop when their call returns.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)

	var errs []error
	for {
		select {
		case eng := <-p.idle:
			if err := eng.Close(); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

func resolve(fen, move string) (*chess.Position, *chess.Move, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse FEN %q: %w", fen, err)
	}
	pos := chess.NewGame(opt).Position()
	want := board.NormalizeMove(move)
	for _, m := range pos.ValidMoves() {
		if m.String() == want {
			return pos, m, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s in %s", board.ErrIllegalMove, move, fen)
}
