package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/selector"
	"github.com/bezalel6/computer-chess/pkg/store"
)

// offer describes a challenge a scripted detector emits.
type offer struct {
	window challenge.TimeWindow
	moves  []string
}

// script holds the offers for the next generation pass.
type script struct {
	mu     sync.Mutex
	offers map[challenge.Type]offer
}

func (s *script) set(offers map[challenge.Type]offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = offers
}

func (s *script) detect(t challenge.Type) func(*detector.Input) *challenge.Challenge {
	return func(*detector.Input) *challenge.Challenge {
		s.mu.Lock()
		defer s.mu.Unlock()
		o, ok := s.offers[t]
		if !ok {
			return nil
		}
		var correct []challenge.MoveOption
		for _, m := range o.moves {
			correct = append(correct, challenge.MoveOption{Move: m, Centipawns: 100})
		}
		return challenge.New(t, challenge.Medium, correct, challenge.WithWindow(o.window))
	}
}

// selector presents every scripted offer.
func (s *script) selector() *selector.Selector {
	var ds []detector.Detector
	for _, t := range challenge.Catalogue {
		ds = append(ds, detector.New(t, s.detect(t)))
	}
	n := len(challenge.Catalogue)
	return selector.New(
		selector.WithDetectors(ds),
		selector.WithForced(nil),
		selector.WithBounds(n, n),
		selector.WithSeed(7),
	)
}

func neutral() *evaluation.Aggregator {
	return evaluation.NewAggregator(evaluation.EvaluatorFunc(
		func(context.Context, string, string, time.Duration) (evaluation.Score, error) {
			return evaluation.Score{}, nil
		},
	))
}

type analyzerFunc func(ctx context.Context, pos board.Position) (*evaluation.Set, error)

func (f analyzerFunc) Aggregate(ctx context.Context, pos board.Position) (*evaluation.Set, error) {
	return f(ctx, pos)
}

func byType(cs []*challenge.Challenge) map[challenge.Type]*challenge.Challenge {
	out := make(map[challenge.Type]*challenge.Challenge, len(cs))
	for _, c := range cs {
		out[c.Type] = c
	}
	return out
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RecordCompletion(ctx context.Context, rec challenge.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) SaveGameResult(ctx context.Context, res store.GameResult, rankFor store.RankFunc) (store.GameResult, error) {
	args := m.Called(ctx, res)
	saved := res
	if v := args.Get(0); v != nil {
		saved = v.(store.GameResult)
	}
	return saved, args.Error(1)
}

func (m *mockStore) PlayerXP(ctx context.Context, player string) (int, error) {
	args := m.Called(ctx, player)
	return args.Int(0), args.Error(1)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// flatInput is the start position with every move scored equal.
func flatInput(t *testing.T) *detector.Input {
	t.Helper()
	set, err := neutral().Aggregate(context.Background(), board.Start())
	require.NoError(t, err)
	return detector.NewInput(board.Start(), set)
}
