// Package selector picks the challenges presented for a turn from
// the candidates the detectors produce.
package selector

import (
	"math/rand/v2"
	"sync"

	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
)

// Default selection bounds.
const (
	DefaultMin = 2
	DefaultMax = 4

	// forceAbove is the legal-move count above which Evaluation
	// Master is always in the pool when it qualifies.
	forceAbove = 5
)

// Rand is the randomness the selector draws on. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Selector runs a detector list over a position and samples a
// bounded, shuffled subset of the candidates.
type Selector struct {
	mu        sync.Mutex
	rnd       Rand
	detectors []detector.Detector
	forced    detector.Detector
	minCount  int
	maxCount  int
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source. Tests use it to pin selection.
func WithRand(r Rand) Option {
	return func(s *Selector) { s.rnd = r }
}

// WithSeed uses a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(s *Selector) { s.rnd = rand.New(rand.NewPCG(seed, seed)) }
}

// WithDetectors replaces the detector list. The default is the
// current catalogue.
func WithDetectors(ds []detector.Detector) Option {
	return func(s *Selector) { s.detectors = ds }
}

// WithLegacy appends the legacy detectors to the list.
func WithLegacy() Option {
	return func(s *Selector) { s.detectors = append(s.detectors, detector.Legacy()...) }
}

// WithForced sets the detector whose challenge is added to the pool
// in positions with more than five legal moves. nil disables
// forcing.
func WithForced(d detector.Detector) Option {
	return func(s *Selector) { s.forced = d }
}

// WithBounds sets the inclusive range the presented count is drawn
// from.
func WithBounds(lo, hi int) Option {
	return func(s *Selector) {
		s.minCount = lo
		s.maxCount = hi
	}
}

// New creates a Selector over the current catalogue.
func New(opts ...Option) *Selector {
	s := &Selector{
		rnd:       globalRand{},
		detectors: detector.Catalogue(),
		minCount:  DefaultMin,
		maxCount:  DefaultMax,
	}
	s.forced, _ = detector.ByType(challenge.EvaluationMaster)
	for _, opt := range opts {
		opt(s)
	}
	if s.minCount < 1 {
		s.minCount = 1
	}
	if s.maxCount < s.minCount {
		s.maxCount = s.minCount
	}
	return s
}

// Select returns the fresh challenges for in. The result is empty
// when no detector qualifies; it never contains two challenges of
// the same type.
func (s *Selector) Select(in *detector.Input) []*challenge.Challenge {
	pool := dedupe(detector.Run(in, s.detectors))

	if s.forced != nil && in.LegalCount() > forceAbove && !hasType(pool, s.forced.Type()) {
		if c := s.forced.Detect(in); c != nil {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	count := s.minCount + s.rnd.IntN(s.maxCount-s.minCount+1)
	s.mu.Unlock()

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

// Detectors returns the configured detector list.
func (s *Selector) Detectors() []detector.Detector {
	return s.detectors
}

func dedupe(cs []*challenge.Challenge) []*challenge.Challenge {
	seen := make(map[challenge.Type]bool, len(cs))
	out := cs[:0]
	for _, c := range cs {
		if seen[c.Type] {
			continue
		}
		seen[c.Type] = true
		out = append(out, c)
	}
	return out
}

func hasType(cs []*challenge.Challenge, t challenge.Type) bool {
	for _, c := range cs {
		if c.Type == t {
			return true
		}
	}
	return false
}
