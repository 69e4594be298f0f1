// Package session runs the challenge loop for one player in one
// game: generate a batch for the position, resolve it against the
// move played, score the turn, and settle XP when the game ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bezalel6/computer-chess/pkg/bank"
	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
	"github.com/bezalel6/computer-chess/pkg/economy"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/metrics"
	"github.com/bezalel6/computer-chess/pkg/report"
	"github.com/bezalel6/computer-chess/pkg/selector"
	"github.com/bezalel6/computer-chess/pkg/store"
)

// DefaultCeiling bounds one generation pass.
const DefaultCeiling = 10 * time.Second

var (
	// ErrGenerationInProgress is returned when a call would
	// interleave with a running generation pass.
	ErrGenerationInProgress = errors.New("challenge generation in progress")

	// ErrGameOver is returned for play after the last move.
	ErrGameOver = errors.New("game is over")

	// ErrFinished is returned when a session is settled twice.
	ErrFinished = errors.New("session already finished")
)

// Analyzer produces the evaluation set of a position.
// *evaluation.Aggregator satisfies it.
type Analyzer interface {
	Aggregate(ctx context.Context, pos board.Position) (*evaluation.Set, error)
}

// Store persists what a session produces. *store.Store satisfies
// it.
type Store interface {
	RecordCompletion(ctx context.Context, rec challenge.Record) error
	SaveGameResult(ctx context.Context, res store.GameResult, rankFor store.RankFunc) (store.GameResult, error)
	PlayerXP(ctx context.Context, player string) (int, error)
}

// Publisher receives live events. *monitor.EventCollector
// satisfies it.
type Publisher interface {
	EmitPresented(gameID, player string, ch *challenge.Challenge)
	EmitResolved(gameID, player string, ch *challenge.Challenge)
	EmitScore(gameID, player string, points, total, streak, combo int)
	EmitRankUp(gameID, player, rank string)
	EmitTimedOut(gameID, player, msg string)
	EmitGameOver(gameID, player string, total int)
}

// TurnResult is what ApplyMove reports for one move.
type TurnResult struct {
	// Points awarded this turn.
	Points int `json:"points"`

	// Total is the game total after the turn.
	Total int `json:"total"`

	Turn economy.Turn `json:"turn"`

	// Challenges is the batch with updated statuses.
	Challenges []*challenge.Challenge `json:"challenges"`

	Completed []challenge.ID `json:"completed"`
	Failed    []challenge.ID `json:"failed"`
}

// Session is one player's challenge state in one game. Its methods
// are safe to call from several goroutines, but generation and move
// application are sequenced: neither runs while a generation pass
// is in flight.
type Session struct {
	gameID string
	player string

	analyzer Analyzer
	selector *selector.Selector
	bank     *bank.Bank
	tracker  *challenge.Tracker
	ladder   economy.Ladder
	ceiling  time.Duration
	now      func() time.Time

	logger    logging.Logger
	metrics   metrics.Recorder
	store     Store
	publisher Publisher

	mu         sync.Mutex
	generating bool
	over       bool
	finished   bool
	batch      *challenge.Batch
	moveNumber int
	econ       economy.State
	turns      []report.TurnEntry
	records    []challenge.Record
	startedAt  time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSelector sets the selector. The default draws 2..4 from the
// current catalogue.
func WithSelector(s *selector.Selector) Option {
	return func(ss *Session) { ss.selector = s }
}

// WithBank stamps bank windows and descriptions onto fresh
// challenges.
func WithBank(b *bank.Bank) Option {
	return func(s *Session) { s.bank = b }
}

// WithLadder replaces the default rank ladder.
func WithLadder(l economy.Ladder) Option {
	return func(s *Session) { s.ladder = l }
}

// WithCeiling bounds each generation pass. A pass that overruns
// yields no fresh challenges.
func WithCeiling(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.ceiling = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Session) { s.metrics = m }
}

// WithStore persists records and results.
func WithStore(st Store) Option {
	return func(s *Session) { s.store = st }
}

// WithPublisher sends live events.
func WithPublisher(p Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session for player in game gameID.
func New(gameID, player string, analyzer Analyzer, opts ...Option) *Session {
	s := &Session{
		gameID:   gameID,
		player:   player,
		analyzer: analyzer,
		ladder:   economy.DefaultLadder,
		ceiling:  DefaultCeiling,
		now:      time.Now,
		logger:   logging.NullLogger{},
		metrics:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.selector == nil {
		s.selector = NewSelector(s.bank)
	}
	s.logger = s.logger.WithFields(
		logging.GameField(gameID),
		logging.StringField("player", player),
	)
	s.tracker = challenge.NewTracker(s.onResolve)
	s.startedAt = s.now()
	return s
}

// NewSelector builds a selector over the detectors b enables. With
// Evaluation Master disabled it is never forced into the pool. A nil
// bank enables everything.
func NewSelector(b *bank.Bank, opts ...selector.Option) *selector.Selector {
	if b == nil {
		return selector.New(opts...)
	}
	base := []selector.Option{selector.WithDetectors(b.Detectors(detector.Catalogue()))}
	if !b.Enabled(challenge.EvaluationMaster) {
		base = append(base, selector.WithForced(nil))
	}
	return selector.New(append(base, opts...)...)
}

// GameID returns the game identifier.
func (s *Session) GameID() string { return s.gameID }

// Player returns the player name.
func (s *Session) Player() string { return s.player }

func (s *Session) onResolve(c *challenge.Challenge) {
	s.metrics.Resolution(string(c.Type), string(c.Status))
	if s.publisher != nil {
		s.publisher.EmitResolved(s.gameID, s.player, c)
	}
}

// GenerateChallenges analyses pos and installs the batch for the
// coming move: unresolved Game challenges carried over plus freshly
// selected ones. A position without legal moves yields an empty
// result. A pass that overruns the ceiling yields no fresh
// challenges and is not an error; only ctx ending is.
func (s *Session) GenerateChallenges(
	ctx context.Context,
	pos board.Position,
) ([]*challenge.Challenge, error) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return nil, ErrGameOver
	}
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	s.generating = true
	s.mu.Unlock()

	fresh, outcome, err := s.generate(ctx, pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		return nil, err
	}
	if len(pos.LegalMoves()) == 0 {
		return []*challenge.Challenge{}, nil
	}

	s.batch = challenge.NewBatch(fresh, s.batch)
	s.moveNumber = pos.MoveNumber()
	s.econ.Present(len(fresh))
	for _, c := range fresh {
		if s.publisher != nil {
			s.publisher.EmitPresented(s.gameID, s.player, c)
		}
	}
	s.logger.Info("challenges generated",
		logging.IntField("fresh", len(fresh)),
		logging.IntField("live", s.batch.Len()),
		logging.StringField("outcome", outcome),
	)
	return s.batch.Snapshot(), nil
}

func (s *Session) generate(
	ctx context.Context,
	pos board.Position,
) ([]*challenge.Challenge, string, error) {
	start := s.now()
	genCtx, cancel := context.WithTimeout(ctx, s.ceiling)
	defer cancel()

	set, err := s.analyzer.Aggregate(genCtx, pos)
	elapsed := s.now().Sub(start)
	if err != nil {
		if ctx.Err() != nil {
			s.metrics.Generation(metrics.OutcomeError, 0, elapsed)
			return nil, "", fmt.Errorf("failed to generate challenges: %w", ctx.Err())
		}
		s.metrics.Generation(metrics.OutcomeTimeout, 0, elapsed)
		s.logger.Warn("challenge generation abandoned",
			logging.FENField(pos.FEN()),
			logging.DurationField("ceiling", s.ceiling),
			logging.ErrorField(err),
		)
		if s.publisher != nil {
			s.publisher.EmitTimedOut(s.gameID, s.player,
				fmt.Sprintf("generation exceeded %s", s.ceiling))
		}
		return nil, metrics.OutcomeTimeout, nil
	}

	fresh := s.selector.Select(detector.NewInput(pos, set))
	if s.bank != nil {
		for _, c := range fresh {
			s.bank.Apply(c)
		}
	}

	outcome := metrics.OutcomeOK
	if len(fresh) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	s.metrics.Generation(outcome, len(fresh), elapsed)
	return fresh, outcome, nil
}

// ApplyMove resolves the live batch against the move the player
// made and scores the turn. The move must already be legal. With
// gameOver set, every challenge the move does not satisfy fails
// and the session accepts no further play.
func (s *Session) ApplyMove(
	ctx context.Context,
	move string,
	gameOver bool,
) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return nil, ErrGameOver
	}
	if s.generating {
		return nil, ErrGenerationInProgress
	}

	move = board.NormalizeMove(move)
	var presented []challenge.Type
	for _, c := range s.batch.Pending() {
		presented = append(presented, c.Type)
	}

	res := s.tracker.Apply(s.batch, move, gameOver)
	turn := s.econ.ApplyTurn(res.Completed)
	s.metrics.PointsAwarded(turn.Points)

	at := s.now()
	for _, c := range res.Completed {
		rec := challenge.NewRecord(c, s.gameID, s.player, move, s.moveNumber, at)
		rec.Streak = turn.Streak
		rec.Combo = turn.Completed
		s.persist(ctx, rec)
	}
	for _, c := range res.Failed {
		s.persist(ctx, challenge.NewRecord(c, s.gameID, s.player, move, s.moveNumber, at))
	}

	s.turns = append(s.turns, report.TurnEntry{
		MoveNumber: s.moveNumber,
		Move:       move,
		Presented:  presented,
		Completed:  turn.Completed,
		Points:     turn.Points,
		Streak:     turn.Streak,
	})
	if s.publisher != nil {
		s.publisher.EmitScore(s.gameID, s.player, turn.Points, s.econ.Points, turn.Streak, turn.Completed)
	}
	if turn.StreakBadge != "" || turn.ComboBadge != "" {
		s.logger.Info("badge earned",
			logging.StringField("streak_badge", string(turn.StreakBadge)),
			logging.StringField("combo_badge", string(turn.ComboBadge)),
		)
	}
	if gameOver {
		s.over = true
	}

	return &TurnResult{
		Points:     turn.Points,
		Total:      s.econ.Points,
		Turn:       turn,
		Challenges: s.batch.Snapshot(),
		Completed:  ids(res.Completed),
		Failed:     ids(res.Failed),
	}, nil
}

// persist keeps rec for the game report and hands it to the store.
// A store failure is logged; play continues.
func (s *Session) persist(ctx context.Context, rec challenge.Record) {
	s.records = append(s.records, rec)
	if s.store == nil {
		return
	}
	if err := s.store.RecordCompletion(ctx, rec); err != nil {
		s.logger.Error("failed to store completion",
			logging.ChallengeField(string(rec.ChallengeID)),
			logging.ErrorField(err),
		)
	}
}

// Finish settles the game: challenges still possible fail, the
// game's points convert into XP on top of the player's stored XP,
// and the result is persisted. It returns the full game report.
func (s *Session) Finish(
	ctx context.Context,
	outcome economy.Outcome,
) (*report.GameReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil, ErrFinished
	}
	if s.generating {
		return nil, ErrGenerationInProgress
	}

	at := s.now()
	expired := s.tracker.Expire(s.batch)
	for _, c := range expired.Failed {
		s.persist(ctx, challenge.NewRecord(c, s.gameID, s.player, "", s.moveNumber, at))
	}

	priorXP := 0
	if s.store != nil {
		xp, err := s.store.PlayerXP(ctx, s.player)
		if err != nil {
			return nil, fmt.Errorf("failed to load XP for %s: %w", s.player, err)
		}
		priorXP = xp
	}
	if outcome.PlayerRank == "" {
		outcome.PlayerRank = s.ladder.RankFor(priorXP)
	}

	settlement := s.ladder.Settle(&s.econ, outcome, priorXP)
	if s.store != nil {
		saved, err := s.store.SaveGameResult(ctx, store.GameResult{
			GameID:         s.gameID,
			Player:         s.player,
			Win:            outcome.Win,
			Points:         settlement.Summary.Points,
			Presented:      settlement.Summary.Presented,
			Completed:      settlement.Summary.Completed,
			LongestStreak:  settlement.Summary.LongestStreak,
			BestCombo:      settlement.Summary.BestCombo,
			CompletionRate: settlement.Summary.CompletionRate,
			XPEarned:       settlement.XPEarned,
			TotalXP:        settlement.TotalXP,
			Rank:           string(settlement.Rank),
			EndedAt:        at,
		}, func(xp int) string { return string(s.ladder.RankFor(xp)) })
		if err != nil {
			return nil, fmt.Errorf("failed to save result of %s: %w", s.gameID, err)
		}
		// Another game of this player settled after priorXP was read.
		if saved.TotalXP != settlement.TotalXP {
			settlement.TotalXP = saved.TotalXP
			settlement.Rank = economy.Rank(saved.Rank)
			before := s.ladder.RankFor(saved.TotalXP - settlement.XPEarned)
			settlement.RankUp = s.ladder.Index(settlement.Rank) > s.ladder.Index(before)
		}
	}

	s.over = true
	s.finished = true

	if s.publisher != nil {
		s.publisher.EmitGameOver(s.gameID, s.player, settlement.Summary.Points)
		if settlement.RankUp {
			s.publisher.EmitRankUp(s.gameID, s.player, string(settlement.Rank))
		}
	}
	s.logger.Info("game settled",
		logging.IntField("points", settlement.Summary.Points),
		logging.IntField("xp", settlement.XPEarned),
		logging.StringField("rank", string(settlement.Rank)),
		logging.BoolField("rank_up", settlement.RankUp),
	)

	return &report.GameReport{
		GameID:     s.gameID,
		Player:     s.player,
		StartedAt:  s.startedAt,
		EndedAt:    at,
		Outcome:    outcome,
		Settlement: settlement,
		Turns:      append([]report.TurnEntry(nil), s.turns...),
		Records:    append([]challenge.Record(nil), s.records...),
	}, nil
}

// Challenges returns a copy of the live batch.
func (s *Session) Challenges() []*challenge.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch.Snapshot()
}

// Summary returns the economy summary so far.
func (s *Session) Summary() economy.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.econ.Summary()
}

// Streak returns the current streak.
func (s *Session) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.econ.Streak
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

func ids(cs []*challenge.Challenge) []challenge.ID {
	out := make([]challenge.ID, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
