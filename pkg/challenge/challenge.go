// Package challenge defines the challenge model: the catalogue of
// challenge types, difficulty and reward rules, the per-challenge
// lifecycle state machine, and the live batch for a turn.
package challenge

import (
	"strings"

	"github.com/google/uuid"
)

// ID uniquely identifies a challenge instance.
type ID string

// Type names a challenge kind from the catalogue.
type Type string

// The current catalogue.
const (
	TacticalShot        Type = "Tactical Shot"
	BestCapture         Type = "Best Capture"
	DefensiveGenius     Type = "Defensive Genius"
	OutpostMaster       Type = "Outpost Master"
	CenterControl       Type = "Center Control"
	WeakSquareExploiter Type = "Weak Square Exploiter"
	EvaluationMaster    Type = "Evaluation Master"
	QuietBrilliancy     Type = "Quiet Brilliancy"
	KnightNinja         Type = "Knight Ninja"
	BishopBrilliance    Type = "Bishop Brilliance"
	RookLift            Type = "Rook Lift"
	QueenPower          Type = "Queen Power"
	PawnStorm           Type = "Pawn Storm"
	KingSafety          Type = "King Safety"
	SpaceInvader        Type = "Space Invader"
)

// Legacy types kept for stored records and older clients.
const (
	BestMove       Type = "Best Move"
	WorstMove      Type = "Worst Move"
	BestKnightMove Type = "Best Knight Move"
)

// Catalogue lists the current types in detection order.
var Catalogue = []Type{
	TacticalShot,
	BestCapture,
	DefensiveGenius,
	OutpostMaster,
	CenterControl,
	WeakSquareExploiter,
	EvaluationMaster,
	QuietBrilliancy,
	KnightNinja,
	BishopBrilliance,
	RookLift,
	QueenPower,
	PawnStorm,
	KingSafety,
	SpaceInvader,
}

// LegacyCatalogue lists the legacy types.
var LegacyCatalogue = []Type{BestMove, WorstMove, BestKnightMove}

// IsLegacy reports whether t belongs to the legacy variant set.
func (t Type) IsLegacy() bool {
	switch t {
	case BestMove, WorstMove, BestKnightMove:
		return true
	}
	return false
}

// Known reports whether t is in either catalogue.
func (t Type) Known() bool {
	if t.IsLegacy() {
		return true
	}
	for _, c := range Catalogue {
		if c == t {
			return true
		}
	}
	return false
}

// Slug returns the lowercase, dash-separated form of the type,
// e.g. "tactical-shot".
func (t Type) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(string(t))), "-")
}

// TimeWindow is the horizon over which a challenge stays
// attainable.
type TimeWindow string

const (
	// WindowTurn challenges must be met by the very next move.
	WindowTurn TimeWindow = "Turn"
	// WindowGame challenges stay open until met or the game ends.
	WindowGame TimeWindow = "Game"
	// WindowTenMoves has no rule of its own and resolves like
	// WindowGame.
	WindowTenMoves TimeWindow = "10 moves"
)

// Persistent reports whether challenges with this window survive
// into the next turn's batch while unresolved.
func (w TimeWindow) Persistent() bool {
	return w != WindowTurn
}

// Status is the lifecycle state of a challenge.
type Status string

// Status constants. StatusPossible is the only non-terminal state.
const (
	StatusPossible Status = "possible"
	StatusSuccess  Status = "success"
	StatusFail     Status = "fail"
)

// IsFinal returns true if the status is a terminal state.
func (s Status) IsFinal() bool {
	return s == StatusSuccess || s == StatusFail
}

// CheckKind describes how the correct-move set is interpreted.
type CheckKind string

const (
	// AnyOption is satisfied by playing any listed move.
	AnyOption CheckKind = "any option"
	// RelativeToBest marks sets derived from a centipawn band
	// around an edge move; the band itself is the condition.
	RelativeToBest CheckKind = "dynamic relative to best option"
)

// MoveOption is one evaluated move that satisfies a challenge.
type MoveOption struct {
	// Move is in <from><to>[promotion] notation.
	Move string `json:"move" yaml:"move"`

	// Centipawns is the evaluation after the move from the
	// mover's perspective.
	Centipawns int `json:"cp" yaml:"cp"`
}

// Challenge is a secondary objective offered for a position.
type Challenge struct {
	// ID is unique per instance.
	ID ID `json:"id"`

	// Type is the catalogue entry this challenge was built from.
	Type Type `json:"type"`

	// Description is the player-facing objective text.
	Description string `json:"description"`

	// Difficulty is the tier the reward was scaled by.
	Difficulty Difficulty `json:"difficulty"`

	// Reward is the point value awarded on success.
	Reward int `json:"reward"`

	// Window is the time horizon of the objective.
	Window TimeWindow `json:"time_window"`

	// Status is the lifecycle state.
	Status Status `json:"status"`

	// Check says how CorrectMoves is interpreted.
	Check CheckKind `json:"check"`

	// CorrectMoves is the non-empty set of satisfying moves, a
	// subset of the evaluations of the position it was built
	// for.
	CorrectMoves []MoveOption `json:"correct_moves"`
}

// Option customizes a challenge built by New.
type Option func(*Challenge)

// WithWindow sets the time window. The default is WindowTurn.
func WithWindow(w TimeWindow) Option {
	return func(c *Challenge) { c.Window = w }
}

// WithCheck sets the check kind. The default is AnyOption.
func WithCheck(k CheckKind) Option {
	return func(c *Challenge) { c.Check = k }
}

// WithDescription overrides the catalogue description.
func WithDescription(d string) Option {
	return func(c *Challenge) { c.Description = d }
}

// New builds a possible challenge of type t at difficulty d. The
// reward is derived from the type's base value and d. New returns
// nil when correct is empty, since such a challenge can never be
// offered.
func New(
	t Type,
	d Difficulty,
	correct []MoveOption,
	opts ...Option,
) *Challenge {
	if len(correct) == 0 {
		return nil
	}
	c := &Challenge{
		ID:           NewID(t),
		Type:         t,
		Description:  DefaultDescription(t),
		Difficulty:   d,
		Reward:       Reward(t, d),
		Window:       WindowTurn,
		Status:       StatusPossible,
		Check:        AnyOption,
		CorrectMoves: append([]MoveOption(nil), correct...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewID returns a fresh identifier prefixed with the type's slug.
func NewID(t Type) ID {
	return ID(t.Slug() + "-" + uuid.NewString())
}

// Accepts reports whether move satisfies the challenge. Move text
// is compared case-insensitively with promotion separators removed.
func (c *Challenge) Accepts(move string) bool {
	move = canonical(move)
	for _, m := range c.CorrectMoves {
		if canonical(m.Move) == move {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Challenge) Clone() *Challenge {
	cp := *c
	cp.CorrectMoves = append([]MoveOption(nil), c.CorrectMoves...)
	return &cp
}

func canonical(move string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(move)), "=", "")
}
