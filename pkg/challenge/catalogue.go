package challenge

// defaultReward is used for types missing from the base table.
const defaultReward = 9

var baseRewards = map[Type]int{
	TacticalShot:        10,
	BestCapture:         6,
	DefensiveGenius:     12,
	OutpostMaster:       8,
	CenterControl:       7,
	WeakSquareExploiter: 11,
	EvaluationMaster:    9,
	QuietBrilliancy:     14,
	KnightNinja:         8,
	BishopBrilliance:    8,
	RookLift:            10,
	QueenPower:          7,
	PawnStorm:           6,
	KingSafety:          8,
	SpaceInvader:        9,
	BestMove:            9,
	WorstMove:           6,
	BestKnightMove:      8,
}

var descriptions = map[Type]string{
	TacticalShot:        "Execute a powerful tactical blow",
	BestCapture:         "Make the most valuable capture",
	DefensiveGenius:     "Defend against the opponent's threat",
	OutpostMaster:       "Establish a strong outpost",
	CenterControl:       "Control the center of the board",
	WeakSquareExploiter: "Exploit a weakness in the opponent's pawn structure",
	EvaluationMaster:    "Find a move within 10cp of the best",
	QuietBrilliancy:     "Find a subtle positional move",
	KnightNinja:         "Execute a tactical knight maneuver",
	BishopBrilliance:    "Find a powerful diagonal move",
	RookLift:            "Activate your rook with a creative maneuver",
	QueenPower:          "Unleash your queen's power",
	PawnStorm:           "Advance your pawns aggressively",
	KingSafety:          "Improve your king's safety",
	SpaceInvader:        "Restrict your opponent's mobility",
	BestMove:            "Make the best move in this position",
	WorstMove:           "Make the worst move in this position",
	BestKnightMove:      "Make the best knight move in this position",
}

// BaseReward returns the immutable base reward weight of t.
func BaseReward(t Type) int {
	if r, ok := baseRewards[t]; ok {
		return r
	}
	return defaultReward
}

// DefaultDescription returns the built-in objective text for t.
func DefaultDescription(t Type) string {
	return descriptions[t]
}
