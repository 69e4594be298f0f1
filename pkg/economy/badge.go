package economy

// Badge is a display title earned for a streak or combo.
type Badge string

const (
	OnFire            Badge = "On Fire"
	Unstoppable       Badge = "Unstoppable"
	Legendary         Badge = "Legendary"
	GrandmasterStreak Badge = "Grandmaster Streak"

	DoubleThreat Badge = "Double Threat"
	TripleCrown  Badge = "Triple Crown"
	PerfectMove  Badge = "Perfect Move"
	Immortal     Badge = "Immortal"
)

// StreakBadge returns the badge for a streak of n, or "".
func StreakBadge(n int) Badge {
	switch {
	case n >= 15:
		return GrandmasterStreak
	case n >= 10:
		return Legendary
	case n >= 5:
		return Unstoppable
	case n >= 3:
		return OnFire
	}
	return ""
}

// ComboBadge returns the badge for size completions in one turn,
// or "".
func ComboBadge(size int) Badge {
	switch {
	case size >= 5:
		return Immortal
	case size >= 4:
		return PerfectMove
	case size >= 3:
		return TripleCrown
	case size >= 2:
		return DoubleThreat
	}
	return ""
}
