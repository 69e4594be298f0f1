package economy

import "fmt"

// Rank is a tier name on the ladder.
type Rank string

const (
	Novice          Rank = "Novice"
	Amateur         Rank = "Amateur"
	ClubPlayer      Rank = "Club Player"
	Expert          Rank = "Expert"
	CandidateMaster Rank = "Candidate Master"
	Master          Rank = "Master"
	Grandmaster     Rank = "Grandmaster"
	WorldClass      Rank = "World Class"
)

// Tier pairs a rank with the cumulative XP that reaches it.
type Tier struct {
	Rank Rank `json:"rank" yaml:"rank"`
	XP   int  `json:"xp" yaml:"xp"`
}

// Ladder is an ordered table of tiers with strictly increasing XP,
// starting at zero.
type Ladder []Tier

// DefaultLadder is the standard rank ladder.
var DefaultLadder = Ladder{
	{Novice, 0},
	{Amateur, 1000},
	{ClubPlayer, 3000},
	{Expert, 7000},
	{CandidateMaster, 15000},
	{Master, 30000},
	{Grandmaster, 60000},
	{WorldClass, 100000},
}

// Validate checks that the ladder starts at zero and increases
// strictly.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("ladder is empty")
	}
	if l[0].XP != 0 {
		return fmt.Errorf("first tier %q starts at %d, want 0", l[0].Rank, l[0].XP)
	}
	for i := 1; i < len(l); i++ {
		if l[i].XP <= l[i-1].XP {
			return fmt.Errorf("tier %q at %d does not exceed %q at %d",
				l[i].Rank, l[i].XP, l[i-1].Rank, l[i-1].XP)
		}
	}
	return nil
}

// RankFor returns the highest rank whose threshold xp reaches.
func (l Ladder) RankFor(xp int) Rank {
	return l[l.indexFor(xp)].Rank
}

// Index returns the position of r on the ladder, or -1.
func (l Ladder) Index(r Rank) int {
	for i, t := range l {
		if t.Rank == r {
			return i
		}
	}
	return -1
}

func (l Ladder) indexFor(xp int) int {
	for i := len(l) - 1; i > 0; i-- {
		if xp >= l[i].XP {
			return i
		}
	}
	return 0
}

// Progress describes how far a player is towards the next rank.
type Progress struct {
	Rank Rank `json:"rank"`

	// Next is empty at the top of the ladder.
	Next Rank `json:"next,omitempty"`

	// Current is the XP earned within the current tier and Needed
	// the width of the tier.
	Current int `json:"current"`
	Needed  int `json:"needed"`

	Percent float64 `json:"percent"`
}

// Progress reports the progress of xp towards the next rank.
func (l Ladder) Progress(xp int) Progress {
	i := l.indexFor(xp)
	if i == len(l)-1 {
		return Progress{Rank: l[i].Rank, Percent: 100}
	}
	current := xp - l[i].XP
	needed := l[i+1].XP - l[i].XP
	return Progress{
		Rank:    l[i].Rank,
		Next:    l[i+1].Rank,
		Current: current,
		Needed:  needed,
		Percent: float64(current) / float64(needed) * 100,
	}
}
