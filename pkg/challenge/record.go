package challenge

import "time"

// Record is the completion record handed to persistence when a
// challenge resolves.
type Record struct {
	// ChallengeID is the resolved challenge.
	ChallengeID ID `json:"challenge_id"`

	// GameID and Player identify the owning session.
	GameID string `json:"game_id"`
	Player string `json:"player"`

	Type       Type       `json:"type"`
	Difficulty Difficulty `json:"difficulty"`
	Reward     int        `json:"reward"`
	Window     TimeWindow `json:"time_window"`

	// Status is StatusSuccess or StatusFail.
	Status Status `json:"status"`

	// Move is the move whose play resolved the challenge, empty
	// when it expired at game end.
	Move string `json:"move,omitempty"`

	// MoveNumber is the full-move counter when it resolved.
	MoveNumber int `json:"move_number"`

	// ResolvedAt is when the transition happened.
	ResolvedAt time.Time `json:"resolved_at"`

	// Streak and Combo are the economy state after the resolving
	// turn was scored. Both are zero for failures.
	Streak int `json:"streak"`
	Combo  int `json:"combo"`
}

// NewRecord captures a resolved challenge.
func NewRecord(
	c *Challenge,
	gameID, player, move string,
	moveNumber int,
	at time.Time,
) Record {
	return Record{
		ChallengeID: c.ID,
		GameID:      gameID,
		Player:      player,
		Type:        c.Type,
		Difficulty:  c.Difficulty,
		Reward:      c.Reward,
		Window:      c.Window,
		Status:      c.Status,
		Move:        move,
		MoveNumber:  moveNumber,
		ResolvedAt:  at,
	}
}

// Completed reports whether the record is a success.
func (r Record) Completed() bool {
	return r.Status == StatusSuccess
}
