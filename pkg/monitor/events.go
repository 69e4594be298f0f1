// Package monitor collects the live events of game sessions and
// pushes them to connected peers over WebSocket.
package monitor

import (
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// EventType represents the type of session event.
type EventType string

const (
	EventPresented EventType = "challenge_presented"
	EventCompleted EventType = "challenge_completed"
	EventFailed    EventType = "challenge_failed"
	EventScore     EventType = "score_updated"
	EventRankUp    EventType = "rank_up"
	EventTimedOut  EventType = "generation_timed_out"
	EventGameOver  EventType = "game_over"
)

// ChallengeEvent is one observable change in a game session.
type ChallengeEvent struct {
	Type   EventType `json:"type"`
	GameID string    `json:"game_id"`
	Player string    `json:"player,omitempty"`

	ChallengeID   challenge.ID         `json:"challenge_id,omitempty"`
	ChallengeType challenge.Type       `json:"challenge_type,omitempty"`
	Description   string               `json:"description,omitempty"`
	Difficulty    challenge.Difficulty `json:"difficulty,omitempty"`
	Reward        int                  `json:"reward,omitempty"`
	Status        challenge.Status     `json:"status,omitempty"`

	// Points is awarded by the event's turn; Total is the game
	// total after it.
	Points int `json:"points,omitempty"`
	Total  int `json:"total,omitempty"`
	Streak int `json:"streak,omitempty"`
	Combo  int `json:"combo,omitempty"`

	Rank      string    `json:"rank,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
