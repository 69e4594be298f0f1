package api

import (
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/economy"
)

// StartRequest opens a challenge session. An empty GameID gets a
// generated one.
type StartRequest struct {
	GameID string `json:"game_id"`
	Player string `json:"player" binding:"required"`
}

// SessionResponse identifies a session.
type SessionResponse struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
}

// GenerateRequest asks for the challenges of the position the
// player is about to move in.
type GenerateRequest struct {
	FEN string `json:"fen" binding:"required"`
}

// ChallengesResponse lists the live batch.
type ChallengesResponse struct {
	Challenges []*challenge.Challenge `json:"challenges"`
}

// MoveRequest reports the move the player made. When FEN is given
// the move is checked against it and a move that ends the game sets
// GameOver.
type MoveRequest struct {
	Move     string `json:"move" binding:"required"`
	FEN      string `json:"fen,omitempty"`
	GameOver bool   `json:"game_over"`
}

// StateResponse is the current state of a session.
type StateResponse struct {
	GameID     string                 `json:"game_id"`
	Player     string                 `json:"player"`
	Challenges []*challenge.Challenge `json:"challenges"`
	Summary    economy.Summary        `json:"summary"`
	Streak     int                    `json:"streak"`
	Over       bool                   `json:"over"`
}

// FinishRequest settles a session.
type FinishRequest = economy.Outcome

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
