package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/report"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	historyFile  = "history.jsonl"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: s.manager.Len(),
	})
}

// handleStart handles POST /v1/sessions.
func (s *Server) handleStart(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	sess, err := s.manager.Start(req.GameID, req.Player)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{
		GameID: sess.GameID(),
		Player: sess.Player(),
	})
}

func (s *Server) session(c *gin.Context) (*session.Session, bool) {
	sess, err := s.manager.Get(c.Param("game"), c.Param("player"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

// handleState handles GET /v1/games/:game/players/:player.
func (s *Server) handleState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StateResponse{
		GameID:     sess.GameID(),
		Player:     sess.Player(),
		Challenges: sess.Challenges(),
		Summary:    sess.Summary(),
		Streak:     sess.Streak(),
		Over:       sess.Over(),
	})
}

// handleGenerate handles POST /v1/games/:game/players/:player/challenges.
func (s *Server) handleGenerate(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	pos, err := board.FromFEN(req.FEN)
	if err != nil {
		badRequest(c, "INVALID_FEN", err)
		return
	}
	cs, err := sess.GenerateChallenges(c.Request.Context(), pos)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ChallengesResponse{Challenges: cs})
}

// handleMove handles POST /v1/games/:game/players/:player/moves.
func (s *Server) handleMove(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	gameOver := req.GameOver
	if req.FEN != "" {
		pos, err := board.FromFEN(req.FEN)
		if err != nil {
			badRequest(c, "INVALID_FEN", err)
			return
		}
		next, err := pos.Apply(req.Move)
		if err != nil {
			s.fail(c, err)
			return
		}
		if next.Terminal() != board.NotTerminal {
			gameOver = true
		}
	}

	res, err := sess.ApplyMove(c.Request.Context(), req.Move, gameOver)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleFinish handles POST /v1/games/:game/players/:player/finish.
// The session is removed once settled.
func (s *Server) handleFinish(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req FinishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	game, err := sess.Finish(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.manager.Remove(sess.GameID(), sess.Player())
	s.archive(game)
	c.JSON(http.StatusOK, game)
}

// archive writes the report and history entry. Failures are logged.
func (s *Server) archive(game *report.GameReport) {
	if s.reportDir == "" {
		return
	}
	path, err := report.SaveGameReport(report.NewJSONReporter(true), game, s.reportDir, "json")
	if err != nil {
		s.logger.Error("failed to save game report",
			logging.GameField(game.GameID),
			logging.ErrorField(err),
		)
		return
	}
	if err := report.AppendToHistory(filepath.Join(s.reportDir, historyFile), game, path); err != nil {
		s.logger.Error("failed to append history",
			logging.GameField(game.GameID),
			logging.ErrorField(err),
		)
	}
}

// handleAbandon handles DELETE /v1/games/:game/players/:player. The
// session is dropped without settlement.
func (s *Server) handleAbandon(c *gin.Context) {
	if _, ok := s.session(c); !ok {
		return
	}
	s.manager.Remove(c.Param("game"), c.Param("player"))
	c.Status(http.StatusNoContent)
}

// handlePlayer handles GET /v1/players/:name.
func (s *Server) handlePlayer(c *gin.Context) {
	p, err := s.players.Player(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleGames handles GET /v1/players/:name/games.
func (s *Server) handleGames(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	games, err := s.players.Games(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if games == nil {
		games = []store.GameResult{}
	}
	c.JSON(http.StatusOK, games)
}

// handleLeaderboard handles GET /v1/leaderboard.
func (s *Server) handleLeaderboard(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	players, err := s.players.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if players == nil {
		players = []store.Player{}
	}
	c.JSON(http.StatusOK, players)
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "limit must be a positive integer",
			Code:  "INVALID_LIMIT",
		})
		return 0, false
	}
	return min(n, maxLimit), true
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: code})
}

// fail maps err to a status code and writes it.
func (s *Server) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.StringField("path", c.FullPath()),
			logging.ErrorField(err),
		)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict, "SESSION_EXISTS"
	case errors.Is(err, session.ErrGenerationInProgress):
		return http.StatusConflict, "GENERATION_IN_PROGRESS"
	case errors.Is(err, session.ErrGameOver):
		return http.StatusConflict, "GAME_OVER"
	case errors.Is(err, session.ErrFinished):
		return http.StatusConflict, "FINISHED"
	case errors.Is(err, board.ErrIllegalMove):
		return http.StatusBadRequest, "ILLEGAL_MOVE"
	case errors.Is(err, session.ErrPlayerRequired):
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
	return http.StatusInternalServerError, "INTERNAL"
}
