// Package api exposes challenge sessions over HTTP: start a
// session, generate challenges for a position, apply the move
// played and settle the game. Player standings, metrics and the
// live event stream are served alongside.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bezalel6/computer-chess/pkg/logging"
	"github.com/bezalel6/computer-chess/pkg/monitor"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Players answers standings queries. *store.Store satisfies it.
type Players interface {
	Player(ctx context.Context, name string) (*store.Player, error)
	Leaderboard(ctx context.Context, limit int) ([]store.Player, error)
	Games(ctx context.Context, player string, limit int) ([]store.GameResult, error)
}

// Server routes HTTP requests to the session manager.
type Server struct {
	manager   *session.Manager
	players   Players
	hub       *monitor.Hub
	gatherer  prometheus.Gatherer
	logger    logging.Logger
	reportDir string
	token     string
}

// Option configures a Server.
type Option func(*Server)

// WithPlayers serves /players and /leaderboard from p.
func WithPlayers(p Players) Option {
	return func(s *Server) { s.players = p }
}

// WithHub serves the live event stream on /ws and the dashboard
// snapshot on /dashboard.
func WithHub(h *monitor.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithGatherer serves g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithReportDir writes a JSON report per finished game into dir and
// appends it to dir/history.jsonl.
func WithReportDir(dir string) Option {
	return func(s *Server) { s.reportDir = dir }
}

// WithToken requires "Authorization: Bearer <token>" on /v1.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New creates a server over manager.
func New(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", s.handleHealth)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	if s.hub != nil {
		r.GET("/ws", gin.WrapH(s.hub))
		r.GET("/dashboard", gin.WrapF(s.hub.HandleDashboard))
	}

	v1 := r.Group("/v1")
	if s.token != "" {
		v1.Use(bearerAuth(s.token))
	}
	{
		v1.POST("/sessions", s.handleStart)
		games := v1.Group("/games/:game/players/:player")
		games.GET("", s.handleState)
		games.POST("/challenges", s.handleGenerate)
		games.POST("/moves", s.handleMove)
		games.POST("/finish", s.handleFinish)
		games.DELETE("", s.handleAbandon)

		if s.players != nil {
			v1.GET("/players/:name", s.handlePlayer)
			v1.GET("/players/:name/games", s.handleGames)
			v1.GET("/leaderboard", s.handleLeaderboard)
		}
	}
	return r
}

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logging.StringField("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if s.hub != nil {
		s.hub.Close()
	}
	return srv.Shutdown(shutdownCtx)
}
