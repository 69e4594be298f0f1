package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezalel6/computer-chess/pkg/board"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
	"github.com/bezalel6/computer-chess/pkg/evaluation"
	"github.com/bezalel6/computer-chess/pkg/metrics"
	"github.com/bezalel6/computer-chess/pkg/monitor"
	"github.com/bezalel6/computer-chess/pkg/report"
	"github.com/bezalel6/computer-chess/pkg/selector"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

const (
	startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	// Black to move, d8h4 mates.
	foolsFEN = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type analyzerFunc func(ctx context.Context, pos board.Position) (*evaluation.Set, error)

func (f analyzerFunc) Aggregate(ctx context.Context, pos board.Position) (*evaluation.Set, error) {
	return f(ctx, pos)
}

func neutral() session.Analyzer {
	return evaluation.NewAggregator(evaluation.EvaluatorFunc(
		func(context.Context, string, string, time.Duration) (evaluation.Score, error) {
			return evaluation.Score{}, nil
		},
	))
}

// knightOnly presents one Knight Ninja challenge solved by g1f3.
func knightOnly() *selector.Selector {
	d := detector.New(challenge.KnightNinja, func(*detector.Input) *challenge.Challenge {
		return challenge.New(challenge.KnightNinja, challenge.Medium,
			[]challenge.MoveOption{{Move: "g1f3", Centipawns: 30}})
	})
	return selector.New(
		selector.WithDetectors([]detector.Detector{d}),
		selector.WithForced(nil),
		selector.WithBounds(1, 1),
		selector.WithSeed(1),
	)
}

type fixture struct {
	t       *testing.T
	manager *session.Manager
	store   *store.Store
	handler http.Handler
}

func newFixture(t *testing.T, analyzer session.Analyzer, opts ...Option) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := session.NewManager(analyzer, nil,
		session.WithSelector(knightOnly()),
		session.WithStore(st),
	)
	srv := New(m, append([]Option{WithPlayers(st)}, opts...)...)
	return &fixture{t: t, manager: m, store: st, handler: srv.Handler()}
}

func (f *fixture) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (f *fixture) start(game, player string) {
	f.t.Helper()
	w := f.do(http.MethodPost, "/v1/sessions", StartRequest{GameID: game, Player: player})
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t, neutral())
	f.start("g1", "alice")

	w := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, HealthResponse{Status: "ok", Sessions: 1}, decode[HealthResponse](t, w))
}

func TestServer_GameFlow(t *testing.T) {
	f := newFixture(t, neutral())
	f.start("g1", "alice")
	base := "/v1/games/g1/players/alice"

	w := f.do(http.MethodPost, base+"/challenges", GenerateRequest{FEN: startFEN})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cs := decode[ChallengesResponse](t, w).Challenges
	require.Len(t, cs, 1)
	assert.Equal(t, challenge.KnightNinja, cs[0].Type)
	assert.Equal(t, challenge.StatusPossible, cs[0].Status)

	w = f.do(http.MethodPost, base+"/moves", MoveRequest{Move: "g1f3", FEN: startFEN})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	turn := decode[session.TurnResult](t, w)
	assert.Equal(t, 8, turn.Points)
	assert.Equal(t, 8, turn.Total)
	assert.Len(t, turn.Completed, 1)

	w = f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[StateResponse](t, w)
	assert.Equal(t, 8, state.Summary.Points)
	assert.Equal(t, 1, state.Streak)
	assert.False(t, state.Over)

	w = f.do(http.MethodPost, base+"/finish", FinishRequest{Win: true, Moves: 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	game := decode[report.GameReport](t, w)
	assert.Equal(t, "g1", game.GameID)
	assert.Equal(t, 8, game.Settlement.Summary.Points)
	assert.Positive(t, game.Settlement.XPEarned)

	// Settled sessions are gone.
	w = f.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, f.manager.Len())

	w = f.do(http.MethodGet, "/v1/players/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[store.Player](t, w)
	assert.Equal(t, game.Settlement.TotalXP, p.XP)
	assert.Equal(t, 1, p.Games)
	assert.Equal(t, 1, p.Wins)

	w = f.do(http.MethodGet, "/v1/players/alice/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]store.GameResult](t, w), 1)

	w = f.do(http.MethodGet, "/v1/leaderboard?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	leaders := decode[[]store.Player](t, w)
	require.Len(t, leaders, 1)
	assert.Equal(t, "alice", leaders[0].Name)
}

func TestServer_MateEndsGame(t *testing.T) {
	f := newFixture(t, neutral())
	f.start("g2", "bob")
	base := "/v1/games/g2/players/bob"

	w := f.do(http.MethodPost, base+"/moves", MoveRequest{Move: "d8h4", FEN: foolsFEN})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, base, nil)
	assert.True(t, decode[StateResponse](t, w).Over)

	w = f.do(http.MethodPost, base+"/moves", MoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GAME_OVER", decode[ErrorResponse](t, w).Code)

	w = f.do(http.MethodPost, base+"/challenges", GenerateRequest{FEN: startFEN})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_Errors(t *testing.T) {
	f := newFixture(t, neutral())
	f.start("g1", "alice")
	base := "/v1/games/g1/players/alice"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/v1/games/nope/players/alice", nil, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"duplicate session", http.MethodPost, "/v1/sessions", StartRequest{GameID: "g1", Player: "alice"}, http.StatusConflict, "SESSION_EXISTS"},
		{"missing player", http.MethodPost, "/v1/sessions", StartRequest{GameID: "g9"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad fen", http.MethodPost, base + "/challenges", GenerateRequest{FEN: "nonsense"}, http.StatusBadRequest, "INVALID_FEN"},
		{"missing fen", http.MethodPost, base + "/challenges", map[string]string{}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"illegal move", http.MethodPost, base + "/moves", MoveRequest{Move: "e2e5", FEN: startFEN}, http.StatusBadRequest, "ILLEGAL_MOVE"},
		{"unknown player", http.MethodGet, "/v1/players/nobody", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad limit", http.MethodGet, "/v1/leaderboard?limit=0", nil, http.StatusBadRequest, "INVALID_LIMIT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestServer_GenerationInProgress(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := analyzerFunc(func(ctx context.Context, pos board.Position) (*evaluation.Set, error) {
		close(entered)
		<-release
		return evaluation.NewSet(nil), nil
	})
	f := newFixture(t, blocking)
	f.start("g1", "alice")
	base := "/v1/games/g1/players/alice"

	done := make(chan int, 1)
	go func() {
		done <- f.do(http.MethodPost, base+"/challenges", GenerateRequest{FEN: startFEN}).Code
	}()
	<-entered

	w := f.do(http.MethodPost, base+"/moves", MoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GENERATION_IN_PROGRESS", decode[ErrorResponse](t, w).Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestServer_Abandon(t *testing.T) {
	f := newFixture(t, neutral())
	f.start("g1", "alice")

	w := f.do(http.MethodDelete, "/v1/games/g1/players/alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.manager.Len())

	w = f.do(http.MethodDelete, "/v1/games/g1/players/alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Token(t *testing.T) {
	f := newFixture(t, neutral(), WithToken("s3cret"))

	w := f.do(http.MethodPost, "/v1/sessions", StartRequest{Player: "alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/v1/sessions", StartRequest{Player: "alice"},
		"Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/v1/sessions", StartRequest{Player: "alice"},
		"Authorization", "bearer s3cret")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decode[SessionResponse](t, w).GameID, 36)

	// Health stays open.
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", nil).Code)
}

func TestServer_ReportDir(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, neutral(), WithReportDir(dir))
	f.start("g1", "alice")

	w := f.do(http.MethodPost, "/v1/games/g1/players/alice/finish", FinishRequest{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.FileExists(t, filepath.Join(dir, "game_g1_alice.json"))
	data, err := os.ReadFile(filepath.Join(dir, historyFile))
	require.NoError(t, err)
	var entry report.HistoricalEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "g1", entry.GameID)
	assert.Equal(t, "alice", entry.Player)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheus(reg)
	m := session.NewManager(neutral(), rec, session.WithSelector(knightOnly()))
	h := New(m, WithGatherer(reg)).Handler()

	_, err := m.Start("g1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "challenger_active_sessions 1")

	// No players configured: standings routes are absent.
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_LiveEvents(t *testing.T) {
	collector := monitor.NewEventCollector()
	hub := monitor.NewHub(collector, monitor.NewDashboardData("test"), nil)
	defer hub.Close()

	m := session.NewManager(neutral(), nil,
		session.WithSelector(knightOnly()),
		session.WithPublisher(collector),
	)
	ts := httptest.NewServer(New(m, WithHub(hub)).Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg monitor.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, monitor.KindDashboard, msg.Kind)
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, time.Second, 10*time.Millisecond)

	post := func(path string, body any) int {
		data, _ := json.Marshal(body)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	require.Equal(t, http.StatusCreated, post("/v1/sessions", StartRequest{GameID: "g1", Player: "alice"}))
	require.Equal(t, http.StatusOK, post("/v1/games/g1/players/alice/challenges", GenerateRequest{FEN: startFEN}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event monitor.Message
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, monitor.KindEvent, event.Kind)
	assert.Equal(t, string(monitor.EventPresented), event.Data.(map[string]any)["type"])

	resp, err := http.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", session.ErrSessionNotFound), http.StatusNotFound},
		{store.ErrNotFound, http.StatusNotFound},
		{session.ErrGenerationInProgress, http.StatusConflict},
		{session.ErrGameOver, http.StatusConflict},
		{session.ErrFinished, http.StatusConflict},
		{fmt.Errorf("%w: e2e5", board.ErrIllegalMove), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, _ := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}
