// Package httpclient is a Go client for the challenger HTTP API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bezalel6/computer-chess/pkg/api"
	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/report"
	"github.com/bezalel6/computer-chess/pkg/session"
	"github.com/bezalel6/computer-chess/pkg/store"
)

// ClientOption configures an APIClient via functional options.
type ClientOption func(*APIClient)

// APIClient calls a challenger server. Defaults match the server's
// defaults so callers can use NewAPIClient(url) with zero options.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// NewAPIClient creates an API client targeting the given base URL.
func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken sends the bearer token on every request.
func WithToken(token string) ClientOption {
	return func(c *APIClient) { c.token = token }
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *APIClient) { c.httpClient.Timeout = d }
}

// BaseURL returns the configured base URL.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(data)}
		var e api.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Code = e.Code
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func sessionPath(gameID, player string) string {
	return "/v1/games/" + url.PathEscape(gameID) + "/players/" + url.PathEscape(player)
}

// Health checks the server.
func (c *APIClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	var out api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSession opens a session. An empty gameID lets the server
// pick one.
func (c *APIClient) StartSession(ctx context.Context, gameID, player string) (*api.SessionResponse, error) {
	var out api.SessionResponse
	req := api.StartRequest{GameID: gameID, Player: player}
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateChallenges requests the challenges for fen.
func (c *APIClient) GenerateChallenges(
	ctx context.Context, gameID, player, fen string,
) ([]*challenge.Challenge, error) {
	var out api.ChallengesResponse
	req := api.GenerateRequest{FEN: fen}
	if err := c.do(ctx, http.MethodPost, sessionPath(gameID, player)+"/challenges", req, &out); err != nil {
		return nil, err
	}
	return out.Challenges, nil
}

// ApplyMove reports the move played.
func (c *APIClient) ApplyMove(
	ctx context.Context, gameID, player string, req api.MoveRequest,
) (*session.TurnResult, error) {
	var out session.TurnResult
	if err := c.do(ctx, http.MethodPost, sessionPath(gameID, player)+"/moves", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Finish settles the game and returns its report.
func (c *APIClient) Finish(
	ctx context.Context, gameID, player string, outcome api.FinishRequest,
) (*report.GameReport, error) {
	var out report.GameReport
	if err := c.do(ctx, http.MethodPost, sessionPath(gameID, player)+"/finish", outcome, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// State returns the session state.
func (c *APIClient) State(ctx context.Context, gameID, player string) (*api.StateResponse, error) {
	var out api.StateResponse
	if err := c.do(ctx, http.MethodGet, sessionPath(gameID, player), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Player returns the stored standing of name.
func (c *APIClient) Player(ctx context.Context, name string) (*store.Player, error) {
	var out store.Player
	if err := c.do(ctx, http.MethodGet, "/v1/players/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns up to limit players by XP.
func (c *APIClient) Leaderboard(ctx context.Context, limit int) ([]store.Player, error) {
	var out []store.Player
	path := "/v1/leaderboard?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
