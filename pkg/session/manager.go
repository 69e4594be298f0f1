package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bezalel6/computer-chess/pkg/metrics"
)

var (
	// ErrSessionExists is returned when a player already has a
	// session in a game.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is returned for an unknown game/player.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPlayerRequired is returned by Start without a player.
	ErrPlayerRequired = errors.New("player is required")
)

type key struct {
	game   string
	player string
}

// Manager owns the live sessions of a server. Every session it
// starts shares the same analyzer and options.
type Manager struct {
	mu       sync.RWMutex
	sessions map[key]*Session
	analyzer Analyzer
	opts     []Option
	metrics  metrics.Recorder
}

// NewManager creates a manager. rec receives the active session
// gauge; opts apply to every session.
func NewManager(analyzer Analyzer, rec metrics.Recorder, opts ...Option) *Manager {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Manager{
		sessions: make(map[key]*Session),
		analyzer: analyzer,
		opts:     opts,
		metrics:  rec,
	}
}

// Start creates a session for player. An empty gameID gets a fresh
// identifier.
func (m *Manager) Start(gameID, player string, extra ...Option) (*Session, error) {
	if player == "" {
		return nil, ErrPlayerRequired
	}
	if gameID == "" {
		gameID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{game: gameID, player: player}
	if _, ok := m.sessions[k]; ok {
		return nil, fmt.Errorf("%s/%s: %w", gameID, player, ErrSessionExists)
	}
	opts := append(append([]Option(nil), m.opts...), extra...)
	s := New(gameID, player, m.analyzer, opts...)
	m.sessions[k] = s
	m.metrics.SetActiveSessions(len(m.sessions))
	return s, nil
}

// Get returns the session of player in gameID.
func (m *Manager) Get(gameID, player string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key{game: gameID, player: player}]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", gameID, player, ErrSessionNotFound)
	}
	return s, nil
}

// Remove forgets a session.
func (m *Manager) Remove(gameID, player string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key{game: gameID, player: player})
	m.metrics.SetActiveSessions(len(m.sessions))
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sessions returns the live sessions ordered by game then player.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].gameID != result[j].gameID {
			return result[i].gameID < result[j].gameID
		}
		return result[i].player < result[j].player
	})
	return result
}
