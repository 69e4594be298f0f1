package monitor

import (
	"sync"
	"time"
)

// Player session statuses.
const (
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// DashboardData keeps the live scoreboard of every session seen.
type DashboardData struct {
	mu        sync.RWMutex
	serverID  string
	startTime time.Time
	players   map[string]PlayerState
}

// PlayerState is the scoreboard row for one player in one game.
type PlayerState struct {
	GameID    string `json:"game_id"`
	Player    string `json:"player"`
	Status    string `json:"status"`
	Points    int    `json:"points"`
	Streak    int    `json:"streak"`
	BestCombo int    `json:"best_combo"`
	Presented int    `json:"presented"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Pending   int    `json:"pending"`
	Rank      string `json:"rank,omitempty"`

	LastEvent time.Time `json:"last_event"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Games          int     `json:"games"`
	Playing        int     `json:"playing"`
	Presented      int     `json:"presented"`
	Completed      int     `json:"completed"`
	Failed         int     `json:"failed"`
	CompletionRate float64 `json:"completion_rate"`
	Elapsed        string  `json:"elapsed"`
}

// DashboardSnapshot is a point-in-time copy of the dashboard.
type DashboardSnapshot struct {
	ServerID  string                 `json:"server_id"`
	StartTime time.Time              `json:"start_time"`
	Players   map[string]PlayerState `json:"players"`
	Summary   DashboardSummary       `json:"summary"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(serverID string) *DashboardData {
	return &DashboardData{
		serverID:  serverID,
		startTime: time.Now(),
		players:   make(map[string]PlayerState),
	}
}

func playerKey(gameID, player string) string {
	return gameID + "/" + player
}

// UpdateFromEvent updates dashboard state from a session event.
func (d *DashboardData) UpdateFromEvent(event ChallengeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := playerKey(event.GameID, event.Player)
	state, exists := d.players[key]
	if !exists {
		state = PlayerState{
			GameID: event.GameID,
			Player: event.Player,
			Status: StatusPlaying,
		}
	}

	switch event.Type {
	case EventPresented:
		state.Presented++
		state.Pending++
	case EventCompleted:
		state.Completed++
		state.Pending--
	case EventFailed:
		state.Failed++
		state.Pending--
	case EventScore:
		state.Points = event.Total
		state.Streak = event.Streak
		state.BestCombo = max(state.BestCombo, event.Combo)
	case EventRankUp:
		state.Rank = event.Rank
	case EventGameOver:
		state.Status = StatusFinished
		state.Points = event.Total
	}
	if state.Pending < 0 {
		state.Pending = 0
	}
	state.LastEvent = event.Timestamp

	d.players[key] = state
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardSnapshot{
		ServerID:  d.serverID,
		StartTime: d.startTime,
		Players:   make(map[string]PlayerState, len(d.players)),
	}
	games := make(map[string]bool)
	s := &snap.Summary
	for k, v := range d.players {
		snap.Players[k] = v
		games[v.GameID] = true
		if v.Status == StatusPlaying {
			s.Playing++
		}
		s.Presented += v.Presented
		s.Completed += v.Completed
		s.Failed += v.Failed
	}
	s.Games = len(games)
	if s.Presented > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Presented)
	}
	s.Elapsed = time.Since(d.startTime).Round(time.Millisecond).String()
	return snap
}

// BuildDashboardData creates a DashboardData from an EventCollector
// by replaying all retained events.
func BuildDashboardData(
	collector *EventCollector,
) *DashboardData {
	data := NewDashboardData("snapshot")
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
