package monitor

import (
	"sync"
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// EventCollector captures session events and fans them out to
// handlers.
type EventCollector struct {
	mu       sync.RWMutex
	events   []ChallengeEvent
	handlers []func(ChallengeEvent)
	stats    CollectorStats
	limit    int
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Presented int           `json:"presented"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	TimedOut  int           `json:"timed_out"`
	Points    int           `json:"points"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// DefaultLimit is the number of events an EventCollector retains.
const DefaultLimit = 4096

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]ChallengeEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
		limit:  DefaultLimit,
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(ChallengeEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers. Only the most
// recent events are retained; statistics cover all of them.
func (c *EventCollector) Emit(event ChallengeEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	if len(c.events) > c.limit {
		c.events = append(c.events[:0], c.events[len(c.events)-c.limit:]...)
	}
	c.stats.Total++
	switch event.Type {
	case EventPresented:
		c.stats.Presented++
	case EventCompleted:
		c.stats.Completed++
	case EventFailed:
		c.stats.Failed++
	case EventTimedOut:
		c.stats.TimedOut++
	case EventScore:
		c.stats.Points += event.Points
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(ChallengeEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func challengeEvent(t EventType, gameID, player string, ch *challenge.Challenge) ChallengeEvent {
	return ChallengeEvent{
		Type:          t,
		GameID:        gameID,
		Player:        player,
		ChallengeID:   ch.ID,
		ChallengeType: ch.Type,
		Description:   ch.Description,
		Difficulty:    ch.Difficulty,
		Reward:        ch.Reward,
		Status:        ch.Status,
		Timestamp:     time.Now(),
	}
}

// EmitPresented emits a challenge presented event.
func (c *EventCollector) EmitPresented(gameID, player string, ch *challenge.Challenge) {
	c.Emit(challengeEvent(EventPresented, gameID, player, ch))
}

// EmitResolved emits a completed or failed event for a challenge
// in a terminal state.
func (c *EventCollector) EmitResolved(gameID, player string, ch *challenge.Challenge) {
	t := EventFailed
	if ch.Status == challenge.StatusSuccess {
		t = EventCompleted
	}
	c.Emit(challengeEvent(t, gameID, player, ch))
}

// EmitScore emits the scoring of one turn.
func (c *EventCollector) EmitScore(gameID, player string, points, total, streak, combo int) {
	c.Emit(ChallengeEvent{
		Type:      EventScore,
		GameID:    gameID,
		Player:    player,
		Points:    points,
		Total:     total,
		Streak:    streak,
		Combo:     combo,
		Timestamp: time.Now(),
	})
}

// EmitRankUp emits a promotion to rank.
func (c *EventCollector) EmitRankUp(gameID, player, rank string) {
	c.Emit(ChallengeEvent{
		Type:      EventRankUp,
		GameID:    gameID,
		Player:    player,
		Rank:      rank,
		Timestamp: time.Now(),
	})
}

// EmitTimedOut emits an abandoned generation.
func (c *EventCollector) EmitTimedOut(gameID, player, msg string) {
	c.Emit(ChallengeEvent{
		Type:      EventTimedOut,
		GameID:    gameID,
		Player:    player,
		Message:   msg,
		Timestamp: time.Now(),
	})
}

// EmitGameOver emits the end of a player's game.
func (c *EventCollector) EmitGameOver(gameID, player string, total int) {
	c.Emit(ChallengeEvent{
		Type:      EventGameOver,
		GameID:    gameID,
		Player:    player,
		Total:     total,
		Timestamp: time.Now(),
	})
}

// Events returns a copy of all retained events.
func (c *EventCollector) Events() []ChallengeEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]ChallengeEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
