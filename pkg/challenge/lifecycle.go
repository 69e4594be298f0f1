package challenge

import "sync"

// CompletionFunc is invoked once for every challenge that reaches a
// terminal state, with the challenge in its final state.
type CompletionFunc func(c *Challenge)

// Transition returns the status c moves to when move is played.
// Terminal challenges never change. A matching move succeeds; a
// miss fails Turn challenges immediately and other windows only
// once the game is over.
func Transition(c *Challenge, move string, gameOver bool) Status {
	if c.Status.IsFinal() {
		return c.Status
	}
	if c.Accepts(move) {
		return StatusSuccess
	}
	switch c.Window {
	case WindowTurn:
		return StatusFail
	default:
		// WindowGame and WindowTenMoves.
		if gameOver {
			return StatusFail
		}
		return StatusPossible
	}
}

// Resolution lists the challenges that changed state on one move.
type Resolution struct {
	Completed []*Challenge
	Failed    []*Challenge
}

// Tracker drives the lifecycle of a batch and notifies listeners
// of terminal transitions.
type Tracker struct {
	mu        sync.RWMutex
	listeners []CompletionFunc
}

// NewTracker creates a tracker with optional listeners.
func NewTracker(listeners ...CompletionFunc) *Tracker {
	return &Tracker{listeners: listeners}
}

// OnResolve registers an additional listener.
func (t *Tracker) OnResolve(fn CompletionFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Apply evaluates move against every possible challenge in batch,
// updating statuses in place.
func (t *Tracker) Apply(batch *Batch, move string, gameOver bool) Resolution {
	var res Resolution
	if batch == nil {
		return res
	}

	t.mu.RLock()
	listeners := append([]CompletionFunc(nil), t.listeners...)
	t.mu.RUnlock()

	for _, c := range batch.Challenges {
		if c.Status.IsFinal() {
			continue
		}
		next := Transition(c, move, gameOver)
		if next == c.Status {
			continue
		}
		c.Status = next
		if next == StatusSuccess {
			res.Completed = append(res.Completed, c)
		} else {
			res.Failed = append(res.Failed, c)
		}
		for _, fn := range listeners {
			fn(c)
		}
	}
	return res
}

// Expire fails every challenge still possible, as happens when the
// game ends without a final move being played.
func (t *Tracker) Expire(batch *Batch) Resolution {
	var res Resolution
	if batch == nil {
		return res
	}

	t.mu.RLock()
	listeners := append([]CompletionFunc(nil), t.listeners...)
	t.mu.RUnlock()

	for _, c := range batch.Challenges {
		if c.Status.IsFinal() {
			continue
		}
		c.Status = StatusFail
		res.Failed = append(res.Failed, c)
		for _, fn := range listeners {
			fn(c)
		}
	}
	return res
}
