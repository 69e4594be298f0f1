package challenge

// MaxFresh is the largest number of newly selected challenges in a
// batch. Carried-over challenges come on top.
const MaxFresh = 4

// Batch is the set of challenges live for the current turn.
type Batch struct {
	Challenges []*Challenge `json:"challenges"`
}

// NewBatch builds the batch for a turn from freshly selected
// challenges and the previous batch. Unresolved challenges with a
// persistent window are carried over ahead of the fresh ones; Turn
// challenges never are.
func NewBatch(fresh []*Challenge, prev *Batch) *Batch {
	b := &Batch{}
	for _, c := range prev.Pending() {
		if c.Window.Persistent() {
			b.Challenges = append(b.Challenges, c)
		}
	}
	b.Challenges = append(b.Challenges, fresh...)
	return b
}

// Len returns the number of challenges in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Challenges)
}

// Pending returns the challenges still possible.
func (b *Batch) Pending() []*Challenge {
	if b == nil {
		return nil
	}
	var out []*Challenge
	for _, c := range b.Challenges {
		if c.Status == StatusPossible {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the challenge with the given ID.
func (b *Batch) Find(id ID) (*Challenge, bool) {
	if b == nil {
		return nil, false
	}
	for _, c := range b.Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Snapshot returns deep copies of the batch members, safe to hand
// to callers outside the owning session.
func (b *Batch) Snapshot() []*Challenge {
	if b == nil {
		return []*Challenge{}
	}
	out := make([]*Challenge, 0, len(b.Challenges))
	for _, c := range b.Challenges {
		out = append(out, c.Clone())
	}
	return out
}
