package engine

import "github.com/Architecto0r/SlotZero/types"

// voteQueue is the time-indexed queue of pending vote deliveries. It
// preserves FIFO insertion order among equal deliver-slots.
type voteQueue struct {
	events []types.VoteEvent
}

func newVoteQueue() *voteQueue {
	return &voteQueue{}
}

func (q *voteQueue) enqueue(e types.VoteEvent) {
	q.events = append(q.events, e)
}

// drainDue removes and returns every event with deliver_slot <= currentSlot,
// in FIFO insertion order among equal deliver-slots, and leaves the
// remaining events in their original relative order.
func (q *voteQueue) drainDue(currentSlot uint64) []types.VoteEvent {
	var due []types.VoteEvent
	remaining := q.events[:0:0]
	for _, e := range q.events {
		if e.DeliverSlot <= currentSlot {
			due = append(due, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	q.events = remaining
	return due
}

// pending returns a read-only snapshot of the events still queued, in
// their current insertion order.
func (q *voteQueue) pending() []types.VoteEvent {
	out := make([]types.VoteEvent, len(q.events))
	copy(out, q.events)
	return out
}
